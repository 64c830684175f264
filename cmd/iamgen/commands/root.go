package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "iamgen",
	Short: "Least privilege IAM policy generator",
	Long: `iamgen statically analyzes Go, Python, JavaScript and TypeScript sources,
finds AWS SDK calls and synthesizes the IAM policy the code needs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, interrupt cancels analysis between files
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file location, any afs URL (default .iamgen.yaml in working or home directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	rootCmd.AddCommand(generateCmd)
}

func initConfig() {
	_ = godotenv.Load()
	viper.SetEnvPrefix("IAMGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// newLogger returns text logger, debug level when verbose, warnings only otherwise
func newLogger(writer io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))
}
