package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/viant/afs"
	"github.com/viant/iamgen"
	"github.com/viant/iamgen/config"
)

const configName = ".iamgen.yaml"

var generateCmd = &cobra.Command{
	Use:   "generate [path...]",
	Short: "Generate IAM policy for source files and directories",
	Example: `  iamgen generate ./service
  iamgen generate --format yaml --raw handler.py
  iamgen generate --region us-east-1 --account 123456789012 --policy-only -o policy.json .`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

// flag name to config key
var bindings = map[string]string{
	"workers":       "workers",
	"language":      "languages",
	"partition":     "partition",
	"region":        "region",
	"account":       "account",
	"catalog":       "catalog",
	"format":        "format",
	"raw":           "raw",
	"precision":     "precision",
	"statement-ids": "statement-ids",
	"skip-tests":    "skip-tests",
	"exclude":       "exclude",
	"policy-only":   "policy-only",
	"output":        "output",
	"strict":        "strict",
}

func init() {
	bindFlags(generateCmd.Flags())
}

// bindFlags declares generation flags and binds them to config keys
func bindFlags(flags *pflag.FlagSet) {
	defaults := config.New()
	flags.IntP("workers", "w", defaults.Workers, "files analyzed in parallel")
	flags.StringToString("language", nil, "language override per path or extension, e.g. .es6=javascript")
	flags.String("partition", defaults.Partition, "ARN partition")
	flags.String("region", defaults.Region, "ARN region")
	flags.String("account", defaults.Account, "ARN account id")
	flags.String("catalog", "", "knowledge base YAML location, embedded catalog when empty")
	flags.StringP("format", "f", defaults.Format, "output format: json or yaml")
	flags.Bool("raw", false, "include call sites and mappings in output")
	flags.Bool("precision", false, "drop paginators and waiters that are never driven")
	flags.Bool("statement-ids", false, "assign Sid to policy statements")
	flags.Bool("skip-tests", defaults.SkipTests, "skip test files and directories")
	flags.StringSlice("exclude", nil, "additional directory names to skip")
	flags.Bool("policy-only", false, "write policy document only, without diagnostics")
	flags.StringP("output", "o", "", "output location, stdout when empty")
	flags.Bool("strict", false, "fail when any call cannot be attributed to a service")
	for name, key := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fs := afs.New()
	cfg, err := loadConfig(ctx, fs)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())
	srv, err := iamgen.New(ctx, cfg, iamgen.WithLogger(logger), iamgen.WithFS(fs))
	if err != nil {
		return err
	}
	result, err := srv.Generate(ctx, args...)
	if err != nil {
		return err
	}
	var data []byte
	if viper.GetBool("policy-only") {
		if data, err = result.Policy.JSON(); err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = result.Render(cfg.Format)
	}
	if err != nil {
		return err
	}
	if output := viper.GetString("output"); output != "" {
		if err := fs.Upload(ctx, output, 0o644, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to write %v: %w", output, err)
		}
	} else if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}
	printSummary(cmd.ErrOrStderr(), result)
	if unresolved := result.Unresolved(); unresolved > 0 && viper.GetBool("strict") {
		return fmt.Errorf("%d calls could not be attributed to a service", unresolved)
	}
	return nil
}

// loadConfig loads config file on top of defaults, then applies IAMGEN_* environment and flags set explicitly
func loadConfig(ctx context.Context, fs afs.Service) (*config.Config, error) {
	cfg := config.New()
	location, err := configLocation(ctx, fs)
	if err != nil {
		return nil, err
	}
	if location != "" {
		if cfg, err = config.Load(ctx, fs, location); err != nil {
			return nil, err
		}
	}
	overrides := viper.New()
	for _, key := range bindings {
		if viper.IsSet(key) {
			overrides.Set(key, viper.Get(key))
		}
	}
	if err := overrides.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// configLocation returns --config value, or .iamgen.yaml found in working or home directory
func configLocation(ctx context.Context, fs afs.Service) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	candidates := []string{configName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, configName))
	}
	for _, candidate := range candidates {
		ok, err := fs.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check config %v: %w", candidate, err)
		}
		if ok {
			return candidate, nil
		}
	}
	return "", nil
}
