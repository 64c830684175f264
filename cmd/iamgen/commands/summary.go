package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/viant/iamgen"
	"github.com/viant/iamgen/analyzer/call"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF99"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
)

// printSummary writes run totals and diagnostics to the terminal
func printSummary(writer io.Writer, result *iamgen.Result) {
	fmt.Fprintln(writer, titleStyle.Render(fmt.Sprintf("%d files, %d statements, %d diagnostics",
		result.Files, len(result.Policy.Statement), len(result.Diagnostics))))
	for _, diagnostic := range result.Diagnostics {
		style := warnStyle
		switch diagnostic.Kind {
		case call.ParseError, call.ReadError:
			style = errorStyle
		case call.UnmappedOperation:
			style = mutedStyle
		}
		fmt.Fprintln(writer, style.Render(diagnostic.String()))
	}
	fmt.Fprintln(writer, mutedStyle.Render("digest "+result.Digest))
}
