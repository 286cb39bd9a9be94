package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/atmosplit/internal/processor"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#0087AF") // Atmosplit blue
	errorColor   = lipgloss.Color("#A40000") // Red
	mutedColor   = lipgloss.Color("#888888") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	// Child process output attached to a failure
	DiagnosticStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("Atmosplit 🔊"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintRunError prints a run failure to w: the code and message, then the
// tool output that led to it, indented and muted.
func PrintRunError(w io.Writer, err error) {
	var perr *processor.Error
	if !errors.As(err, &perr) {
		fmt.Fprintf(w, "%s %v\n", ErrorStyle.Render("Error:"), err)
		return
	}

	fmt.Fprintf(w, "%s %s %s\n", ErrorStyle.Render("Error:"), perr.Error(), KeyStyle.Render("("+string(perr.Code)+")"))
	if perr.Diagnostics == "" {
		return
	}
	for _, line := range strings.Split(perr.Diagnostics, "\n") {
		fmt.Fprintln(w, DiagnosticStyle.Render("  "+line))
	}
}
