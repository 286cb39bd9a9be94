package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/linuxmatters/atmosplit/internal/processor"
	"github.com/linuxmatters/atmosplit/internal/progress"
)

var (
	accentColor = lipgloss.Color("#0087AF")
	okColor     = lipgloss.Color("#00AA00")
	busyColor   = lipgloss.Color("#FFA500")
	failColor   = lipgloss.Color("#A40000")
	mutedColor  = lipgloss.Color("#888888")
)

// renderProcessingView renders the main processing view
func renderProcessingView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	for _, sp := range m.Stages {
		b.WriteString(renderStage(sp))
		b.WriteString("\n")
	}

	if len(m.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(renderWarnings(m.Warnings))
	}

	b.WriteString("\n")
	b.WriteString(renderFooter(m))
	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Render("Atmosplit - Immersive Audio Channel Splitter")

	subtitle := fmt.Sprintf("%s → %s layout", filepath.Base(m.Input), m.Layout)
	if m.Metadata != nil {
		subtitle += "\n" + m.Metadata.Summary()
	}
	subtitle = lipgloss.NewStyle().
		Foreground(mutedColor).
		Italic(true).
		Render(subtitle)

	return title + "\n" + subtitle
}

// renderStage renders one stage line, with the progress bar under an active
// or finished stage that reported progress
func renderStage(sp StageProgress) string {
	var icon string
	switch sp.Status {
	case StatusComplete:
		icon = lipgloss.NewStyle().Foreground(okColor).Render("✓")
	case StatusActive:
		icon = lipgloss.NewStyle().Foreground(busyColor).Render("⚙")
	case StatusError:
		icon = lipgloss.NewStyle().Foreground(failColor).Render("✗")
	default:
		icon = lipgloss.NewStyle().Foreground(mutedColor).Render("○")
	}

	line := fmt.Sprintf(" %s %s", icon, stageTitle(sp.Stage))
	if sp.Seen && sp.Status != StatusPending {
		line += "\n   " + progress.Render(sp.Elapsed, sp.Update)
	}
	return line
}

func stageTitle(s processor.State) string {
	switch s {
	case processor.StateMetadataReady:
		return "Reading metadata"
	case processor.StateDecoding:
		return "Decoding"
	case processor.StateTranscoding:
		return "Splitting channels"
	default:
		return s.String()
	}
}

func renderWarnings(warnings []string) string {
	style := lipgloss.NewStyle().Foreground(busyColor)
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(style.Render(" ⚠ " + w))
		b.WriteString("\n")
	}
	return b.String()
}

func renderFooter(m Model) string {
	text := "ctrl+c to cancel"
	if m.Cancelling {
		text = "Cancelling, cleaning up..."
	}
	return lipgloss.NewStyle().Foreground(mutedColor).Render(text) + "\n"
}

// renderCompletionView renders the final state. Errors are reported by the
// caller after the program exits.
func renderCompletionView(m Model) string {
	var b strings.Builder
	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")
	for _, sp := range m.Stages {
		b.WriteString(renderStage(sp))
		b.WriteString("\n")
	}
	if len(m.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(renderWarnings(m.Warnings))
	}
	b.WriteString("\n")
	b.WriteString(RenderSummary(m.Result, m.Err))
	return b.String()
}

// RenderSummary lists the produced files with their sizes, or a one-line
// status when the run failed.
func RenderSummary(st *processor.RunState, err error) string {
	if err != nil {
		status := "✗ Split failed"
		if errors.Is(err, processor.ErrInterrupted) {
			status = "✗ Split interrupted"
		}
		return lipgloss.NewStyle().Bold(true).Foreground(failColor).Render(status) + "\n"
	}
	if st == nil || len(st.Outputs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(okColor).
		Render(fmt.Sprintf("✨ Split complete: %d channel(s)", len(st.Outputs))))
	b.WriteString("\n\n")

	var total uint64
	for _, path := range st.Outputs {
		size := "?"
		if info, statErr := os.Stat(path); statErr == nil {
			total += uint64(info.Size())
			size = humanize.Bytes(uint64(info.Size()))
		}
		fmt.Fprintf(&b, "   %s  %s\n", filepath.Base(path),
			lipgloss.NewStyle().Foreground(mutedColor).Render(size))
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total %s in %s\n", humanize.Bytes(total), filepath.Dir(st.Outputs[0]))
	return b.String()
}
