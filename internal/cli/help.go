package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFA500")).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)
)

// Flag groups. Ungrouped flags control the split itself.
const (
	GroupLogging = "logging"
	GroupTools   = "tools"
)

// Groups declares the flag group titles, in help order.
var Groups = []kong.Group{
	{Key: GroupLogging, Title: "Logging"},
	{Key: GroupTools, Title: "External tools"},
}

// helpExamples are shown after the flags.
var helpExamples = []string{
	"atmosplit movie.thd",
	"atmosplit -l 5.1 -c L,R,C movie.ac3",
	"atmosplit -k -d 1.5s -g -3 -o stems/movie movie.thd",
}

type helpEntry struct {
	name       string
	help       string
	defaultVal string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

// StyledHelpPrinter creates a custom help printer with Lipgloss styling.
// Flags are listed in their groups with the tool paths last.
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render("Atmosplit 🔊"))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render("Split immersive audio into one WAV file per channel"))
		sb.WriteString("\n")

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(fmt.Sprintf("%s [flags] <input>", ctx.Model.Name))
		sb.WriteString("\n")

		sections := append([]helpSection{{title: "Arguments", entries: arguments(ctx)}}, flagSections(ctx)...)
		width := 0
		for _, s := range sections {
			for _, e := range s.entries {
				width = max(width, len(e.name))
			}
		}

		for i, s := range sections {
			if len(s.entries) == 0 {
				continue
			}
			style := helpFlagStyle
			if i == 0 {
				style = helpArgStyle
			}
			writeSection(&sb, s, style, width)
		}

		sb.WriteString("\n")
		sb.WriteString(helpSectionStyle.Render("Examples:"))
		sb.WriteString("\n")
		for _, ex := range helpExamples {
			sb.WriteString("  " + ex + "\n")
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

func writeSection(sb *strings.Builder, s helpSection, style lipgloss.Style, width int) {
	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render(s.title + ":"))
	sb.WriteString("\n")
	for _, e := range s.entries {
		sb.WriteString("  ")
		sb.WriteString(style.Render(e.name))
		if e.help != "" {
			sb.WriteString(strings.Repeat(" ", width-len(e.name)+2))
			sb.WriteString(e.help)
		}
		if e.defaultVal != "" {
			sb.WriteString(" ")
			sb.WriteString(helpDefaultStyle.Render("(default: " + e.defaultVal + ")"))
		}
		sb.WriteString("\n")
	}
}

func arguments(ctx *kong.Context) []helpEntry {
	var args []helpEntry
	for _, arg := range ctx.Model.Node.Positional {
		args = append(args, helpEntry{name: arg.Summary(), help: arg.Help})
	}
	return args
}

// flagSections splits the flags into the ungrouped section followed by one
// section per group, in the order groups first appear.
func flagSections(ctx *kong.Context) []helpSection {
	sections := []helpSection{{
		title:   "Flags",
		entries: []helpEntry{{name: "-h, --help", help: "Show context-sensitive help."}},
	}}
	index := map[string]int{}

	for _, f := range ctx.Model.Node.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}

		i := 0
		if f.Group != nil {
			var ok bool
			if i, ok = index[f.Group.Key]; !ok {
				i = len(sections)
				index[f.Group.Key] = i
				sections = append(sections, helpSection{title: f.Group.Title})
			}
		}
		sections[i].entries = append(sections[i].entries, flagEntry(f))
	}
	return sections
}

func flagEntry(f *kong.Flag) helpEntry {
	name := "--" + f.Name
	if f.Short != 0 {
		name = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
	}
	if !f.IsBool() && f.PlaceHolder != "" {
		name += "=" + strings.ToUpper(f.PlaceHolder)
	}

	help := f.Help
	if len(f.Envs) > 0 {
		help += " ($" + strings.Join(f.Envs, ", $") + ")"
	}
	return helpEntry{name: name, help: help, defaultVal: f.Default}
}
