// Package cli holds the console styling and help output of the leveladj command
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
			Foreground(lipgloss.Color("#A40000")).
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
				Foreground(lipgloss.Color("#888888")).
				Italic(true)
)

// SampleRates describes the values accepted by --tenxfsc
var SampleRates = []string{
	"0: native crystal frequency",
	"1: native * 1.25",
	"2: native * 1.4",
}

// StyledHelpPrinter creates a custom help printer with Lipgloss styling
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(ctx.Model.Name))
		sb.WriteString("\n")
		if ctx.Model.Help != "" {
			sb.WriteString(helpDescStyle.Render(ctx.Model.Help))
			sb.WriteString("\n")
		}

		writeSection(&sb, "Usage:")
		fmt.Fprintf(&sb, "  %s [flags] [<level>]\n", ctx.Model.Name)

		if args := positionals(ctx); len(args) > 0 {
			writeSection(&sb, "Arguments:")
			for _, arg := range args {
				fmt.Fprintf(&sb, "  %s  %s\n", helpArgStyle.Render(arg.name), arg.help)
			}
		}

		writeSection(&sb, "Flags:")
		for _, f := range flags(ctx) {
			sb.WriteString("  ")
			sb.WriteString(helpFlagStyle.Render(f.flags))
			if f.help != "" {
				sb.WriteString("  ")
				sb.WriteString(f.help)
			}
			if f.defaultVal != "" {
				sb.WriteString(" ")
				sb.WriteString(helpDefaultStyle.Render("(default: " + f.defaultVal + ")"))
			}
			if f.env != "" {
				sb.WriteString(" ")
				sb.WriteString(helpDefaultStyle.Render("($" + f.env + ")"))
			}
			sb.WriteString("\n")
		}

		writeSection(&sb, "Sample rates:")
		for _, rate := range SampleRates {
			fmt.Fprintf(&sb, "  %s\n", rate)
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render(title))
	sb.WriteString("\n")
}

type argument struct {
	name string
	help string
}

type flag struct {
	flags      string
	help       string
	defaultVal string
	env        string
}

func positionals(ctx *kong.Context) []argument {
	var args []argument
	for _, arg := range ctx.Model.Node.Positional {
		args = append(args, argument{name: arg.Summary(), help: arg.Help})
	}
	return args
}

func flags(ctx *kong.Context) []flag {
	list := []flag{{
		flags: "-h, --help",
		help:  "Show context-sensitive help.",
	}}

	for _, f := range ctx.Model.Node.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}

		name := "--" + f.Name
		if f.Short != 0 {
			name = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		}
		if !f.IsBool() && f.PlaceHolder != "" {
			name += "=" + strings.ToUpper(f.PlaceHolder)
		}

		entry := flag{
			flags:      name,
			help:       f.Help,
			defaultVal: f.Default,
		}
		if len(f.Envs) > 0 {
			entry.env = f.Envs[0]
		}
		list = append(list, entry)
	}

	return list
}
