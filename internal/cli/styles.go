package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/leveladj/internal/autolevel"
)

var (
	primaryColor = lipgloss.Color("#A40000")
	warnColor    = lipgloss.Color("#FFA500")
	okColor      = lipgloss.Color("#00AA00")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	WarnStyle    = lipgloss.NewStyle().Bold(true).Foreground(warnColor)
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(okColor)

	KeyStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	ValueStyle = lipgloss.NewStyle().Bold(true).Foreground(textColor)
)

// PrintVersion prints the program and version
func PrintVersion(w io.Writer, version string) {
	fmt.Fprintln(w, TitleStyle.Render("leveladj"))
	PrintKeyValue(w, "Version", version)
	PrintKeyValue(w, "Levels", fmt.Sprintf("%d-%d", autolevel.MinLevel, autolevel.MaxLevel))
	fmt.Fprintln(w)
}

// PrintError prints an error message to stderr
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintKeyValue prints one styled "key: value" line
func PrintKeyValue(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(fmt.Sprint(value)))
}

// PrintSuccess prints a confirmation line
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintResult prints the level left applied on the device.
// An interrupted search is marked so it is not mistaken for a converged one.
func PrintResult(w io.Writer, device string, res autolevel.Result) {
	mark := SuccessStyle.Render("✓")
	if res.State != autolevel.Converged {
		mark = WarnStyle.Render("!")
	}
	fmt.Fprintf(w, "%s %s level %s (%s after %d iterations)\n",
		mark, device, ValueStyle.Render(fmt.Sprint(res.Level)), res.State, res.Iterations)
}
