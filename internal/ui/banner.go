package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true)
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Banner prints the per-project header emitted before each fan-out command,
// identifying which clone the following output belongs to.
func Banner(out io.Writer, name, path string) {
	_, _ = fmt.Fprintf(out, "%s %s\n", bannerStyle.Render("==="), pathStyle.Render(path)+bannerStyle.Render(" ("+name+")"))
}

// Failure prints a per-project failure line.
func Failure(out io.Writer, path string, err error) {
	_, _ = fmt.Fprintf(out, "%s %s: %v\n", failStyle.Render("FAIL"), path, err)
}

// Warning prints a warning line.
func Warning(out io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(out, "%s %s\n", warningStyle.Render("Warning:"), fmt.Sprintf(format, args...))
}
