// Package log provides colored terminal output for the looper CLI.
// Level tags are styled with lipgloss, which degrades to plain text
// when stdout is not a terminal, so piped output stays clean.
package log

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the level tags.
var (
	infoStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// sectionLine is the unicode box-draw separator used by Section.
const sectionLine = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// OsExit is the function called by Fatal to terminate the process.
// It is a package-level variable so tests can replace it without subprocess overhead.
var OsExit = os.Exit

// Info prints a white [INFO] message to stdout.
func Info(msg string) {
	fmt.Printf("%s %s\n", infoStyle.Render("[INFO]"), msg)
}

// Success prints a green [SUCCESS] message to stdout.
func Success(msg string) {
	fmt.Printf("%s %s\n", successStyle.Render("[SUCCESS]"), msg)
}

// Warning prints a yellow [WARNING] message to stdout.
func Warning(msg string) {
	fmt.Printf("%s %s\n", warningStyle.Render("[WARNING]"), msg)
}

// Error prints a red [ERROR] message to stdout.
func Error(msg string) {
	fmt.Printf("%s %s\n", errorStyle.Render("[ERROR]"), msg)
}

// Fatal prints a red [ERROR] message then exits with status 1.
func Fatal(msg string) {
	Error(msg)
	OsExit(1)
}

// Section prints a cyan unicode box-draw separator with a title.
func Section(title string) {
	fmt.Printf("\n%s\n", sectionStyle.Render(sectionLine))
	fmt.Printf("%s\n", sectionStyle.Render(title))
	fmt.Printf("%s\n\n", sectionStyle.Render(sectionLine))
}
