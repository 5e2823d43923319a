package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

var (
	quietMode    = false
	colorEnabled = true
)

// SetQuietMode suppresses informational output. Errors and final
// results are still printed.
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// IsQuietMode reports whether quiet mode is active
func IsQuietMode() bool {
	return quietMode
}

// SetColorEnabled toggles ANSI styling of output
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// IsTerminal reports whether stdout is attached to a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// render applies a style unless colors are disabled
func render(style lipgloss.Style, text string) string {
	if !colorEnabled {
		return text
	}
	return style.Render(text)
}

// PrintError prints an error message in red. Not suppressed by quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(render(errorStyle, msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(render(errorStyle, msg))
	}
}

// PrintSuccess prints a success message in green. Not suppressed by
// quiet mode since it carries the final result of a command.
func PrintSuccess(msg string) {
	fmt.Println(render(successStyle, msg))
}

// PrintInfo prints a labeled value in cyan and yellow
func PrintInfo(label string, value string) {
	if quietMode {
		return
	}
	fmt.Printf("%s: %s\n", render(labelStyle, label), render(valueStyle, value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if quietMode {
		return
	}
	if len(args) > 0 {
		fmt.Println(render(warningStyle, msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(render(warningStyle, msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quietMode {
		return
	}
	fmt.Println(render(highlightStyle, msg))
}

// PrintDim prints de-emphasized detail text
func PrintDim(msg string) {
	if quietMode {
		return
	}
	fmt.Println(render(dimStyle, msg))
}
