// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Common key binding constants.
const (
	KeyCtrlC    = "ctrl+c"
	KeyCtrlJ    = "ctrl+j"
	KeyTab      = "tab"
	KeyShiftTab = "shift+tab"
	KeyEnter    = "enter"
	KeyEsc      = "esc"
	KeyUp       = "up"
	KeyDown     = "down"
	KeyLeft     = "left"
	KeyRight    = "right"
)

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run starts the TUI program with the given model.
// If stdout is a TTY, it runs in alternate screen mode.
// Otherwise, it points the user at the line-mode commands.
func Run(m tea.Model) error {
	if IsTTY() {
		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err := p.Run()
		return err
	}
	return runFallback()
}

// runFallback handles non-TTY execution.
func runFallback() error {
	fmt.Println("Non-TTY environment detected.")
	fmt.Println("Use 'coach interview' for a line-mode interview, or 'coach --help' for scriptable commands.")
	return nil
}
