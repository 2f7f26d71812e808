// Package tui is a terminal browser for the daemon's tag tree.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/i3tags/internal/ipc"
)

// TagSource is the daemon surface the browser needs. *ipc.Client implements it.
type TagSource interface {
	GetTags() (*ipc.TagsData, error)
	GetStatus() (*ipc.StatusData, error)
	Switch(tag string) error
	Run(tokens, symbol string) error
}

var _ TagSource = (*ipc.Client)(nil)

// Run starts the browser and blocks until the user quits.
func Run(source TagSource) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
