package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Retitle prompts for a new title for the focused window.
func (e *Engine) Retitle(ctx context.Context) error {
	resume := e.suspend()
	defer resume()
	defer e.presenter.Reset()

	title, err := e.presenter.Prompt(ctx, e.titlePrompt)
	if errors.Is(err, ErrPromptCancelled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("title prompt: %w", err)
	}
	return e.ProcessTitleEntry(ctx, title)
}

// ProcessTitleEntry renames the focused window in the cached trees and asks
// the rename tool to set the real title.
func (e *Engine) ProcessTitleEntry(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	window, _, err := e.focused()
	if err != nil {
		return err
	}

	e.session.TagTree.RenameWindow(window.ID, title)
	e.session.WorkspaceTree.RenameWindow(window.ID, title)

	if e.renamer == nil || window.Window == 0 {
		e.logger.Debug("skipping external rename", "window", window.ID)
		return nil
	}
	if err := e.renamer.SetWindowTitle(window.Window, title); err != nil {
		return fmt.Errorf("rename window 0x%x: %w", window.Window, err)
	}
	return nil
}
