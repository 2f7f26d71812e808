package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/1broseidon/i3tags/internal/tree"
	"github.com/1broseidon/i3tags/internal/wm"
)

// switchMarker ends a retag entry and asks for a switch to the first tag.
const switchMarker = '.'

// Retag prompts for a tag entry and applies it to the focused window. Binding
// events are not delivered while the prompt is open.
func (e *Engine) Retag(ctx context.Context) error {
	resume := e.suspend()
	defer resume()
	defer e.presenter.Reset()

	if err := e.UpdateTagTree(ctx); err != nil {
		e.logger.Warn("reconcile before retag failed", "error", err)
	}

	entry, err := e.presenter.Prompt(ctx, e.retagPrompt)
	if errors.Is(err, ErrPromptCancelled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("retag prompt: %w", err)
	}
	return e.ProcessRetagEntry(ctx, entry)
}

// ProcessRetagEntry applies a typed retag entry to the focused window.
//
// "" kills the window and "exit" or "quit" return ErrQuit. Any other entry
// replaces the window's tags with one tag per rune, up to an optional '.'
// that also switches to the first tag afterwards. The window is physically
// moved to the first tag unless the entry mentions the tag it came from. An
// entry naming no tag before the '.' changes nothing.
func (e *Engine) ProcessRetagEntry(ctx context.Context, entry string) error {
	switch entry {
	case "exit", "quit":
		return ErrQuit
	}

	window, ws, err := e.focused()
	if err != nil {
		return err
	}

	if entry == "" {
		e.logger.Info("killing window", "window", window.ID)
		return e.run(ctx, wm.Kill(window.ID))
	}

	dest, ok := retagDestination(entry)
	if !ok {
		e.logger.Warn("retag entry names no tag, window left as is", "entry", entry)
		return nil
	}

	tags := e.session.TagTree
	tags.RemoveNodesByID(window.ID)

	switchAfter := false
	for _, r := range entry {
		if r == switchMarker {
			switchAfter = true
			break
		}
		if unicode.IsSpace(r) {
			continue
		}
		name := string(r)
		tag, ok := tags.FindTagByName(name)
		if !ok {
			tag = tree.NewTag(name)
			if err := tags.AppendTag(tag); err != nil {
				return err
			}
		}
		tag.AddWindow(window)
	}
	tags.SortTags()

	e.logger.Info("retagged window", "window", window.ID, "from", ws.Name, "entry", entry)
	if !strings.Contains(entry, ws.Name) {
		if err := e.moveToWorkspace(ctx, window.ID, dest); err != nil {
			return err
		}
	}
	if switchAfter {
		return e.SwitchTagByName(ctx, dest)
	}
	return nil
}

// retagDestination returns the first tag an entry names: its first
// non-space rune before the switch marker.
func retagDestination(entry string) (string, bool) {
	for _, r := range entry {
		if r == switchMarker {
			break
		}
		if !unicode.IsSpace(r) {
			return string(r), true
		}
	}
	return "", false
}
