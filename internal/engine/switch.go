package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/1broseidon/i3tags/internal/wm"
)

// SwitchTagFromEvent switches to the tag named by the event's key symbol.
func (e *Engine) SwitchTagFromEvent(ctx context.Context, ev wm.BindingEvent) error {
	if ev.Symbol == "" {
		return errors.New("binding has no key symbol")
	}
	return e.SwitchTagByName(ctx, ev.Symbol)
}

// SwitchTagByName makes the tag's windows the visible workspace. Asking for
// the tag that is already focused toggles back to the previous one.
//
// Windows of the target tag that are not already at the same position in
// the live workspace are moved there first; a move failure is logged and the
// switch still happens.
func (e *Engine) SwitchTagByName(ctx context.Context, key string) error {
	e.presenter.Reset()
	e.refreshWorkspaceTree(ctx)

	target := e.resolveToggle(key)
	if target == "" {
		return errors.New("empty tag name")
	}

	if tag, ok := e.session.TagTree.FindTagByName(target); ok {
		var live []int64
		if ws, ok := e.session.WorkspaceTree.FindTagByName(target); ok {
			for _, w := range ws.LeafList() {
				live = append(live, w.ID)
			}
		}
		for i, w := range tag.LeafList() {
			if i < len(live) && live[i] == w.ID {
				continue
			}
			if err := e.moveToWorkspace(ctx, w.ID, target); err != nil {
				e.logger.Warn("move failed", "window", w.ID, "tag", target, "error", err)
			}
		}
	}

	e.logger.Info("switching tag", "tag", target, "previous", e.session.PreviousTagName)
	if err := e.wm.SwitchWorkspace(ctx, target); err != nil {
		return fmt.Errorf("switch to %q: %w", target, err)
	}
	return nil
}

// resolveToggle returns the tag to switch to and records the currently
// focused workspace as the previous tag.
func (e *Engine) resolveToggle(key string) string {
	current := e.FocusedTagName()
	target := key
	if current != "" && current == key && e.session.PreviousTagName != "" {
		target = e.session.PreviousTagName
	}
	if current != "" {
		e.session.PreviousTagName = current
	}
	return target
}
