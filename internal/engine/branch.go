package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/1broseidon/i3tags/internal/tree"
)

// ErrTagNotFound is returned when a named tag does not exist.
var ErrTagNotFound = errors.New("tag not found")

// Branch copies the focused window's tag under name and moves the window to
// the workspace of that name. An existing tag called name receives the
// copied members instead, so tag names stay unique.
func (e *Engine) Branch(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("branch needs a tag name")
	}
	window, ws, err := e.focused()
	if err != nil {
		return err
	}

	tags := e.session.TagTree
	var members []*tree.Node
	if src, ok := tags.FindTagByName(ws.Name); ok {
		members = src.LeafList()
	}
	if len(members) == 0 {
		members = []*tree.Node{window}
	}

	if dst, ok := tags.FindTagByName(name); ok {
		for _, w := range members {
			dst.AddWindow(w)
		}
	} else {
		branch := tree.NewTag(name)
		for _, w := range members {
			branch.AddWindow(w)
		}
		if err := tags.AppendTag(branch); err != nil {
			return err
		}
	}
	tags.SortTags()

	e.logger.Info("branched tag", "from", ws.Name, "to", name, "windows", len(members))
	return e.moveToWorkspace(ctx, window.ID, name)
}

// Tag returns a copy of the named tag.
func (e *Engine) Tag(name string) (*tree.Node, error) {
	tag, ok := e.session.TagTree.FindTagByName(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrTagNotFound)
	}
	return tag.Clone(), nil
}
