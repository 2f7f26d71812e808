package engine

import (
	"context"
	"fmt"

	"github.com/1broseidon/i3tags/internal/tree"
)

// UpdateTagTree fetches a fresh snapshot and reconciles the tag tree with it.
// On fetch failure the tag tree is left untouched.
func (e *Engine) UpdateTagTree(ctx context.Context) error {
	live, err := e.wm.GetTree(ctx)
	if err != nil {
		return fmt.Errorf("fetch tree: %w", err)
	}
	if err := tree.ValidateShape(live); err != nil {
		return err
	}

	if e.session.TagTree == nil {
		tags, err := tree.NewTagTree(live)
		if err != nil {
			return err
		}
		e.session.TagTree = tags
	}

	if err := Reconcile(e.session.TagTree, live); err != nil {
		return err
	}
	e.session.WorkspaceTree = live

	e.logger.Debug("tag tree reconciled",
		"tags", len(e.session.TagTree.Tags()),
		"focused", e.FocusedTagName())
	return nil
}

// Reconcile brings tagTree into agreement with the live snapshot. The
// phases run in order; each relies on the previous one's result.
func Reconcile(tagTree, live *tree.Node) error {
	if err := inspectTags(tagTree, live); err != nil {
		return err
	}
	if err := inspectWorkspaces(tagTree, live); err != nil {
		return err
	}
	if err := inspectWindows(tagTree, live); err != nil {
		return err
	}
	tagTree.SortTags()
	return nil
}

// inspectTags replaces the focused tag with its live workspace, filters every
// other tag to live windows and drops tags left empty.
func inspectTags(tagTree, live *tree.Node) error {
	current, hasCurrent := focusedWorkspace(live)
	liveIDs := live.LeafIDs()

	var kept []*tree.Node
	for _, tag := range tagTree.Tags() {
		if hasCurrent && tag.Name == current.Name {
			replacement := current.Clone()
			replacement.Focused = true
			kept = append(kept, replacement)
			continue
		}
		tag.UpdateTag(liveIDs)
		if len(tag.Nodes) == 0 {
			continue
		}
		kept = append(kept, tag)
	}
	return tagTree.SetTags(kept)
}

// inspectWorkspaces adopts live workspaces no tag represents yet.
func inspectWorkspaces(tagTree, live *tree.Node) error {
	names := make(map[string]struct{})
	for _, tag := range tagTree.Tags() {
		names[tag.Name] = struct{}{}
	}
	for _, ws := range live.Workspaces() {
		if _, ok := names[ws.Name]; ok {
			continue
		}
		if err := tagTree.AppendTag(ws.Clone()); err != nil {
			return err
		}
		names[ws.Name] = struct{}{}
	}
	return nil
}

// inspectWindows adds every untagged live window to the tag of its workspace.
// Scratchpad windows land in a tag named after the scratchpad workspace.
func inspectWindows(tagTree, live *tree.Node) error {
	tagged := tagTree.LeafIDs()
	for window := range live.Leaves() {
		if _, ok := tagged[window.ID]; ok {
			continue
		}
		ws, ok := live.WorkspaceOf(window.ID)
		if !ok {
			continue
		}
		tag, err := tagForWorkspace(tagTree, ws)
		if err != nil {
			return err
		}
		tag.AddWindow(window)
		tagged[window.ID] = struct{}{}
	}
	return nil
}

// tagForWorkspace finds the tag sharing the workspace's id, then its name.
// A workspace recreated under a new id keeps its old tag by name.
func tagForWorkspace(tagTree, ws *tree.Node) (*tree.Node, error) {
	if tag, ok := tagTree.FindTagByID(ws.ID); ok {
		return tag, nil
	}
	if tag, ok := tagTree.FindTagByName(ws.Name); ok {
		return tag, nil
	}
	tag := tree.NewTag(ws.Name)
	if err := tagTree.AppendTag(tag); err != nil {
		return nil, err
	}
	return tag, nil
}
