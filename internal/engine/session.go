package engine

import "github.com/1broseidon/i3tags/internal/tree"

// Session is the engine's per-process state. Nothing here is persisted.
type Session struct {
	// PreviousTagName is the workspace that was focused before the most
	// recent switch; switching to the active tag goes back to it.
	PreviousTagName string
	// TagTree is the private tag tree.
	TagTree *tree.Node
	// WorkspaceTree is the latest live snapshot, used as best-effort ground
	// truth between reconciliations.
	WorkspaceTree *tree.Node
}

// Snapshot returns a deep copy of the tag tree, safe to hand to another
// goroutine.
func (e *Engine) Snapshot() *tree.Node {
	return e.session.TagTree.Clone()
}

// PreviousTagName returns the tag toggle target.
func (e *Engine) PreviousTagName() string {
	return e.session.PreviousTagName
}

// FocusedTagName returns the name of the workspace holding the focused
// window in the last snapshot, or "" when unknown.
func (e *Engine) FocusedTagName() string {
	if ws, ok := focusedWorkspace(e.session.WorkspaceTree); ok {
		return ws.Name
	}
	return ""
}

// focusedWorkspace returns the workspace holding the focused window, or the
// workspace flagged focused when it has no windows.
func focusedWorkspace(live *tree.Node) (*tree.Node, bool) {
	if live == nil {
		return nil, false
	}
	if window, ok := live.FindFocused(); ok {
		if ws, ok := live.WorkspaceOf(window.ID); ok {
			return ws, true
		}
	}
	for _, ws := range live.Workspaces() {
		if ws.Focused {
			return ws, true
		}
	}
	return nil, false
}
