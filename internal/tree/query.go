package tree

import (
	"cmp"
	"iter"
	"slices"
)

// Leaves yields every window reachable from n, depth-first, tiling children
// before floating ones. The sequence is recomputed on every iteration.
func (n *Node) Leaves() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walkLeaves(yield)
	}
}

func (n *Node) walkLeaves(yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if n.IsWindow() {
		return yield(n)
	}
	for _, child := range n.Nodes {
		if !child.walkLeaves(yield) {
			return false
		}
	}
	for _, child := range n.FloatingNodes {
		if !child.walkLeaves(yield) {
			return false
		}
	}
	return true
}

// LeafIDs returns the set of window ids below n.
func (n *Node) LeafIDs() map[int64]struct{} {
	ids := make(map[int64]struct{})
	for leaf := range n.Leaves() {
		ids[leaf.ID] = struct{}{}
	}
	return ids
}

// LeafList collects Leaves into a slice.
func (n *Node) LeafList() []*Node {
	var out []*Node
	for leaf := range n.Leaves() {
		out = append(out, leaf)
	}
	return out
}

// contents returns the content container of every user output, in order.
func (n *Node) contents() []*Node {
	return n.outputContents(false)
}

// outputContents is contents, optionally including i3's internal output
// whose content holds the scratchpad workspace.
func (n *Node) outputContents(internal bool) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, output := range n.Nodes {
		if output.Name == internalOutputName && !internal {
			continue
		}
		for _, child := range output.Nodes {
			if child.Name == ContentName && child.Role == RoleContainer {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

// Workspaces returns the workspaces under every output's content container.
func (n *Node) Workspaces() []*Node {
	var out []*Node
	for _, content := range n.contents() {
		out = append(out, content.Nodes...)
	}
	return out
}

// Tags is Workspaces for a tag tree.
func (n *Node) Tags() []*Node {
	return n.Workspaces()
}

// SetTags replaces the tag collection of a tag tree. It returns
// ErrUnexpectedShape when the tree has no content container.
func (n *Node) SetTags(tags []*Node) error {
	contents := n.contents()
	if len(contents) == 0 {
		return ErrUnexpectedShape
	}
	contents[0].Nodes = tags
	return nil
}

// SortTags orders the tags of a tag tree by name, in place. Tags with equal
// names keep their relative order.
func (n *Node) SortTags() {
	for _, content := range n.contents() {
		slices.SortStableFunc(content.Nodes, func(a, b *Node) int {
			return cmp.Compare(a.Name, b.Name)
		})
	}
}

// AppendTag adds tag to the tag collection of a tag tree.
func (n *Node) AppendTag(tag *Node) error {
	contents := n.contents()
	if len(contents) == 0 {
		return ErrUnexpectedShape
	}
	contents[0].Nodes = append(contents[0].Nodes, tag)
	return nil
}

// FindFocused returns the focused window.
func (n *Node) FindFocused() (*Node, bool) {
	for leaf := range n.Leaves() {
		if leaf.Focused {
			return leaf, true
		}
	}
	return nil, false
}

// FindByID returns the first node with the given id, depth-first.
func (n *Node) FindByID(id int64) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	if n.ID == id {
		return n, true
	}
	for _, child := range n.Nodes {
		if found, ok := child.FindByID(id); ok {
			return found, true
		}
	}
	for _, child := range n.FloatingNodes {
		if found, ok := child.FindByID(id); ok {
			return found, true
		}
	}
	return nil, false
}

// FindTagByName returns the first tag (or workspace) called name.
func (n *Node) FindTagByName(name string) (*Node, bool) {
	for _, tag := range n.Workspaces() {
		if tag.Name == name {
			return tag, true
		}
	}
	return nil, false
}

// FindTagByID returns the tag (or workspace) with the given id.
func (n *Node) FindTagByID(id int64) (*Node, bool) {
	for _, tag := range n.Workspaces() {
		if tag.ID == id {
			return tag, true
		}
	}
	return nil, false
}

// WorkspaceOf returns the first workspace (or tag) containing the node id.
// The scratchpad workspace counts, so a window hidden there still has one.
func (n *Node) WorkspaceOf(id int64) (*Node, bool) {
	var all []*Node
	for _, content := range n.outputContents(true) {
		all = append(all, content.Nodes...)
	}
	for _, ws := range all {
		if ws.ID == id {
			return ws, true
		}
		if _, ok := ws.FindByID(id); ok {
			return ws, true
		}
	}
	return nil, false
}

// TagsContaining returns every tag holding the window id.
func (n *Node) TagsContaining(id int64) []*Node {
	var out []*Node
	for _, tag := range n.Tags() {
		if _, ok := tag.FindByID(id); ok {
			out = append(out, tag)
		}
	}
	return out
}
