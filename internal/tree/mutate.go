package tree

// RemoveNodesByID drops every node with the given id from every level of the
// subtree below n.
func (n *Node) RemoveNodesByID(id int64) {
	if n == nil {
		return
	}
	n.Nodes = withoutID(n.Nodes, id)
	n.FloatingNodes = withoutID(n.FloatingNodes, id)
	for _, child := range n.Nodes {
		child.RemoveNodesByID(id)
	}
	for _, child := range n.FloatingNodes {
		child.RemoveNodesByID(id)
	}
}

func withoutID(nodes []*Node, id int64) []*Node {
	if len(nodes) == 0 {
		return nodes
	}
	kept := nodes[:0:0]
	for _, node := range nodes {
		if node.ID != id {
			kept = append(kept, node)
		}
	}
	return kept
}

// RemoveFocus clears the focus flag on n and returns it.
func (n *Node) RemoveFocus() *Node {
	n.Focused = false
	return n
}

// UpdateTag reduces a non-focused tag to the windows still present in the
// live tree. Membership is flattened to window leaves, focus is cleared on
// the tag and on every kept window, and no window is added.
func (n *Node) UpdateTag(liveIDs map[int64]struct{}) *Node {
	n.Focused = false

	var kept []*Node
	for leaf := range n.Leaves() {
		if _, ok := liveIDs[leaf.ID]; ok {
			kept = append(kept, leaf.RemoveFocus())
		}
	}
	n.Nodes = kept
	n.FloatingNodes = nil
	return n
}

// HasWindow reports whether the window id is a leaf of n.
func (n *Node) HasWindow(id int64) bool {
	for leaf := range n.Leaves() {
		if leaf.ID == id {
			return true
		}
	}
	return false
}

// AddWindow appends a copy of window to the tag unless it is already a member.
func (n *Node) AddWindow(window *Node) bool {
	if n.HasWindow(window.ID) {
		return false
	}
	n.Nodes = append(n.Nodes, window.Clone())
	return true
}

// RenameWindow sets the name of every copy of the window id below n and
// returns how many copies were renamed.
func (n *Node) RenameWindow(id int64, name string) int {
	renamed := 0
	for leaf := range n.Leaves() {
		if leaf.ID == id {
			leaf.Name = name
			renamed++
		}
	}
	return renamed
}
