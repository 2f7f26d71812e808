package tree

import "go.i3wm.org/i3/v4"

// FromI3 converts an i3 layout tree into an owned Node tree.
//
// Workspaces become tags, childless containers outside dock areas become
// windows, and everything else is kept as a plain container.
func FromI3(n *i3.Node) *Node {
	return fromI3(n, false)
}

func fromI3(n *i3.Node, inDock bool) *Node {
	if n == nil {
		return nil
	}

	inDock = inDock || n.Type == i3.DockareaNode

	node := &Node{
		ID:      int64(n.ID),
		Name:    n.Name,
		Role:    roleOf(n, inDock),
		Focused: n.Focused,
		Urgent:  n.Urgent,
		Rect: Rect{
			X:      int(n.Rect.X),
			Y:      int(n.Rect.Y),
			Width:  int(n.Rect.Width),
			Height: int(n.Rect.Height),
		},
	}
	if node.Role == RoleWindow {
		node.WindowClass = n.WindowProperties.Class
		node.Window = uint32(n.Window)
	}

	for _, child := range n.Nodes {
		node.Nodes = append(node.Nodes, fromI3(child, inDock))
	}
	for _, child := range n.FloatingNodes {
		node.FloatingNodes = append(node.FloatingNodes, fromI3(child, inDock))
	}
	return node
}

func roleOf(n *i3.Node, inDock bool) Role {
	switch n.Type {
	case i3.WorkspaceNode:
		return RoleTag
	case i3.Con, i3.FloatingCon:
		if !inDock && n.Name != ContentName && len(n.Nodes) == 0 && len(n.FloatingNodes) == 0 {
			return RoleWindow
		}
	}
	return RoleContainer
}
