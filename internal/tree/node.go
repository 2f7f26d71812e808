package tree

import (
	"errors"
	"sync/atomic"
)

// Role distinguishes what a node stands for in a tree.
type Role int

const (
	RoleContainer Role = iota
	RoleTag
	RoleWindow
)

// String returns the string representation of the role
func (r Role) String() string {
	switch r {
	case RoleContainer:
		return "container"
	case RoleTag:
		return "tag"
	case RoleWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Rect describes a window geometry in screen coordinates.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Node is an element of either the live window-manager tree or the tag tree.
//
// Tags are nodes with RoleTag whose Nodes are the member windows. Live
// workspaces convert to RoleTag as well, which is what lets a workspace be
// adopted into the tag tree as-is.
type Node struct {
	ID            int64   `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Role          Role    `json:"role" yaml:"role"`
	WindowClass   string  `json:"window_class,omitempty" yaml:"window_class,omitempty"`
	Window        uint32  `json:"window,omitempty" yaml:"window,omitempty"`
	Rect          Rect    `json:"rect" yaml:"rect"`
	Focused       bool    `json:"focused,omitempty" yaml:"focused,omitempty"`
	Urgent        bool    `json:"urgent,omitempty" yaml:"urgent,omitempty"`
	Nodes         []*Node `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	FloatingNodes []*Node `json:"floating_nodes,omitempty" yaml:"floating_nodes,omitempty"`
}

// ErrUnexpectedShape is returned when a tree lacks the root -> output ->
// content path that workspaces and tags hang from.
var ErrUnexpectedShape = errors.New("tree has no output with a content container")

const (
	// ContentName is the name of the container holding an output's workspaces.
	ContentName = "content"
	// internalOutputName is i3's scratchpad output; it never holds user workspaces.
	internalOutputName = "__i3"
	tagOutputName      = "tags"
)

var syntheticID atomic.Int64

// NextSyntheticID returns a fresh negative id for nodes the window manager
// never saw (tags created by retag or branch).
func NextSyntheticID() int64 {
	return syntheticID.Add(-1)
}

// NewTag returns an empty, unfocused tag with a synthetic id.
func NewTag(name string) *Node {
	return &Node{
		ID:   NextSyntheticID(),
		Name: name,
		Role: RoleTag,
	}
}

// NewTagTree builds a tag tree from a live snapshot. The result has the same
// root -> output -> content shape as the live tree, with a deep copy of every
// live workspace as its initial tags.
func NewTagTree(live *Node) (*Node, error) {
	if err := ValidateShape(live); err != nil {
		return nil, err
	}

	content := &Node{ID: NextSyntheticID(), Name: ContentName, Role: RoleContainer}
	for _, ws := range live.Workspaces() {
		content.Nodes = append(content.Nodes, ws.Clone())
	}

	return &Node{
		ID:   live.ID,
		Name: live.Name,
		Role: RoleContainer,
		Nodes: []*Node{{
			ID:    NextSyntheticID(),
			Name:  tagOutputName,
			Role:  RoleContainer,
			Nodes: []*Node{content},
		}},
	}, nil
}

// ValidateShape checks that root has at least one output carrying a content
// container.
func ValidateShape(root *Node) error {
	if root == nil {
		return ErrUnexpectedShape
	}
	if len(root.contents()) == 0 {
		return ErrUnexpectedShape
	}
	return nil
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Nodes = cloneAll(n.Nodes)
	c.FloatingNodes = cloneAll(n.FloatingNodes)
	return &c
}

func cloneAll(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, child := range nodes {
		out[i] = child.Clone()
	}
	return out
}

// IsWindow reports whether n is a window leaf.
func (n *Node) IsWindow() bool {
	return n != nil && n.Role == RoleWindow
}

// NewRoot builds a root -> output -> content tree holding the given
// workspaces, the shape both i3 and the tag tree use.
func NewRoot(workspaces ...*Node) *Node {
	return &Node{
		Name: "root",
		Role: RoleContainer,
		Nodes: []*Node{{
			Name: tagOutputName,
			Role: RoleContainer,
			Nodes: []*Node{{
				Name:  ContentName,
				Role:  RoleContainer,
				Nodes: workspaces,
			}},
		}},
	}
}
