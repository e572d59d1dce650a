package shypn

import "fmt"

// NodeKind discriminates the two sides of the bipartite graph.
type NodeKind int

const (
	PlaceNode NodeKind = iota
	TransitionNode
)

func (k NodeKind) String() string {
	switch k {
	case PlaceNode:
		return "place"
	case TransitionNode:
		return "transition"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// NodeRef identifies a node by kind and arena index. Indices are stable for
// the lifetime of the net: nodes are appended, never reordered.
type NodeRef struct {
	Kind  NodeKind `json:"kind" yaml:"kind"`
	Index int      `json:"index" yaml:"index"`
}

func (r NodeRef) String() string {
	if r.Kind == PlaceNode {
		return fmt.Sprintf("p%d", r.Index)
	}
	return fmt.Sprintf("t%d", r.Index)
}

// Node is implemented by places and transitions that belong to a net.
type Node interface {
	Kind() NodeKind
	Ref() NodeRef
	String() string
}
