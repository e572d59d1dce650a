package shypn

import (
	"fmt"

	"github.com/google/uuid"
)

// Net is the structural document of a Petri net: places, transitions and
// arcs held in append-only arenas whose indices are the stable node IDs. A
// Net carries no runtime token state; that lives in a Marking owned by the
// simulation controller.
type Net struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`

	Places      []*Place      `json:"places" yaml:"places"`
	Transitions []*Transition `json:"transitions" yaml:"transitions"`
	Arcs        []*Arc        `json:"arcs" yaml:"arcs"`

	generation uint64
}

// NewNet creates an empty net with a fresh unique ID.
func NewNet(label string) *Net {
	return &Net{
		ID:    uuid.New().String(),
		Label: label,
	}
}

// Generation returns the structural generation counter. It increments on
// every mutation of the arenas, so derived state can detect staleness.
func (n *Net) Generation() uint64 { return n.generation }

// Touch bumps the structural generation counter. Callers that mutate nodes
// in place, e.g. editing a transition's rate, use it to invalidate derived
// state.
func (n *Net) Touch() { n.generation++ }

// AddPlace appends p to the place arena and assigns its ID.
func (n *Net) AddPlace(p *Place) *Place {
	p.ID = len(n.Places)
	n.Places = append(n.Places, p)
	n.Touch()
	return p
}

// AddTransition appends t to the transition arena and assigns its ID.
func (n *Net) AddTransition(t *Transition) *Transition {
	t.ID = len(n.Transitions)
	n.Transitions = append(n.Transitions, t)
	n.Touch()
	return t
}

// WithPlaces adds places and returns the net for chaining.
func (n *Net) WithPlaces(pp ...*Place) *Net {
	for _, p := range pp {
		n.AddPlace(p)
	}
	return n
}

// WithTransitions adds transitions and returns the net for chaining.
func (n *Net) WithTransitions(tt ...*Transition) *Net {
	for _, t := range tt {
		n.AddTransition(t)
	}
	return n
}

func (n *Net) attached(node Node) bool {
	ref := node.Ref()
	if ref.Index < 0 {
		return false
	}
	switch ref.Kind {
	case PlaceNode:
		return ref.Index < len(n.Places) && Node(n.Places[ref.Index]) == node
	case TransitionNode:
		return ref.Index < len(n.Transitions) && Node(n.Transitions[ref.Index]) == node
	}
	return false
}

func (n *Net) addArc(src, dest NodeRef, weight float64, kind ArcKind) (*Arc, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("arc %s -> %s: weight must be positive: %w", src, dest, ErrInvalidParameter)
	}
	for _, a := range n.Arcs {
		if a.Src == src && a.Dest == dest && a.Kind == kind {
			return nil, fmt.Errorf("arc %s -> %s already exists", src, dest)
		}
	}
	a := &Arc{
		ID:     len(n.Arcs),
		Src:    src,
		Dest:   dest,
		Weight: weight,
		Kind:   kind,
	}
	n.Arcs = append(n.Arcs, a)
	n.Touch()
	return a, nil
}

// AddArc connects a place to a transition or a transition to a place with a
// normal arc of the given weight. Both nodes must already belong to the net.
func (n *Net) AddArc(from, to Node, weight float64) (*Arc, error) {
	if from.Kind() == to.Kind() {
		return nil, fmt.Errorf("cannot connect two %ss", from.Kind())
	}
	if !n.attached(from) || !n.attached(to) {
		return nil, fmt.Errorf("arc %s -> %s: node does not belong to net", from, to)
	}
	return n.addArc(from.Ref(), to.Ref(), weight, NormalArc)
}

// AddInhibitorArc connects p to t with an inhibitor arc: t is enabled only
// while p holds fewer than weight tokens.
func (n *Net) AddInhibitorArc(p *Place, t *Transition, weight float64) (*Arc, error) {
	if !n.attached(p) || !n.attached(t) {
		return nil, fmt.Errorf("arc %s -o %s: node does not belong to net", p, t)
	}
	return n.addArc(p.Ref(), t.Ref(), weight, InhibitorArc)
}

// AddTestArc connects p to t with a test arc: t requires weight tokens in p
// but does not consume them.
func (n *Net) AddTestArc(p *Place, t *Transition, weight float64) (*Arc, error) {
	if !n.attached(p) || !n.attached(t) {
		return nil, fmt.Errorf("arc %s -? %s: node does not belong to net", p, t)
	}
	return n.addArc(p.Ref(), t.Ref(), weight, TestArc)
}

// Place returns the place with the given label, or nil.
func (n *Net) Place(label string) *Place {
	for _, p := range n.Places {
		if p.Label == label {
			return p
		}
	}
	return nil
}

// Transition returns the transition with the given label, or nil.
func (n *Net) Transition(label string) *Transition {
	for _, t := range n.Transitions {
		if t.Label == label {
			return t
		}
	}
	return nil
}

// Inputs returns the arcs whose destination is node.
func (n *Net) Inputs(node Node) []*Arc {
	ref := node.Ref()
	var arcs []*Arc
	for _, a := range n.Arcs {
		if a.Dest == ref {
			arcs = append(arcs, a)
		}
	}
	return arcs
}

// Outputs returns the arcs whose source is node.
func (n *Net) Outputs(node Node) []*Arc {
	ref := node.Ref()
	var arcs []*Arc
	for _, a := range n.Arcs {
		if a.Src == ref {
			arcs = append(arcs, a)
		}
	}
	return arcs
}

// InitialMarking builds the marking described by the places' initial token
// counts.
func (n *Net) InitialMarking() Marking {
	m := make(Marking, len(n.Places))
	for i, p := range n.Places {
		m[i] = p.Tokens
	}
	return m
}
