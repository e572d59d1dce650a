package shypn

import "fmt"

// ArcKind selects the enablement semantics of an arc.
type ArcKind int

const (
	// NormalArc moves Weight tokens when its transition fires.
	NormalArc ArcKind = iota
	// InhibitorArc enables its transition only while the source place holds
	// fewer than Weight tokens. It never moves tokens.
	InhibitorArc
	// TestArc enables its transition only while the source place holds at
	// least Weight tokens. It never moves tokens.
	TestArc
)

func (k ArcKind) String() string {
	switch k {
	case NormalArc:
		return "normal"
	case InhibitorArc:
		return "inhibitor"
	case TestArc:
		return "test"
	default:
		return fmt.Sprintf("ArcKind(%d)", int(k))
	}
}

// Arc is a weighted connection from a place to a transition or from a
// transition to a place. Inhibitor and test arcs always run from a place to
// a transition.
type Arc struct {
	// ID is the arena index of the arc within its net.
	ID   int     `json:"id" yaml:"id"`
	Src  NodeRef `json:"src" yaml:"src"`
	Dest NodeRef `json:"dest" yaml:"dest"`
	// Weight is the number of tokens moved or tested. Must be positive.
	Weight float64 `json:"weight" yaml:"weight"`
	Kind   ArcKind `json:"arcKind,omitempty" yaml:"arcKind,omitempty"`
}

func (a *Arc) String() string {
	return a.Src.String() + " -> " + a.Dest.String()
}

// Place returns the place-side index of the arc, for whichever end is the
// place.
func (a *Arc) Place() int {
	if a.Src.Kind == PlaceNode {
		return a.Src.Index
	}
	return a.Dest.Index
}

// Transition returns the transition-side index of the arc.
func (a *Arc) Transition() int {
	if a.Src.Kind == TransitionNode {
		return a.Src.Index
	}
	return a.Dest.Index
}

// Input reports whether the arc feeds its transition, i.e. runs from a place
// to a transition.
func (a *Arc) Input() bool {
	return a.Src.Kind == PlaceNode
}
