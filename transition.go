package shypn

import "fmt"

var _ Node = (*Transition)(nil)

// TimingKind selects how a transition decides when to fire.
type TimingKind int

const (
	// Immediate transitions fire as soon as they are enabled.
	Immediate TimingKind = iota
	// Timed transitions fire a fixed Delay after becoming enabled.
	Timed
	// Stochastic transitions fire after an exponentially distributed delay
	// with mean 1/Rate.
	Stochastic
	// Continuous transitions never fire as point events; they move tokens as
	// a flow of Rate tokens per time unit.
	Continuous
)

func (k TimingKind) String() string {
	switch k {
	case Immediate:
		return "immediate"
	case Timed:
		return "timed"
	case Stochastic:
		return "stochastic"
	case Continuous:
		return "continuous"
	default:
		return fmt.Sprintf("TimingKind(%d)", int(k))
	}
}

// ParseTimingKind converts a name as produced by TimingKind.String back to
// the enum value.
func ParseTimingKind(s string) (TimingKind, error) {
	switch s {
	case "immediate":
		return Immediate, nil
	case "timed":
		return Timed, nil
	case "stochastic":
		return Stochastic, nil
	case "continuous":
		return Continuous, nil
	default:
		return 0, fmt.Errorf("parse timing kind %q: %w", s, ErrInvalidParameter)
	}
}

// Transition represents a transition.
type Transition struct {
	// ID is the arena index of the transition within its net.
	ID int `json:"id" yaml:"id"`
	// Label is the human-readable name, unique within the net.
	Label  string     `json:"label" yaml:"label"`
	Timing TimingKind `json:"timing" yaml:"timing"`
	// Priority breaks conflicts under the priority policy. Higher wins.
	Priority int `json:"priority,omitempty" yaml:"priority,omitempty"`
	// Delay is the firing delay of a timed transition, in time units.
	Delay float64 `json:"delay,omitempty" yaml:"delay,omitempty"`
	// Rate is the exponential rate of a stochastic transition or the flow
	// rate of a continuous one, in tokens per time unit.
	Rate float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
	// Guard is an optional boolean expression over place labels. A transition
	// with a false guard cannot fire even when its arcs allow it.
	Guard string `json:"guard,omitempty" yaml:"guard,omitempty"`
	// MaxBurst caps how many times a stochastic transition may fire in a
	// single step. Zero means one.
	MaxBurst int `json:"maxBurst,omitempty" yaml:"maxBurst,omitempty"`
	// Source marks a boundary transition that produces tokens without
	// consuming any. It must have no input arcs.
	Source bool `json:"source,omitempty" yaml:"source,omitempty"`
	// Sink marks a boundary transition that consumes tokens without
	// producing any. It must have no output arcs.
	Sink bool `json:"sink,omitempty" yaml:"sink,omitempty"`
}

// NewTransition creates an immediate transition. The ID is assigned when the
// transition is added to a net.
func NewTransition(label string) *Transition {
	return &Transition{
		ID:     -1,
		Label:  label,
		Timing: Immediate,
	}
}

// WithTimed makes the transition fire delay time units after enabling.
func (t *Transition) WithTimed(delay float64) *Transition {
	t.Timing = Timed
	t.Delay = delay
	return t
}

// WithStochastic makes the transition fire after an exponential delay with
// the given rate.
func (t *Transition) WithStochastic(rate float64) *Transition {
	t.Timing = Stochastic
	t.Rate = rate
	return t
}

// WithContinuous makes the transition move tokens as a flow with the given
// rate.
func (t *Transition) WithContinuous(rate float64) *Transition {
	t.Timing = Continuous
	t.Rate = rate
	return t
}

// WithGuard attaches a boolean guard expression. Place labels are available
// as variables bound to their current token counts.
func (t *Transition) WithGuard(src string) *Transition {
	t.Guard = src
	return t
}

// WithPriority sets the conflict priority.
func (t *Transition) WithPriority(p int) *Transition {
	t.Priority = p
	return t
}

// WithBurst caps the per-step burst of a stochastic transition.
func (t *Transition) WithBurst(n int) *Transition {
	t.MaxBurst = n
	return t
}

// AsSource marks the transition as a token source.
func (t *Transition) AsSource() *Transition {
	t.Source = true
	return t
}

// AsSink marks the transition as a token sink.
func (t *Transition) AsSink() *Transition {
	t.Sink = true
	return t
}

func (t *Transition) Kind() NodeKind { return TransitionNode }

func (t *Transition) Ref() NodeRef { return NodeRef{Kind: TransitionNode, Index: t.ID} }

func (t *Transition) String() string { return t.Label }
