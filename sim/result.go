package sim

import "fmt"

// Phase is the controller's lifecycle state.
type Phase int

const (
	// Uninitialized rejects everything but Initialize.
	Uninitialized Phase = iota
	// Initialized means matrices and behaviors are built and the clock is
	// at zero.
	Initialized
	// Stepping means the last step made or may still make progress.
	Stepping
	// Deadlocked means no transition can ever fire again without an
	// external marking edit.
	Deadlocked
	// Converged means only continuous transitions remain active and their
	// net flow has fallen below the convergence threshold.
	Converged
	// Failed means an invariant was violated mid-step; the controller
	// refuses further stepping.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Stepping:
		return "stepping"
	case Deadlocked:
		return "deadlocked"
	case Converged:
		return "converged"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Firing records the discrete firings of one transition within a step.
// Count exceeds 1 only for stochastic transitions with a burst cap.
type Firing struct {
	Transition int
	Label      string
	Count      int
}

// Flow records the continuous token movement through one transition within
// a step. Amount is in firings-worth of tokens: the transition's arc
// weights times Amount moved through each arc.
type Flow struct {
	Transition int
	Label      string
	Amount     float64
}

// Result describes what one Step call did.
type Result struct {
	// Step is the 1-based ordinal of the step within the run.
	Step int
	// Time is the simulation clock after the step.
	Time float64
	// Elapsed is how far the clock advanced during the step.
	Elapsed float64
	Fired   []Firing
	Flows   []Flow
	// NoFire reports that no discrete transition fired. It is the normal
	// answer for a step that only waited or flowed, not an error.
	NoFire bool
	Phase  Phase
}
