// Package behavior compiles transition timing properties into runnable
// behaviors: each one decides when its transition may fire and tracks the
// enablement window the decision depends on.
package behavior

import (
	"fmt"
	"math/rand"

	"github.com/expr-lang/expr/vm"

	shypn "github.com/simao-eugenio/shypn-sub007"
)

// timeTol absorbs float drift when comparing the clock against scheduled
// fire times.
const timeTol = 1e-9

// Behavior is the compiled timing semantics of one transition plus its
// runtime window state. The window opens when the transition becomes
// enabled and closes when it becomes disabled; schedules never survive a
// closed window.
type Behavior struct {
	index  int
	label  string
	timing shypn.TimingKind
	delay  float64
	rate   float64
	burst  int
	guard  *vm.Program

	enabled   bool
	enabledAt float64
	scheduled bool
	fireAt    float64
}

// Compile validates a transition's timing properties and builds its
// behavior. Out-of-range properties wrap ErrInvalidParameter.
func Compile(t *shypn.Transition) (*Behavior, error) {
	b := &Behavior{
		index:  t.ID,
		label:  t.Label,
		timing: t.Timing,
		delay:  t.Delay,
		rate:   t.Rate,
		burst:  1,
	}
	switch t.Timing {
	case shypn.Immediate:
	case shypn.Timed:
		if t.Delay < 0 {
			return nil, fmt.Errorf("timed transition %q has negative delay %g: %w",
				t.Label, t.Delay, shypn.ErrInvalidParameter)
		}
	case shypn.Stochastic:
		if t.Rate <= 0 {
			return nil, fmt.Errorf("stochastic transition %q needs a positive rate, got %g: %w",
				t.Label, t.Rate, shypn.ErrInvalidParameter)
		}
		if t.MaxBurst < 0 {
			return nil, fmt.Errorf("transition %q has negative max burst %d: %w",
				t.Label, t.MaxBurst, shypn.ErrInvalidParameter)
		}
		if t.MaxBurst > 0 {
			b.burst = t.MaxBurst
		}
	case shypn.Continuous:
		if t.Rate <= 0 {
			return nil, fmt.Errorf("continuous transition %q needs a positive rate, got %g: %w",
				t.Label, t.Rate, shypn.ErrInvalidParameter)
		}
	default:
		return nil, fmt.Errorf("transition %q has unknown timing kind %d: %w",
			t.Label, int(t.Timing), shypn.ErrInvalidParameter)
	}
	if t.Guard != "" {
		prog, err := compileGuard(t.Guard)
		if err != nil {
			return nil, fmt.Errorf("guard of %q: %v: %w", t.Label, err, shypn.ErrInvalidParameter)
		}
		b.guard = prog
	}
	return b, nil
}

// Label returns the transition's label.
func (b *Behavior) Label() string { return b.label }

// Timing returns the compiled timing kind.
func (b *Behavior) Timing() shypn.TimingKind { return b.timing }

// Rate returns the stochastic or continuous rate.
func (b *Behavior) Rate() float64 { return b.rate }

// Burst returns the per-step firing cap. It is 1 for everything but
// stochastic transitions with an explicit max burst.
func (b *Behavior) Burst() int { return b.burst }

// Enabled reports whether the enablement window is open.
func (b *Behavior) Enabled() bool { return b.enabled }

// EnabledSince returns when the current enablement window opened.
func (b *Behavior) EnabledSince() (float64, bool) {
	return b.enabledAt, b.enabled
}

// FireTime returns the pending scheduled fire time, if any.
func (b *Behavior) FireTime() (float64, bool) {
	return b.fireAt, b.scheduled
}

// OnEnabled opens the enablement window at time now. Timed transitions
// schedule now+delay; stochastic ones draw an exponential delay from rng.
// Reopening an already open window is a no-op, so schedules are stable
// while enablement persists.
func (b *Behavior) OnEnabled(now float64, rng *rand.Rand) {
	if b.enabled {
		return
	}
	b.enabled = true
	b.enabledAt = now
	b.schedule(now, rng)
}

// OnDisabled closes the window and discards any pending schedule. A later
// OnEnabled starts from scratch; stochastic transitions draw a fresh
// sample, which is exactly the memoryless property.
func (b *Behavior) OnDisabled() {
	b.enabled = false
	b.enabledAt = 0
	b.scheduled = false
	b.fireAt = 0
}

// Refire restarts the window after a firing that left the transition
// enabled, scheduling its next fire as if it had just become enabled.
func (b *Behavior) Refire(now float64, rng *rand.Rand) {
	if !b.enabled {
		return
	}
	b.enabledAt = now
	b.schedule(now, rng)
}

func (b *Behavior) schedule(now float64, rng *rand.Rand) {
	switch b.timing {
	case shypn.Immediate:
		b.scheduled, b.fireAt = true, now
	case shypn.Timed:
		b.scheduled, b.fireAt = true, now+b.delay
	case shypn.Stochastic:
		b.scheduled, b.fireAt = true, now+rng.ExpFloat64()/b.rate
	default:
		b.scheduled, b.fireAt = false, 0
	}
}

// CanFire reports whether the transition may fire at time now, and if not,
// why. The env carries place token counts for the guard; continuous
// transitions always answer false because they flow instead of firing.
func (b *Behavior) CanFire(now float64, env map[string]interface{}) (bool, string) {
	if !b.enabled {
		return false, "not enabled"
	}
	if ok, reason := b.guardOK(env); !ok {
		return false, reason
	}
	switch b.timing {
	case shypn.Immediate:
		return true, ""
	case shypn.Timed, shypn.Stochastic:
		if !b.scheduled {
			return false, "no pending fire time"
		}
		if now+timeTol < b.fireAt {
			return false, fmt.Sprintf("scheduled for t=%g", b.fireAt)
		}
		return true, ""
	case shypn.Continuous:
		return false, "continuous transitions flow instead of firing"
	}
	return false, fmt.Sprintf("unknown timing kind %v", b.timing)
}

// FlowEnabled reports whether a continuous transition may flow at the
// moment, i.e. its guard passes.
func (b *Behavior) FlowEnabled(env map[string]interface{}) bool {
	if !b.enabled || b.timing != shypn.Continuous {
		return false
	}
	ok, _ := b.guardOK(env)
	return ok
}
