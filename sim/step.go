package sim

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	shypn "github.com/simao-eugenio/shypn-sub007"
	"github.com/simao-eugenio/shypn-sub007/behavior"
	"github.com/simao-eugenio/shypn-sub007/conflict"
)

// Step runs one scheduler round: sweep enablement, pick the ready set,
// resolve conflicts, integrate continuous flow, fire the winners and
// advance the clock.
//
// dt > 0 advances the clock by exactly dt. dt == 0 advances to the
// earliest pending schedule instead, or not at all when something fires at
// the current instant. Negative dt wraps ErrInvalidParameter.
//
// A step in which nothing fires is a normal outcome, reported through
// Result.NoFire; Step returns errors only for misuse or invariant
// violations.
func (c *Controller) Step(dt float64) (Result, error) {
	switch c.phase {
	case Uninitialized:
		return Result{}, shypn.ErrUninitialized
	case Failed:
		return Result{}, shypn.ErrHalted
	}
	if dt < 0 {
		return Result{}, fmt.Errorf("step dt %g: %w", dt, shypn.ErrInvalidParameter)
	}
	if c.mgr.Stale() || !c.cache.Fresh() {
		if err := c.rebuild(); err != nil {
			return Result{}, err
		}
	}
	c.stepN++
	res := Result{Step: c.stepN}

	bb, err := c.cache.All()
	if err != nil {
		return res, err
	}
	c.sweep(bb)

	env := behavior.Env(c.net, c.marking)
	ready := c.readySet(bb, env)
	winners := c.selectWinners(ready)

	elapse := dt
	if dt == 0 && len(winners) == 0 {
		elapse = c.jumpSpan(bb)
	}
	res.Flows = c.integrate(bb, elapse)

	fired, err := c.fireAll(bb, winners)
	res.Fired = fired
	res.NoFire = len(fired) == 0
	if err != nil {
		res.Phase = c.phase
		return res, err
	}

	c.clock += elapse
	res.Elapsed = elapse
	res.Time = c.clock

	c.classify(bb, &res)
	res.Phase = c.phase
	c.stats.record(res)
	c.logger.Debug("step",
		zap.Int("n", res.Step),
		zap.Float64("time", res.Time),
		zap.Int("fired", len(res.Fired)),
		zap.Int("flows", len(res.Flows)),
		zap.String("phase", c.phase.String()),
	)
	return res, nil
}

// sweep compares structural enablement against each behavior's window and
// delivers the open and close edges. Continuous transitions open on
// positive fluid; discrete ones on full arc weights.
func (c *Controller) sweep(bb []*behavior.Behavior) {
	for t, b := range bb {
		var open bool
		if b.Timing() == shypn.Continuous {
			open = c.mgr.FlowEnabled(t, c.marking)
		} else {
			open = c.mgr.Enabled(t, c.marking)
		}
		switch {
		case open && !b.Enabled():
			b.OnEnabled(c.clock, c.rng.sampling())
			c.logger.Debug("enabled", zap.String("transition", b.Label()), zap.Float64("time", c.clock))
		case !open && b.Enabled():
			b.OnDisabled()
			c.logger.Debug("disabled", zap.String("transition", b.Label()), zap.Float64("time", c.clock))
		}
	}
}

// readySet lists the discrete transitions whose behaviors answer yes at
// the current clock.
func (c *Controller) readySet(bb []*behavior.Behavior, env map[string]interface{}) []int {
	var ready []int
	for t, b := range bb {
		if b.Timing() == shypn.Continuous {
			continue
		}
		if ok, _ := b.CanFire(c.clock, env); ok {
			ready = append(ready, t)
		}
	}
	return ready
}

// fireOrder ranks timing kinds for the within-step application order:
// immediates burn through their instant before slower kinds touch the
// shared tokens.
func fireOrder(k shypn.TimingKind) int {
	switch k {
	case shypn.Immediate:
		return 0
	case shypn.Timed:
		return 1
	case shypn.Stochastic:
		return 2
	default:
		return 3
	}
}

// selectWinners partitions the ready set into conflict groups and lets the
// policy pick one winner per group. Singleton groups skip the policy.
func (c *Controller) selectWinners(ready []int) []int {
	if len(ready) == 0 {
		return nil
	}
	groups := c.mgr.ConflictGroups(ready, c.marking)
	winners := make([]int, 0, len(groups))
	for _, g := range groups {
		if len(g) == 1 {
			winners = append(winners, g[0])
			continue
		}
		cands := make(conflict.Group, len(g))
		for i, t := range g {
			tr := c.net.Transitions[t]
			cands[i] = conflict.Candidate{Index: t, Priority: tr.Priority, Timing: tr.Timing}
		}
		w := c.policy.Resolve(cands, c.rng.policy())
		c.logger.Debug("conflict resolved",
			zap.Ints("group", g),
			zap.String("winner", c.net.Transitions[w].Label),
			zap.String("policy", c.policy.Name()),
		)
		winners = append(winners, w)
	}
	sort.Slice(winners, func(i, j int) bool {
		a, b := winners[i], winners[j]
		ra, rb := fireOrder(c.net.Transitions[a].Timing), fireOrder(c.net.Transitions[b].Timing)
		if ra != rb {
			return ra < rb
		}
		return a < b
	})
	return winners
}

// jumpSpan returns the distance to the earliest pending schedule strictly
// after the current clock, or zero when nothing is pending.
func (c *Controller) jumpSpan(bb []*behavior.Behavior) float64 {
	span := 0.0
	found := false
	for _, b := range bb {
		if !b.Enabled() {
			continue
		}
		at, ok := b.FireTime()
		if !ok || at <= c.clock+timeTol {
			continue
		}
		if d := at - c.clock; !found || d < span {
			span, found = d, true
		}
	}
	return span
}

// integrate moves continuous flow over the elapse window: each flowing
// transition applies rate times elapse firings-worth, clamped by token
// availability and capacity.
func (c *Controller) integrate(bb []*behavior.Behavior, elapse float64) []Flow {
	if elapse <= 0 {
		return nil
	}
	env := behavior.Env(c.net, c.marking)
	var flows []Flow
	for t, b := range bb {
		if b.Timing() != shypn.Continuous || !b.FlowEnabled(env) {
			continue
		}
		applied := c.mgr.FireFraction(t, c.marking, b.Rate()*elapse)
		if applied > 0 {
			flows = append(flows, Flow{Transition: t, Label: b.Label(), Amount: applied})
			env = behavior.Env(c.net, c.marking)
		}
	}
	return flows
}

// fireAll applies the winners in fireOrder, re-checking both the behavior
// and the structural preconditions before each firing: an earlier winner
// or this step's flow may have taken the tokens, which demotes the loser
// to a skip, not an error. A firing that fails after passing both checks
// is an invariant violation and halts the controller.
func (c *Controller) fireAll(bb []*behavior.Behavior, winners []int) ([]Firing, error) {
	if len(winners) == 0 {
		return nil, nil
	}
	env := behavior.Env(c.net, c.marking)
	var fired []Firing
	for _, t := range winners {
		b := bb[t]
		if ok, reason := b.CanFire(c.clock, env); !ok {
			c.logger.Debug("winner skipped",
				zap.String("transition", b.Label()), zap.String("reason", reason))
			continue
		}
		if reason := c.mgr.ExplainDisabled(t, c.marking); reason != "" {
			c.logger.Debug("winner skipped",
				zap.String("transition", b.Label()), zap.String("reason", reason))
			continue
		}
		count := 1
		var err error
		if b.Burst() > 1 {
			count, err = c.mgr.FireBurst(t, c.marking, b.Burst())
		} else {
			err = c.mgr.Fire(t, c.marking)
		}
		if err != nil {
			c.phase = Failed
			c.logger.Error("firing failed after enablement check",
				zap.String("transition", b.Label()), zap.Error(err))
			return fired, err
		}
		c.logger.Debug("fired",
			zap.String("transition", b.Label()),
			zap.Int("count", count),
			zap.Float64("time", c.clock),
		)
		fired = append(fired, Firing{Transition: t, Label: b.Label(), Count: count})
		if c.mgr.Enabled(t, c.marking) {
			b.Refire(c.clock, c.rng.sampling())
		} else {
			b.OnDisabled()
		}
		env = behavior.Env(c.net, c.marking)
	}
	return fired, nil
}

// classify settles the phase after a step. Anything moved keeps the run in
// Stepping; a quiet step distinguishes waiting on schedules from true
// deadlock, and flow pinched below the threshold from flow that was never
// given a window.
func (c *Controller) classify(bb []*behavior.Behavior, res *Result) {
	prev := c.phase
	next := Stepping
	var applied float64
	for _, f := range res.Flows {
		applied += f.Amount
	}
	if len(res.Fired) == 0 && applied < epsFlow {
		discreteLive, flowOpen := false, false
		for t, b := range bb {
			if b.Timing() == shypn.Continuous {
				if c.mgr.FlowEnabled(t, c.marking) {
					flowOpen = true
				}
				continue
			}
			if c.mgr.Enabled(t, c.marking) {
				discreteLive = true
			}
		}
		switch {
		case discreteLive:
			next = Stepping
		case flowOpen && res.Elapsed > 0:
			next = Converged
		case flowOpen:
			next = Stepping
		default:
			next = Deadlocked
		}
	}
	c.phase = next
	if prev != next {
		switch next {
		case Deadlocked:
			c.logger.Info("deadlocked", zap.Float64("time", res.Time), zap.Int("step", res.Step))
		case Converged:
			c.logger.Info("converged", zap.Float64("time", res.Time), zap.Int("step", res.Step))
		}
	}
}
