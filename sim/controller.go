// Package sim drives a net through time: it owns the marking, the clock,
// the RNG streams and the stepping state machine, and wires the matrix,
// behavior and conflict packages together.
package sim

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	shypn "github.com/simao-eugenio/shypn-sub007"
	"github.com/simao-eugenio/shypn-sub007/behavior"
	"github.com/simao-eugenio/shypn-sub007/conflict"
	"github.com/simao-eugenio/shypn-sub007/matrix"
)

const (
	// timeTol absorbs clock drift when comparing against schedules.
	timeTol = 1e-9
	// epsFlow is the convergence threshold: a step whose total continuous
	// flow stays below it counts as no movement.
	epsFlow = 1e-9
)

// Controller runs one net. It is single-threaded: every call must come
// from the same goroutine, and all randomness flows through the
// controller's own seeded streams.
type Controller struct {
	net     *shypn.Net
	logger  *zap.Logger
	seed    int64
	policyK conflict.Kind
	storage matrix.StorageKind

	runID   string
	mgr     *matrix.Manager
	cache   *behavior.Cache
	policy  conflict.Policy
	rng     *rngSet
	marking shypn.Marking
	clock   float64
	stepN   int
	phase   Phase
	stats   Stats
}

// Option configures a Controller before Initialize.
type Option func(*Controller)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSeed sets the master RNG seed.
func WithSeed(seed int64) Option {
	return func(c *Controller) { c.seed = seed }
}

// WithPolicy sets the conflict resolution policy.
func WithPolicy(k conflict.Kind) Option {
	return func(c *Controller) { c.policyK = k }
}

// WithStorage sets the incidence matrix storage strategy.
func WithStorage(k matrix.StorageKind) Option {
	return func(c *Controller) { c.storage = k }
}

// WithSettings applies seed, policy and storage from validated settings.
func WithSettings(s Settings) Option {
	return func(c *Controller) {
		c.seed = s.Seed
		c.policyK = s.PolicyKind()
		c.storage = s.StorageKind()
	}
}

// New creates a controller over net. Nothing is validated or built until
// Initialize.
func New(net *shypn.Net, opts ...Option) *Controller {
	c := &Controller{
		net:     net,
		logger:  zap.NewNop(),
		seed:    DefaultSettings().Seed,
		policyK: conflict.Random,
		storage: matrix.Sparse,
		phase:   Uninitialized,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize validates the net, builds the incidence matrices and behavior
// cache, loads the initial marking and resets the clock, the RNG streams
// and the statistics. It may be called again at any time to restart the
// run from scratch.
func (c *Controller) Initialize() error {
	mgr, err := matrix.New(c.net, matrix.WithStorage(c.storage))
	if err != nil {
		c.logger.Error("net validation failed", zap.String("net", c.net.Label), zap.Error(err))
		return err
	}
	cache := behavior.NewCache(c.net)
	if err := cache.Compile(); err != nil {
		c.logger.Error("behavior compilation failed", zap.String("net", c.net.Label), zap.Error(err))
		return err
	}
	nt, np := mgr.Dims()
	c.mgr = mgr
	c.cache = cache
	c.marking = c.net.InitialMarking()
	c.clock = 0
	c.stepN = 0
	c.rng = newRNGSet(c.seed)
	c.policy = conflict.New(c.policyK)
	c.runID = uuid.New().String()
	c.stats = Stats{Firings: make([]int, nt)}
	c.phase = Initialized
	c.logger.Info("controller initialized",
		zap.String("run", c.runID),
		zap.String("net", c.net.Label),
		zap.Int("places", np),
		zap.Int("transitions", nt),
		zap.Int64("seed", c.seed),
		zap.String("policy", c.policy.Name()),
		zap.String("storage", c.storage.String()),
	)
	return nil
}

// RunID identifies the current run; it changes on every Initialize.
func (c *Controller) RunID() string { return c.runID }

// Phase returns the lifecycle state.
func (c *Controller) Phase() Phase { return c.phase }

// Time returns the simulation clock.
func (c *Controller) Time() float64 { return c.clock }

// Marking returns a copy of the current marking.
func (c *Controller) Marking() shypn.Marking {
	return c.marking.Clone()
}

// Matrix exposes the compiled incidence view for introspection.
func (c *Controller) Matrix() *matrix.Manager { return c.mgr }

// Behaviors exposes the behavior cache for introspection.
func (c *Controller) Behaviors() *behavior.Cache { return c.cache }

// Stats returns a copy of the accumulated run counters.
func (c *Controller) Stats() Stats { return c.stats.clone() }

// TokenCount returns the token count of one place.
func (c *Controller) TokenCount(place int) (float64, error) {
	if c.phase == Uninitialized {
		return 0, shypn.ErrUninitialized
	}
	if place < 0 || place >= len(c.marking) {
		return 0, fmt.Errorf("place %d: %w", place, shypn.ErrInvalidParameter)
	}
	return c.marking[place], nil
}

// SetTokenCount overwrites the token count of one place, the editor's way
// of injecting or removing tokens mid-run. It revives a deadlocked or
// converged controller, since new tokens may enable new firings.
func (c *Controller) SetTokenCount(place int, v float64) error {
	if c.phase == Uninitialized {
		return shypn.ErrUninitialized
	}
	if place < 0 || place >= len(c.marking) {
		return fmt.Errorf("place %d: %w", place, shypn.ErrInvalidParameter)
	}
	if v < 0 {
		return fmt.Errorf("place %q count %g must not be negative: %w",
			c.net.Places[place].Label, v, shypn.ErrInvalidParameter)
	}
	if p := c.net.Places[place]; p.Capacity > 0 && v > p.Capacity {
		return fmt.Errorf("place %q count %g exceeds capacity %g: %w",
			p.Label, v, p.Capacity, shypn.ErrInvalidParameter)
	}
	old := c.marking[place]
	c.marking[place] = v
	if c.phase == Deadlocked || c.phase == Converged {
		c.phase = Stepping
	}
	c.logger.Debug("marking edited",
		zap.String("place", c.net.Places[place].Label),
		zap.Float64("from", old),
		zap.Float64("to", v),
	)
	return nil
}

// SetPolicy swaps the conflict resolution policy mid-run. The new policy
// starts with fresh state: round robin rotations do not survive a switch.
func (c *Controller) SetPolicy(k conflict.Kind) {
	c.policyK = k
	if c.phase != Uninitialized {
		c.policy = conflict.New(k)
		c.logger.Info("policy switched", zap.String("policy", c.policy.Name()))
	}
}

// SetSeed replaces the master seed and re-derives both RNG streams.
func (c *Controller) SetSeed(seed int64) {
	c.seed = seed
	if c.phase != Uninitialized {
		c.rng = newRNGSet(seed)
		c.logger.Info("reseeded", zap.Int64("seed", seed))
	}
}

// InvalidateBehaviors drops all compiled behaviors and their window state.
// Editors call it after changing a transition's timing properties in
// place; the next step recompiles and starts fresh windows.
func (c *Controller) InvalidateBehaviors() {
	if c.cache != nil {
		c.cache.Invalidate()
	}
}

// rebuild refreshes the matrices and behaviors after a structural change,
// keeping the clock and the token counts of surviving places. New places
// start from their initial token count.
func (c *Controller) rebuild() error {
	mgr, err := matrix.New(c.net, matrix.WithStorage(c.storage))
	if err != nil {
		c.logger.Error("net validation failed after structural change", zap.Error(err))
		return err
	}
	if err := c.cache.Compile(); err != nil {
		c.logger.Error("behavior compilation failed after structural change", zap.Error(err))
		return err
	}
	fresh := c.net.InitialMarking()
	for i := range fresh {
		if i < len(c.marking) {
			fresh[i] = c.marking[i]
		}
	}
	c.marking = fresh
	c.mgr = mgr
	nt, _ := mgr.Dims()
	if len(c.stats.Firings) < nt {
		grown := make([]int, nt)
		copy(grown, c.stats.Firings)
		c.stats.Firings = grown
	}
	c.logger.Info("structure changed, matrices rebuilt",
		zap.Uint64("generation", mgr.Generation()))
	return nil
}

// Run steps until the controller deadlocks, converges, fails, or has taken
// n steps, and returns the last result. dt carries the same meaning as in
// Step.
func (c *Controller) Run(n int, dt float64) (Result, error) {
	var last Result
	for i := 0; i < n; i++ {
		res, err := c.Step(dt)
		if err != nil {
			return last, err
		}
		last = res
		if res.Phase == Deadlocked || res.Phase == Converged {
			break
		}
	}
	return last, nil
}
