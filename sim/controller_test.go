package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	shypn "github.com/simao-eugenio/shypn-sub007"
	"github.com/simao-eugenio/shypn-sub007/conflict"
	"github.com/simao-eugenio/shypn-sub007/matrix"
)

func TestInitializeRejectsInvalidNet(t *testing.T) {
	net := shypn.NewNet("bad").
		WithPlaces(shypn.NewPlace("P", 1), shypn.NewPlace("P", 0))
	ctrl := New(net)

	err := ctrl.Initialize()
	assert.Error(t, err)
	var se *shypn.StructuralError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, Uninitialized, ctrl.Phase())
}

func TestInitializeRejectsBadGuard(t *testing.T) {
	net := shypn.NewNet("bad")
	p := net.AddPlace(shypn.NewPlace("P", 1))
	tr := net.AddTransition(shypn.NewTransition("T").WithGuard("1 +"))
	mustArc(t, net, p, tr, 1)

	ctrl := New(net)
	err := ctrl.Initialize()
	assert.ErrorIs(t, err, shypn.ErrInvalidParameter)
	assert.Equal(t, Uninitialized, ctrl.Phase())
}

func TestAccessorsBeforeInitialize(t *testing.T) {
	ctrl := New(buildHandoff(t))
	assert.Equal(t, Uninitialized, ctrl.Phase())
	assert.Empty(t, ctrl.RunID())

	_, err := ctrl.TokenCount(0)
	assert.ErrorIs(t, err, shypn.ErrUninitialized)
	assert.ErrorIs(t, ctrl.SetTokenCount(0, 1), shypn.ErrUninitialized)
}

func TestTokenCountValidation(t *testing.T) {
	net := shypn.NewNet("bounded")
	net.AddPlace(shypn.NewPlace("P", 1).WithCapacity(2))

	ctrl := New(net)
	mustInit(t, ctrl)

	v, err := ctrl.TokenCount(0)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = ctrl.TokenCount(5)
	assert.ErrorIs(t, err, shypn.ErrInvalidParameter)
	assert.ErrorIs(t, ctrl.SetTokenCount(5, 1), shypn.ErrInvalidParameter)
	assert.ErrorIs(t, ctrl.SetTokenCount(0, -1), shypn.ErrInvalidParameter)
	assert.ErrorIs(t, ctrl.SetTokenCount(0, 3), shypn.ErrInvalidParameter)

	assert.NoError(t, ctrl.SetTokenCount(0, 2))
	v, err = ctrl.TokenCount(0)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestMarkingIsACopy(t *testing.T) {
	ctrl := New(buildHandoff(t))
	mustInit(t, ctrl)

	m := ctrl.Marking()
	m[0] = 99
	v, err := ctrl.TokenCount(0)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestReinitializeStartsFreshRun(t *testing.T) {
	ctrl := New(buildHandoff(t), WithSeed(1))
	mustInit(t, ctrl)
	first := ctrl.RunID()
	assert.NotEmpty(t, first)

	mustStep(t, ctrl, 0)
	mustStep(t, ctrl, 0)
	assert.Equal(t, Deadlocked, ctrl.Phase())
	assert.Equal(t, 2, ctrl.Stats().Steps)

	mustInit(t, ctrl)
	assert.Equal(t, Initialized, ctrl.Phase())
	assert.Equal(t, 0.0, ctrl.Time())
	assert.Equal(t, shypn.Marking{1, 0}, ctrl.Marking())
	assert.NotEqual(t, first, ctrl.RunID())
	assert.Equal(t, 0, ctrl.Stats().Steps)
}

func stochasticQueue(t *testing.T) *shypn.Net {
	t.Helper()
	net := shypn.NewNet("queue")
	p := net.AddPlace(shypn.NewPlace("P", 5))
	q := net.AddPlace(shypn.NewPlace("Q", 0))
	tr := net.AddTransition(shypn.NewTransition("T").WithStochastic(2))
	mustArc(t, net, p, tr, 1)
	mustArc(t, net, tr, q, 1)
	return net
}

func TestSameSeedSameRun(t *testing.T) {
	a := New(stochasticQueue(t), WithSeed(11))
	b := New(stochasticQueue(t), WithSeed(11))
	c := New(stochasticQueue(t), WithSeed(11), WithStorage(matrix.Dense))
	d := New(stochasticQueue(t), WithSeed(12))
	for _, ctrl := range []*Controller{a, b, c, d} {
		mustInit(t, ctrl)
		if _, err := ctrl.Run(60, 0); err != nil {
			t.Fatalf("run: %v", err)
		}
	}

	assert.Equal(t, a.Stats(), b.Stats())
	assert.Equal(t, a.Stats(), c.Stats(), "storage strategy changed the trajectory")
	assert.Equal(t, a.Marking(), b.Marking())
	assert.Equal(t, a.Marking(), c.Marking())
	assert.Equal(t, Deadlocked, a.Phase())
	assert.NotEqual(t, a.Stats().Time, d.Stats().Time)
}

func TestSetSeedMatchesConstructorSeed(t *testing.T) {
	contest := func() *shypn.Net {
		net := shypn.NewNet("contest")
		p := net.AddPlace(shypn.NewPlace("P", 1))
		a := net.AddTransition(shypn.NewTransition("a"))
		b := net.AddTransition(shypn.NewTransition("b"))
		mustArc(t, net, p, a, 1)
		mustArc(t, net, p, b, 1)
		return net
	}
	c1 := New(contest(), WithSeed(5))
	c2 := New(contest(), WithSeed(99))
	mustInit(t, c1)
	mustInit(t, c2)
	c2.SetSeed(5)

	for i := 0; i < 12; i++ {
		r1 := mustStep(t, c1, 0)
		r2 := mustStep(t, c2, 0)
		assert.Equal(t, r1.Fired[0].Label, r2.Fired[0].Label, "round %d", i)
		assert.NoError(t, c1.SetTokenCount(0, 1))
		assert.NoError(t, c2.SetTokenCount(0, 1))
	}
}

func TestSetPolicySwitchesResolution(t *testing.T) {
	net := shypn.NewNet("contest")
	p := net.AddPlace(shypn.NewPlace("P", 1))
	hi := net.AddTransition(shypn.NewTransition("hi").WithPriority(5))
	lo := net.AddTransition(shypn.NewTransition("lo").WithPriority(1))
	mustArc(t, net, p, hi, 1)
	mustArc(t, net, p, lo, 1)

	ctrl := New(net, WithSeed(3), WithPolicy(conflict.Priority))
	mustInit(t, ctrl)
	res := mustStep(t, ctrl, 0)
	assert.Equal(t, "hi", res.Fired[0].Label)
	assert.NoError(t, ctrl.SetTokenCount(0, 1))

	// Round robin starts a fresh rotation and reaches lo on its second
	// turn, which priority never would.
	ctrl.SetPolicy(conflict.RoundRobin)
	res = mustStep(t, ctrl, 0)
	assert.Equal(t, "hi", res.Fired[0].Label)
	assert.NoError(t, ctrl.SetTokenCount(0, 1))
	res = mustStep(t, ctrl, 0)
	assert.Equal(t, "lo", res.Fired[0].Label)
}

func TestRunStopsAtDeadlock(t *testing.T) {
	ctrl := New(buildHandoff(t), WithSeed(1))
	mustInit(t, ctrl)

	last, err := ctrl.Run(100, 0)
	assert.NoError(t, err)
	assert.Equal(t, Deadlocked, last.Phase)

	stats := ctrl.Stats()
	assert.Equal(t, 2, stats.Steps)
	assert.Equal(t, 1, stats.NoFireSteps)
	assert.Equal(t, 1, stats.TotalFirings)
}
