package conflict_test

import (
	"errors"
	"math/rand"
	"testing"

	shypn "github.com/simao-eugenio/shypn-sub007"
	"github.com/simao-eugenio/shypn-sub007/conflict"
)

func group(cc ...conflict.Candidate) conflict.Group { return cc }

func TestPriorityIsDeterministic(t *testing.T) {
	p := conflict.New(conflict.Priority)
	g := group(
		conflict.Candidate{Index: 0, Priority: 1},
		conflict.Candidate{Index: 1, Priority: 5},
		conflict.Candidate{Index: 2, Priority: 3},
	)
	for i := 0; i < 20; i++ {
		if got := p.Resolve(g, nil); got != 1 {
			t.Fatalf("round %d: winner = %d, want 1 every time", i, got)
		}
	}
}

func TestPriorityTieBreaksByIndex(t *testing.T) {
	p := conflict.New(conflict.Priority)
	g := group(
		conflict.Candidate{Index: 3, Priority: 2},
		conflict.Candidate{Index: 7, Priority: 2},
	)
	if got := p.Resolve(g, nil); got != 3 {
		t.Errorf("winner = %d, want the lower index 3", got)
	}
}

func TestTypeBasedPrecedence(t *testing.T) {
	p := conflict.New(conflict.TypeBased)
	g := group(
		conflict.Candidate{Index: 0, Timing: shypn.Stochastic},
		conflict.Candidate{Index: 1, Timing: shypn.Timed},
		conflict.Candidate{Index: 2, Timing: shypn.Immediate},
	)
	if got := p.Resolve(g, nil); got != 2 {
		t.Errorf("winner = %d, want the immediate transition", got)
	}
	// Without an immediate candidate, timed outranks stochastic.
	if got := p.Resolve(g[:2], nil); got != 1 {
		t.Errorf("winner = %d, want the timed transition", got)
	}
	// Equal kinds fall back to the ascending index order.
	same := group(
		conflict.Candidate{Index: 4, Timing: shypn.Timed},
		conflict.Candidate{Index: 9, Timing: shypn.Timed},
	)
	if got := p.Resolve(same, nil); got != 4 {
		t.Errorf("winner = %d, want 4", got)
	}
}

func TestRoundRobinAlternates(t *testing.T) {
	p := conflict.New(conflict.RoundRobin)
	g := group(
		conflict.Candidate{Index: 2},
		conflict.Candidate{Index: 5},
	)
	for i := 0; i < 10; i++ {
		if got := p.Resolve(g, nil); got != 2 {
			t.Fatalf("cycle %d: winner = %d, want 2", i, got)
		}
		if got := p.Resolve(g, nil); got != 5 {
			t.Fatalf("cycle %d: winner = %d, want 5", i, got)
		}
	}
}

func TestRoundRobinKeepsGroupsIndependent(t *testing.T) {
	p := conflict.New(conflict.RoundRobin)
	ab := group(conflict.Candidate{Index: 0}, conflict.Candidate{Index: 1})
	cd := group(conflict.Candidate{Index: 2}, conflict.Candidate{Index: 3})
	if got := p.Resolve(ab, nil); got != 0 {
		t.Fatalf("ab first = %d", got)
	}
	// A different conflict set starts its own rotation.
	if got := p.Resolve(cd, nil); got != 2 {
		t.Fatalf("cd first = %d", got)
	}
	if got := p.Resolve(ab, nil); got != 1 {
		t.Fatalf("ab second = %d", got)
	}
}

func TestRoundRobinReset(t *testing.T) {
	p := conflict.New(conflict.RoundRobin)
	g := group(conflict.Candidate{Index: 0}, conflict.Candidate{Index: 1})
	p.Resolve(g, nil)
	p.Reset()
	if got := p.Resolve(g, nil); got != 0 {
		t.Errorf("after reset winner = %d, want rotation restarted at 0", got)
	}
}

func TestRandomIsSeedDeterministic(t *testing.T) {
	g := group(
		conflict.Candidate{Index: 0},
		conflict.Candidate{Index: 1},
		conflict.Candidate{Index: 2},
	)
	p := conflict.New(conflict.Random)
	a := rand.New(rand.NewSource(99))
	b := rand.New(rand.NewSource(99))
	for i := 0; i < 50; i++ {
		wa := p.Resolve(g, a)
		wb := p.Resolve(g, b)
		if wa != wb {
			t.Fatalf("draw %d: same seed picked %d and %d", i, wa, wb)
		}
		if wa < 0 || wa > 2 {
			t.Fatalf("draw %d: winner %d outside the group", i, wa)
		}
	}
}

func TestRandomEventuallyPicksEveryone(t *testing.T) {
	g := group(conflict.Candidate{Index: 0}, conflict.Candidate{Index: 1})
	p := conflict.New(conflict.Random)
	rng := rand.New(rand.NewSource(1))
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		seen[p.Resolve(g, rng)] = true
	}
	if !seen[0] || !seen[1] {
		t.Errorf("200 draws never picked both candidates: %v", seen)
	}
}

func TestFromName(t *testing.T) {
	for _, k := range []conflict.Kind{conflict.Random, conflict.Priority, conflict.TypeBased, conflict.RoundRobin} {
		p, err := conflict.FromName(k.String())
		if err != nil {
			t.Fatalf("FromName(%s): %v", k, err)
		}
		if p.Name() != k.String() {
			t.Errorf("Name = %q, want %q", p.Name(), k)
		}
	}
	if _, err := conflict.FromName("lottery"); !errors.Is(err, shypn.ErrInvalidParameter) {
		t.Errorf("got %v, want ErrInvalidParameter", err)
	}
}

func TestNewPanicsOnUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown kind")
		}
	}()
	conflict.New(conflict.Kind(99))
}
