package matrix_test

import (
	"reflect"
	"testing"

	shypn "github.com/simao-eugenio/shypn-sub007"
	"github.com/simao-eugenio/shypn-sub007/matrix"
)

// forkNet gives two transitions a shared input place:
//
//	     +--> left
//	pool-+
//	     +--> right
func forkNet(t *testing.T, tokens float64) *shypn.Net {
	t.Helper()
	net := shypn.NewNet("fork")
	pool := net.AddPlace(shypn.NewPlace("pool", tokens))
	a := net.AddPlace(shypn.NewPlace("a", 0))
	b := net.AddPlace(shypn.NewPlace("b", 0))
	left := net.AddTransition(shypn.NewTransition("left"))
	right := net.AddTransition(shypn.NewTransition("right"))
	for _, arc := range []struct {
		from, to shypn.Node
	}{
		{pool, left}, {left, a}, {pool, right}, {right, b},
	} {
		if _, err := net.AddArc(arc.from, arc.to, 1); err != nil {
			t.Fatal(err)
		}
	}
	return net
}

func TestConflictGroupsShared(t *testing.T) {
	net := forkNet(t, 1)
	m, err := matrix.New(net)
	if err != nil {
		t.Fatal(err)
	}
	mk := net.InitialMarking()
	ready := m.EnabledSet(mk)
	if !reflect.DeepEqual(ready, []int{0, 1}) {
		t.Fatalf("ready = %v", ready)
	}
	groups := m.ConflictGroups(ready, mk)
	if !reflect.DeepEqual(groups, [][]int{{0, 1}}) {
		t.Errorf("groups = %v, want one group {0 1}", groups)
	}
}

func TestConflictGroupsSingletonsWhenSatisfied(t *testing.T) {
	// Two tokens cover both consumers, so there is no contention.
	net := forkNet(t, 2)
	m, err := matrix.New(net)
	if err != nil {
		t.Fatal(err)
	}
	mk := net.InitialMarking()
	groups := m.ConflictGroups(m.EnabledSet(mk), mk)
	if !reflect.DeepEqual(groups, [][]int{{0}, {1}}) {
		t.Errorf("groups = %v, want singletons", groups)
	}
}

func TestConflictGroupsTransitive(t *testing.T) {
	// x and y fight over a; y and z fight over b. Contention is transitive,
	// so all three form one group.
	net := shypn.NewNet("chain")
	a := net.AddPlace(shypn.NewPlace("a", 1))
	b := net.AddPlace(shypn.NewPlace("b", 1))
	sink := net.AddPlace(shypn.NewPlace("sink", 0))
	x := net.AddTransition(shypn.NewTransition("x"))
	y := net.AddTransition(shypn.NewTransition("y"))
	z := net.AddTransition(shypn.NewTransition("z"))
	for _, arc := range []struct {
		from, to shypn.Node
	}{
		{a, x}, {x, sink}, {a, y}, {b, y}, {y, sink}, {b, z}, {z, sink},
	} {
		if _, err := net.AddArc(arc.from, arc.to, 1); err != nil {
			t.Fatal(err)
		}
	}
	m, err := matrix.New(net)
	if err != nil {
		t.Fatal(err)
	}
	mk := net.InitialMarking()
	groups := m.ConflictGroups(m.EnabledSet(mk), mk)
	if !reflect.DeepEqual(groups, [][]int{{0, 1, 2}}) {
		t.Errorf("groups = %v, want one group {0 1 2}", groups)
	}
}

func TestConflictGroupsEmptyReady(t *testing.T) {
	net := forkNet(t, 0)
	m, err := matrix.New(net)
	if err != nil {
		t.Fatal(err)
	}
	mk := net.InitialMarking()
	if groups := m.ConflictGroups(nil, mk); groups != nil {
		t.Errorf("groups = %v, want nil", groups)
	}
}
