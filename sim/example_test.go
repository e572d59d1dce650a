package sim_test

import (
	"fmt"

	shypn "github.com/simao-eugenio/shypn-sub007"
	"github.com/simao-eugenio/shypn-sub007/sim"
)

// The classic first net: one token hops from P1 to P2 through an immediate
// transition and the run is over.
func Example() {
	net := shypn.NewNet("handoff")
	p1 := net.AddPlace(shypn.NewPlace("P1", 1))
	p2 := net.AddPlace(shypn.NewPlace("P2", 0))
	t1 := net.AddTransition(shypn.NewTransition("T1"))
	net.AddArc(p1, t1, 1)
	net.AddArc(t1, p2, 1)

	ctrl := sim.New(net, sim.WithSeed(7))
	ctrl.Initialize()

	res, _ := ctrl.Step(0)
	fmt.Println("fired:", res.Fired[0].Label)
	fmt.Println("marking:", ctrl.Marking())

	res, _ = ctrl.Step(0)
	fmt.Println("phase:", res.Phase)
	// Output:
	// fired: T1
	// marking: [0 1]
	// phase: deadlocked
}

func ExampleController_Run() {
	net := shypn.NewNet("conveyor")
	in := net.AddPlace(shypn.NewPlace("in", 3))
	out := net.AddPlace(shypn.NewPlace("out", 0))
	move := net.AddTransition(shypn.NewTransition("move"))
	net.AddArc(in, move, 1)
	net.AddArc(move, out, 1)

	ctrl := sim.New(net, sim.WithSeed(1))
	ctrl.Initialize()
	last, _ := ctrl.Run(10, 0)

	fmt.Println("phase:", last.Phase)
	fmt.Println("moved:", ctrl.Stats().TotalFirings)
	fmt.Println("marking:", ctrl.Marking())
	// Output:
	// phase: deadlocked
	// moved: 3
	// marking: [0 3]
}
