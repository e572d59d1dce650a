package cmd

import (
	shypn "github.com/simao-eugenio/shypn-sub007"
)

// buildDemo wires the demo production line: a timed source feeds a
// stochastic worker, finished parts race between shipping and audit, and a
// continuous settler drains the shipped pool into the archive.
func buildDemo() *shypn.Net {
	net := shypn.NewNet("production-line")
	queue := net.AddPlace(shypn.NewPlace("queue", 0))
	done := net.AddPlace(shypn.NewPlace("done", 0))
	shipped := net.AddPlace(shypn.NewPlace("shipped", 0).WithCapacity(10))
	archive := net.AddPlace(shypn.NewPlace("archive", 0))
	scrap := net.AddPlace(shypn.NewPlace("scrap", 0))

	arrive := net.AddTransition(shypn.NewTransition("arrive").WithTimed(1).AsSource())
	work := net.AddTransition(shypn.NewTransition("work").WithStochastic(2).WithBurst(2))
	ship := net.AddTransition(shypn.NewTransition("ship").WithPriority(2))
	audit := net.AddTransition(shypn.NewTransition("audit").WithPriority(1).WithGuard("scrap < 3"))
	settle := net.AddTransition(shypn.NewTransition("settle").WithContinuous(0.5))

	must := func(_ *shypn.Arc, err error) {
		if err != nil {
			panic(err)
		}
	}
	must(net.AddArc(arrive, queue, 1))
	must(net.AddArc(queue, work, 1))
	must(net.AddArc(work, done, 1))
	must(net.AddArc(done, ship, 1))
	must(net.AddArc(ship, shipped, 1))
	must(net.AddArc(done, audit, 1))
	must(net.AddArc(audit, scrap, 1))
	must(net.AddArc(shipped, settle, 1))
	must(net.AddArc(settle, archive, 1))
	return net
}
