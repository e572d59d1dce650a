// Package shypn implements the execution core of a stochastic hybrid Petri
// net simulator.
//
// The root package holds the structural document: places, transitions and
// arcs in append-only arenas whose indices double as stable node IDs, plus
// the Marking vector that carries runtime token state separately from the
// structure. Incidence matrices and firing live in package matrix, timing
// semantics in package behavior, conflict resolution in package conflict,
// and the stepping state machine in package sim.
//
// Nothing in this module is safe for concurrent use. A controller and the
// net it runs belong to a single goroutine; callers that want concurrency
// put a controller behind their own serialization.
package shypn
