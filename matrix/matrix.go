// Package matrix builds the incidence matrices of a net and owns all token
// flow arithmetic: enablement, discrete firing and continuous flow all go
// through a Manager so that every marking update follows the state equation.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	shypn "github.com/simao-eugenio/shypn-sub007"
)

// tol absorbs the float drift continuous flow leaves behind. Comparisons
// against weights and capacities use it on both sides.
const tol = 1e-9

// Manager holds the compiled incidence view of a net: the input and output
// matrices plus the inhibitor, test and capacity side tables. It is built
// once per structural generation and rebuilt when the net changes.
type Manager struct {
	net    *shypn.Net
	gen    uint64
	nt, np int
	kind   StorageKind
	store  storage

	caps       []float64
	inhibitors map[int][]Entry
	tests      map[int][]Entry
}

// Option configures a Manager.
type Option func(*Manager)

// WithStorage selects the matrix storage strategy.
func WithStorage(kind StorageKind) Option {
	return func(m *Manager) { m.kind = kind }
}

// New validates the net and compiles its incidence matrices. Validation
// failures are reported together as a StructuralError.
func New(net *shypn.Net, opts ...Option) (*Manager, error) {
	if errs := Validate(net); len(errs) > 0 {
		violations := make([]string, len(errs))
		for i, err := range errs {
			violations[i] = err.Error()
		}
		return nil, &shypn.StructuralError{Violations: violations}
	}
	m := &Manager{
		net:        net,
		gen:        net.Generation(),
		nt:         len(net.Transitions),
		np:         len(net.Places),
		kind:       Sparse,
		inhibitors: make(map[int][]Entry),
		tests:      make(map[int][]Entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.store = newStorage(m.kind, m.nt, m.np)
	m.caps = make([]float64, m.np)
	for i, p := range net.Places {
		m.caps[i] = p.Capacity
	}
	for _, a := range net.Arcs {
		switch {
		case a.Kind == shypn.InhibitorArc:
			t := a.Transition()
			m.inhibitors[t] = addEntry(m.inhibitors[t], a.Place(), a.Weight)
		case a.Kind == shypn.TestArc:
			t := a.Transition()
			m.tests[t] = addEntry(m.tests[t], a.Place(), a.Weight)
		case a.Input():
			m.store.addInput(a.Transition(), a.Place(), a.Weight)
		default:
			m.store.addOutput(a.Transition(), a.Place(), a.Weight)
		}
	}
	return m, nil
}

// Validate checks the net against the bipartite graph rules and returns one
// error per violation. Weight and token range problems wrap
// ErrInvalidParameter; graph shape problems are plain errors.
func Validate(net *shypn.Net) []error {
	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	np, nt := len(net.Places), len(net.Transitions)
	labels := make(map[string]string)
	for i, p := range net.Places {
		if p.ID != i {
			fail("place %q has id %d, expected arena index %d", p.Label, p.ID, i)
		}
		if p.Label == "" {
			fail("place %d has an empty label", i)
		} else if prev, ok := labels[p.Label]; ok {
			fail("label %q used by both %s and place %d", p.Label, prev, i)
		} else {
			labels[p.Label] = fmt.Sprintf("place %d", i)
		}
		if p.Tokens < 0 {
			fail("place %q has negative initial tokens: %w", p.Label, shypn.ErrInvalidParameter)
		}
		if p.Capacity > 0 && p.Tokens > p.Capacity {
			fail("place %q holds %g initial tokens over capacity %g: %w",
				p.Label, p.Tokens, p.Capacity, shypn.ErrInvalidParameter)
		}
	}
	for i, t := range net.Transitions {
		if t.ID != i {
			fail("transition %q has id %d, expected arena index %d", t.Label, t.ID, i)
		}
		if t.Label == "" {
			fail("transition %d has an empty label", i)
		} else if prev, ok := labels[t.Label]; ok {
			fail("label %q used by both %s and transition %d", t.Label, prev, i)
		} else {
			labels[t.Label] = fmt.Sprintf("transition %d", i)
		}
	}
	for _, a := range net.Arcs {
		if a.Src.Kind == a.Dest.Kind {
			fail("arc %s connects two %ss", a, a.Src.Kind)
			continue
		}
		if p := a.Place(); p < 0 || p >= np {
			fail("arc %s references place %d outside the arena", a, p)
			continue
		}
		if t := a.Transition(); t < 0 || t >= nt {
			fail("arc %s references transition %d outside the arena", a, t)
			continue
		}
		if a.Weight <= 0 {
			fail("arc %s has non-positive weight %g: %w", a, a.Weight, shypn.ErrInvalidParameter)
		}
		if a.Kind != shypn.NormalArc && !a.Input() {
			fail("%s arc %s must run from a place to a transition", a.Kind, a)
		}
		t := net.Transitions[a.Transition()]
		if t.Source && a.Kind == shypn.NormalArc && a.Input() {
			fail("source transition %q has input arc %s", t.Label, a)
		}
		if t.Sink && a.Kind == shypn.NormalArc && !a.Input() {
			fail("sink transition %q has output arc %s", t.Label, a)
		}
	}
	return errs
}

// Dims returns the transition and place counts of the compiled net.
func (m *Manager) Dims() (nt, np int) { return m.nt, m.np }

// Generation returns the structural generation the matrices were built from.
func (m *Manager) Generation() uint64 { return m.gen }

// Stale reports whether the net has structurally changed since the matrices
// were built.
func (m *Manager) Stale() bool { return m.net.Generation() != m.gen }

// Storage returns the active storage strategy.
func (m *Manager) Storage() StorageKind { return m.kind }

// InputWeight returns the arc weight consumed from place p when transition t
// fires, or 0.
func (m *Manager) InputWeight(t, p int) float64 {
	if !m.inRange(t, p) {
		return 0
	}
	return m.store.input(t, p)
}

// OutputWeight returns the arc weight produced into place p when transition
// t fires, or 0.
func (m *Manager) OutputWeight(t, p int) float64 {
	if !m.inRange(t, p) {
		return 0
	}
	return m.store.output(t, p)
}

// Delta returns the net token change of place p when transition t fires.
func (m *Manager) Delta(t, p int) float64 {
	return m.OutputWeight(t, p) - m.InputWeight(t, p)
}

// Inputs lists the places transition t consumes from, in ascending order.
func (m *Manager) Inputs(t int) []Entry {
	if t < 0 || t >= m.nt {
		return nil
	}
	return m.store.inputs(t)
}

// Outputs lists the places transition t produces into, in ascending order.
func (m *Manager) Outputs(t int) []Entry {
	if t < 0 || t >= m.nt {
		return nil
	}
	return m.store.outputs(t)
}

func (m *Manager) inRange(t, p int) bool {
	return t >= 0 && t < m.nt && p >= 0 && p < m.np
}

func (m *Manager) label(t int) string {
	return m.net.Transitions[t].Label
}

// Enabled reports whether transition t may fire in marking mk: every input
// and test place holds its weight, every inhibitor place stays under its
// weight, and firing would not push any bounded place over capacity.
func (m *Manager) Enabled(t int, mk shypn.Marking) bool {
	return m.disabledReason(t, mk) == ""
}

// ExplainDisabled returns a human-readable reason why transition t cannot
// fire, or the empty string if it is enabled.
func (m *Manager) ExplainDisabled(t int, mk shypn.Marking) string {
	return m.disabledReason(t, mk)
}

func (m *Manager) disabledReason(t int, mk shypn.Marking) string {
	if t < 0 || t >= m.nt {
		return fmt.Sprintf("transition %d outside the arena", t)
	}
	for _, e := range m.store.inputs(t) {
		if mk[e.Place]+tol < e.Weight {
			return fmt.Sprintf("needs %g tokens in %s, has %g",
				e.Weight, m.net.Places[e.Place].Label, mk[e.Place])
		}
	}
	for _, e := range m.tests[t] {
		if mk[e.Place]+tol < e.Weight {
			return fmt.Sprintf("test arc needs %g tokens in %s, has %g",
				e.Weight, m.net.Places[e.Place].Label, mk[e.Place])
		}
	}
	for _, e := range m.inhibitors[t] {
		if mk[e.Place] >= e.Weight-tol {
			return fmt.Sprintf("inhibited by %s holding %g tokens",
				m.net.Places[e.Place].Label, mk[e.Place])
		}
	}
	for _, e := range m.store.outputs(t) {
		c := m.caps[e.Place]
		if c <= 0 {
			continue
		}
		add := e.Weight - m.store.input(t, e.Place)
		if add > 0 && mk[e.Place]+add > c+tol {
			return fmt.Sprintf("place %s is full", m.net.Places[e.Place].Label)
		}
	}
	return ""
}

// FlowEnabled reports whether continuous flow may move through transition
// t: every input place holds positive fluid and the inhibitor and test
// gates pass. Unlike Enabled it ignores input weights and capacity; the
// flow integration clamps amounts against those instead.
func (m *Manager) FlowEnabled(t int, mk shypn.Marking) bool {
	if t < 0 || t >= m.nt {
		return false
	}
	for _, e := range m.store.inputs(t) {
		if mk[e.Place] <= tol {
			return false
		}
	}
	for _, e := range m.tests[t] {
		if mk[e.Place]+tol < e.Weight {
			return false
		}
	}
	for _, e := range m.inhibitors[t] {
		if mk[e.Place] >= e.Weight-tol {
			return false
		}
	}
	return true
}

// EnabledSet returns the indices of all enabled transitions in ascending
// order.
func (m *Manager) EnabledSet(mk shypn.Marking) []int {
	var set []int
	for t := 0; t < m.nt; t++ {
		if m.Enabled(t, mk) {
			set = append(set, t)
		}
	}
	return set
}

// Fire applies one firing of transition t to the marking in place. It wraps
// ErrNotEnabled if the preconditions do not hold; the marking is untouched
// on error.
func (m *Manager) Fire(t int, mk shypn.Marking) error {
	if t < 0 || t >= m.nt {
		return fmt.Errorf("fire transition %d: %w", t, shypn.ErrInvalidParameter)
	}
	if reason := m.disabledReason(t, mk); reason != "" {
		return fmt.Errorf("fire %s: %s: %w", m.label(t), reason, shypn.ErrNotEnabled)
	}
	m.apply(t, mk, 1)
	return nil
}

// FireBurst fires transition t up to n times, stopping when it becomes
// disabled. It returns how many firings were applied; zero firings is an
// ErrNotEnabled error.
func (m *Manager) FireBurst(t int, mk shypn.Marking, n int) (int, error) {
	if t < 0 || t >= m.nt {
		return 0, fmt.Errorf("fire transition %d: %w", t, shypn.ErrInvalidParameter)
	}
	if n < 1 {
		n = 1
	}
	count := 0
	for ; count < n; count++ {
		if !m.Enabled(t, mk) {
			break
		}
		m.apply(t, mk, 1)
	}
	if count == 0 {
		return 0, fmt.Errorf("fire %s: %s: %w", m.label(t), m.disabledReason(t, mk), shypn.ErrNotEnabled)
	}
	return count, nil
}

// FireFraction applies amount firings worth of flow through transition t,
// clamped so no place goes negative or over capacity. It returns the amount
// actually applied. Continuous transitions use it to integrate rate over a
// time window.
func (m *Manager) FireFraction(t int, mk shypn.Marking, amount float64) float64 {
	if t < 0 || t >= m.nt || amount <= 0 {
		return 0
	}
	feasible := amount
	for _, e := range m.store.inputs(t) {
		rate := e.Weight - m.store.output(t, e.Place)
		if rate <= 0 {
			continue
		}
		if limit := mk[e.Place] / rate; limit < feasible {
			feasible = limit
		}
	}
	for _, e := range m.store.outputs(t) {
		c := m.caps[e.Place]
		if c <= 0 {
			continue
		}
		rate := e.Weight - m.store.input(t, e.Place)
		if rate <= 0 {
			continue
		}
		if limit := (c - mk[e.Place]) / rate; limit < feasible {
			feasible = limit
		}
	}
	if feasible <= tol {
		return 0
	}
	m.apply(t, mk, feasible)
	return feasible
}

func (m *Manager) apply(t int, mk shypn.Marking, factor float64) {
	for _, e := range m.store.inputs(t) {
		mk[e.Place] -= factor * e.Weight
		if mk[e.Place] < 0 && mk[e.Place] > -tol {
			mk[e.Place] = 0
		}
	}
	for _, e := range m.store.outputs(t) {
		mk[e.Place] += factor * e.Weight
	}
}

// IncidenceDense returns the combined incidence matrix C = F+ - F- with one
// row per transition and one column per place, or nil for an empty net.
func (m *Manager) IncidenceDense() *mat.Dense {
	if m.nt == 0 || m.np == 0 {
		return nil
	}
	d := make([]float64, m.nt*m.np)
	for t := 0; t < m.nt; t++ {
		for _, e := range m.store.outputs(t) {
			d[t*m.np+e.Place] += e.Weight
		}
		for _, e := range m.store.inputs(t) {
			d[t*m.np+e.Place] -= e.Weight
		}
	}
	return mat.NewDense(m.nt, m.np, d)
}
