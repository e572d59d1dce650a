// Package conflict implements the pluggable policies that pick a winner
// among transitions competing for the same tokens.
package conflict

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	shypn "github.com/simao-eugenio/shypn-sub007"
)

// Candidate is one transition in a conflict group, carrying just enough of
// its properties for a policy to rank it.
type Candidate struct {
	// Index is the transition's stable arena index.
	Index int
	// Priority ranks candidates under the priority policy. Higher wins.
	Priority int
	Timing   shypn.TimingKind
}

// Group is a conflict set ordered by ascending Index, so policies see a
// deterministic layout for a given marking.
type Group []Candidate

// Policy picks the winner of a conflict group.
type Policy interface {
	Name() string
	// Resolve returns the Index of the winning candidate. The group is
	// never empty.
	Resolve(g Group, rng *rand.Rand) int
	// Reset clears accumulated state such as rotation counters.
	Reset()
}

// Kind enumerates the built-in policies.
type Kind int

const (
	// Random picks uniformly using the controller's policy RNG stream.
	Random Kind = iota
	// Priority picks the highest Priority, ties broken by ascending index.
	Priority
	// TypeBased prefers immediate over timed over stochastic over
	// continuous, ties broken by ascending index.
	TypeBased
	// RoundRobin rotates through each conflict set across steps.
	RoundRobin
)

func (k Kind) String() string {
	switch k {
	case Random:
		return "random"
	case Priority:
		return "priority"
	case TypeBased:
		return "type"
	case RoundRobin:
		return "roundrobin"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a policy name as produced by Kind.String back to the
// enum value.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "random":
		return Random, nil
	case "priority":
		return Priority, nil
	case "type":
		return TypeBased, nil
	case "roundrobin":
		return RoundRobin, nil
	default:
		return 0, fmt.Errorf("parse policy %q: %w", s, shypn.ErrInvalidParameter)
	}
}

// New builds a fresh policy of the given kind. Unknown kinds are a
// programmer error and panic.
func New(k Kind) Policy {
	switch k {
	case Random:
		return &randomPolicy{}
	case Priority:
		return &priorityPolicy{}
	case TypeBased:
		return &typePolicy{}
	case RoundRobin:
		return &roundRobinPolicy{counters: make(map[string]uint64)}
	default:
		panic("unknown conflict policy: " + k.String())
	}
}

// FromName builds a policy from its name, for settings and flags.
func FromName(s string) (Policy, error) {
	k, err := ParseKind(s)
	if err != nil {
		return nil, err
	}
	return New(k), nil
}

type randomPolicy struct{}

func (*randomPolicy) Name() string { return Random.String() }
func (*randomPolicy) Reset()       {}

func (*randomPolicy) Resolve(g Group, rng *rand.Rand) int {
	if len(g) == 1 {
		return g[0].Index
	}
	return g[rng.Intn(len(g))].Index
}

type priorityPolicy struct{}

func (*priorityPolicy) Name() string { return Priority.String() }
func (*priorityPolicy) Reset()       {}

func (*priorityPolicy) Resolve(g Group, _ *rand.Rand) int {
	best := g[0]
	for _, c := range g[1:] {
		if c.Priority > best.Priority {
			best = c
		}
	}
	return best.Index
}

// timingRank orders timing kinds by firing urgency for the type policy.
func timingRank(k shypn.TimingKind) int {
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

type typePolicy struct{}

func (*typePolicy) Name() string { return TypeBased.String() }
func (*typePolicy) Reset()       {}

func (*typePolicy) Resolve(g Group, _ *rand.Rand) int {
	best := g[0]
	for _, c := range g[1:] {
		if timingRank(c.Timing) < timingRank(best.Timing) {
			best = c
		}
	}
	return best.Index
}

type roundRobinPolicy struct {
	counters map[string]uint64
}

func (*roundRobinPolicy) Name() string { return RoundRobin.String() }

func (p *roundRobinPolicy) Reset() {
	p.counters = make(map[string]uint64)
}

// key canonicalizes a group so the same conflict set keeps one rotation
// counter across steps.
func (p *roundRobinPolicy) key(g Group) string {
	parts := make([]string, len(g))
	for i, c := range g {
		parts[i] = strconv.Itoa(c.Index)
	}
	return strings.Join(parts, ",")
}

func (p *roundRobinPolicy) Resolve(g Group, _ *rand.Rand) int {
	k := p.key(g)
	n := p.counters[k]
	p.counters[k] = n + 1
	return g[int(n%uint64(len(g)))].Index
}
