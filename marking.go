package shypn

import (
	"fmt"
	"strings"
)

// Marking is the token state of a net, indexed by place ID. Counts are
// non-negative; continuous flow may leave fractional values.
type Marking []float64

// Clone returns an independent copy of the marking.
func (m Marking) Clone() Marking {
	c := make(Marking, len(m))
	copy(c, m)
	return c
}

// Total returns the number of tokens across all places.
func (m Marking) Total() float64 {
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum
}

func (m Marking) String() string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
