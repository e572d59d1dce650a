package shypn

var _ Node = (*Place)(nil)

// Place represents a place. Its token count lives in the Marking, not here;
// Tokens only seeds the initial marking.
type Place struct {
	// ID is the arena index of the place within its net.
	ID int `json:"id" yaml:"id"`
	// Label is the human-readable name, unique within the net.
	Label string `json:"label" yaml:"label"`
	// Tokens is the initial token count.
	Tokens float64 `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	// Capacity is the maximum token count. Zero or negative means unbounded.
	Capacity float64 `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

// NewPlace creates an unbounded place with the given initial tokens. The ID
// is assigned when the place is added to a net.
func NewPlace(label string, tokens float64) *Place {
	return &Place{
		ID:     -1,
		Label:  label,
		Tokens: tokens,
	}
}

// WithCapacity bounds the place at c tokens.
func (p *Place) WithCapacity(c float64) *Place {
	p.Capacity = c
	return p
}

// Bounded reports whether the place has a finite capacity.
func (p *Place) Bounded() bool {
	return p.Capacity > 0
}

func (p *Place) Kind() NodeKind { return PlaceNode }

func (p *Place) Ref() NodeRef { return NodeRef{Kind: PlaceNode, Index: p.ID} }

func (p *Place) String() string { return p.Label }
