package behavior

import (
	"fmt"

	shypn "github.com/simao-eugenio/shypn-sub007"
)

// Cache holds the compiled behavior of every transition, keyed by arena
// index. It watches the net's structural generation: any mutation of the
// arenas recompiles the whole set on the next access, dropping stale
// schedules along with the stale properties.
type Cache struct {
	net     *shypn.Net
	gen     uint64
	entries []*Behavior
}

// NewCache creates an empty cache over net. Nothing is compiled until
// Compile or the first Get.
func NewCache(net *shypn.Net) *Cache {
	return &Cache{net: net}
}

// Compile builds behaviors for every transition, replacing any previous
// set. The first invalid transition property aborts the build.
func (c *Cache) Compile() error {
	entries := make([]*Behavior, len(c.net.Transitions))
	for i, t := range c.net.Transitions {
		b, err := Compile(t)
		if err != nil {
			return err
		}
		entries[i] = b
	}
	c.entries = entries
	c.gen = c.net.Generation()
	return nil
}

// Fresh reports whether the cached behaviors still match the net's
// structural generation.
func (c *Cache) Fresh() bool {
	return c.entries != nil && c.gen == c.net.Generation()
}

// Invalidate drops every compiled behavior and its window state. Editors
// call it after mutating transition properties in place without going
// through the net's arena methods.
func (c *Cache) Invalidate() {
	c.entries = nil
}

// Get returns the behavior of transition t, recompiling the cache first if
// it is stale.
func (c *Cache) Get(t int) (*Behavior, error) {
	if !c.Fresh() {
		if err := c.Compile(); err != nil {
			return nil, err
		}
	}
	if t < 0 || t >= len(c.entries) {
		return nil, fmt.Errorf("behavior of transition %d: %w", t, shypn.ErrInvalidParameter)
	}
	return c.entries[t], nil
}

// All returns every behavior in arena order, recompiling first if the
// cache is stale. Callers must not hold the slice across a structural
// change.
func (c *Cache) All() ([]*Behavior, error) {
	if !c.Fresh() {
		if err := c.Compile(); err != nil {
			return nil, err
		}
	}
	return c.entries, nil
}

// Len returns the number of cached behaviors.
func (c *Cache) Len() int {
	return len(c.entries)
}
