package laptop

import (
	"fmt"
	"slices"
)

// Catalog is an immutable, indexed set of laptops in load order.
type Catalog struct {
	laptops []Laptop
	index   map[string]int
}

// NewCatalog indexes laptops by id. Duplicate ids are rejected.
func NewCatalog(laptops []Laptop) (Catalog, error) {
	index := make(map[string]int, len(laptops))
	for i, l := range laptops {
		if _, dup := index[l.ID()]; dup {
			return Catalog{}, fmt.Errorf("duplicate laptop id %q", l.ID())
		}
		index[l.ID()] = i
	}
	return Catalog{laptops: slices.Clone(laptops), index: index}, nil
}

// All returns the laptops in load order. The slice is a copy.
func (c Catalog) All() []Laptop { return slices.Clone(c.laptops) }

// Get returns the laptop with the given id.
func (c Catalog) Get(id string) (Laptop, bool) {
	i, ok := c.index[id]
	if !ok {
		return Laptop{}, false
	}
	return c.laptops[i], true
}

// Len returns the number of laptops.
func (c Catalog) Len() int { return len(c.laptops) }
