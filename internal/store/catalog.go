package store

// catalog keeps entities by id in insertion order.
type catalog[T any] struct {
	kind  string
	order []string
	byID  map[string]*T
}

func newCatalog[T any](kind string) catalog[T] {
	return catalog[T]{kind: kind, byID: make(map[string]*T)}
}

func (c *catalog[T]) add(id string, v T) error {
	if _, ok := c.byID[id]; ok {
		return &DuplicateEntityError{Kind: c.kind, ID: id}
	}
	c.byID[id] = &v
	c.order = append(c.order, id)
	return nil
}

func (c *catalog[T]) get(id string) (*T, error) {
	v, ok := c.byID[id]
	if !ok {
		return nil, &LookupError{Kind: c.kind, ID: id}
	}
	return v, nil
}

func (c *catalog[T]) has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *catalog[T]) all() []*T {
	out := make([]*T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
