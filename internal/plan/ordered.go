package plan

// OrderedGroups buckets values by key while remembering the order in which
// keys were first seen. Iteration never depends on map ordering.
type OrderedGroups[K comparable, V any] struct {
	keys    []K
	buckets [][]V
	index   map[K]int
}

// NewOrderedGroups creates an empty grouping
func NewOrderedGroups[K comparable, V any]() *OrderedGroups[K, V] {
	return &OrderedGroups[K, V]{index: make(map[K]int)}
}

// Add appends value to the bucket for key, creating the bucket on first sight
func (g *OrderedGroups[K, V]) Add(key K, value V) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.keys)
		g.index[key] = i
		g.keys = append(g.keys, key)
		g.buckets = append(g.buckets, nil)
	}
	g.buckets[i] = append(g.buckets[i], value)
}

// Len returns the number of distinct keys
func (g *OrderedGroups[K, V]) Len() int {
	return len(g.keys)
}

// Keys returns keys in first-seen order
func (g *OrderedGroups[K, V]) Keys() []K {
	out := make([]K, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the bucket for key
func (g *OrderedGroups[K, V]) Get(key K) ([]V, bool) {
	i, ok := g.index[key]
	if !ok {
		return nil, false
	}
	return g.buckets[i], true
}
