package octree

import "go.viam.com/spatialindex/spatialmath"

// Adapter connects caller-owned elements to the tree. The tree stores copies
// of T and never manages element lifetime; any state the callbacks need (an
// owning scene, an entity table) lives on the adapter value, so one adapter
// can serve multiple trees.
type Adapter[T any] interface {
	// Bounds returns the element's axis-aligned bound. It is called once per
	// insertion, at the root.
	Bounds(elem T) spatialmath.Box

	// SetElementID is called every time the element's retrieval handle
	// changes: on initial insert and whenever a storage reshuffle moves the
	// element to a new slot. The caller must retain the latest id to remove
	// the element later.
	SetElementID(elem T, id ElementID[T])
}

// ElementID locates one element inside the tree. It stays valid until the
// owning node's storage is next mutated, at which point the element's adapter
// receives a refreshed id.
type ElementID[T any] struct {
	node  *node[T]
	index int
}

// Valid reports whether the id refers to a node at all. The zero ElementID is
// invalid.
func (id ElementID[T]) Valid() bool {
	return id.node != nil
}
