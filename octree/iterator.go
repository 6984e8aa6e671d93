package octree

import "go.viam.com/spatialindex/spatialmath"

// ElementIterator walks the elements stored directly on one node, ignoring
// descendants. Call Next before every access; it reports false once the chain
// is exhausted.
//
// Groups are visited newest-first, so enumeration order is not insertion
// order; Index reports each element's logical index regardless.
type ElementIterator[T any] struct {
	group    *elementGroup[T]
	capacity int
	base     int
	slot     int
}

func newChainIterator[T any](head *elementGroup[T], count, capacity int) ElementIterator[T] {
	base := 0
	if count > 0 {
		// Every group behind the head is full, so the head's first slot sits
		// at the highest multiple of capacity below count.
		base = (count - 1) / capacity * capacity
	}
	return ElementIterator[T]{group: head, capacity: capacity, base: base, slot: -1}
}

// Next advances to the next element, reporting false when none remain.
func (it *ElementIterator[T]) Next() bool {
	if it.group == nil {
		return false
	}
	it.slot++
	if it.slot >= len(it.group.elems) {
		it.group = it.group.next
		it.slot = 0
		it.base -= it.capacity
		if it.group == nil {
			return false
		}
	}
	return true
}

// Element returns the current element.
func (it *ElementIterator[T]) Element() T {
	return it.group.elems[it.slot]
}

// Bounds returns the current element's cached bound.
func (it *ElementIterator[T]) Bounds() spatialmath.Box {
	return it.group.bounds[it.slot]
}

// Index returns the current element's logical index within its node.
func (it *ElementIterator[T]) Index() int {
	return it.base + it.slot
}

type nodeFrame[T any] struct {
	n      *node[T]
	bounds NodeBounds
}

// NodeIterator visits nodes through an explicit stack with caller-driven
// expansion. It starts positioned before the first node; each Next pops the
// next node, after which the caller may schedule any of its children with
// PushChild. Children the caller never pushes are never visited.
type NodeIterator[T any] struct {
	stack    []nodeFrame[T]
	cur      nodeFrame[T]
	capacity int
}

// NewNodeIterator returns an iterator positioned before the tree's root.
func NewNodeIterator[T any](t *Octree[T]) *NodeIterator[T] {
	it := &NodeIterator[T]{
		stack:    make([]nodeFrame[T], 0, (numOctants-1)*t.cfg.MaxDepth+1),
		capacity: t.cfg.MaxElementsPerNode,
	}
	it.stack = append(it.stack, nodeFrame[T]{t.root, t.rootBounds})
	return it
}

// Next pops the next scheduled node, reporting false when the stack is empty.
func (it *NodeIterator[T]) Next() bool {
	if len(it.stack) == 0 {
		it.cur = nodeFrame[T]{}
		return false
	}
	it.cur = it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	return true
}

// Bounds returns the current node's derived bounds.
func (it *NodeIterator[T]) Bounds() NodeBounds {
	return it.cur.bounds
}

// IsLeaf reports whether the current node is a leaf.
func (it *NodeIterator[T]) IsLeaf() bool {
	return it.cur.n.leaf
}

// TotalElements returns the element count of the current node's subtree.
func (it *NodeIterator[T]) TotalElements() int {
	return it.cur.n.totalElements
}

// HasChild reports whether the current node has allocated the given octant.
func (it *NodeIterator[T]) HasChild(octant int) bool {
	return it.cur.n.children[octant] != nil
}

// PushChild schedules the given octant of the current node for a later visit.
// The child must exist.
func (it *NodeIterator[T]) PushChild(octant int) {
	it.stack = append(it.stack, nodeFrame[T]{it.cur.n.children[octant], it.cur.bounds.Child(octant)})
}

// Elements returns an iterator over the current node's own elements.
func (it *NodeIterator[T]) Elements() ElementIterator[T] {
	return newChainIterator(it.cur.n.groups, it.cur.n.numElements, it.capacity)
}

// BoxIntersectIterator enumerates every element whose bound intersects a query
// box, each exactly once. It composes a NodeIterator, descending only into
// children whose padded regions the query reaches, with an ElementIterator
// over each visited node.
type BoxIntersectIterator[T any] struct {
	query spatialmath.Box
	nodes *NodeIterator[T]
	elems ElementIterator[T]
}

// NewBoxIntersectIterator returns an iterator over all elements of the tree
// whose bounds intersect query. Mutating the tree invalidates the iterator.
func NewBoxIntersectIterator[T any](t *Octree[T], query spatialmath.Box) *BoxIntersectIterator[T] {
	return &BoxIntersectIterator[T]{
		query: query,
		nodes: NewNodeIterator(t),
	}
}

// Next advances to the next intersecting element, reporting false once the
// tree is exhausted.
func (it *BoxIntersectIterator[T]) Next() bool {
	for {
		for it.elems.Next() {
			if it.elems.Bounds().Intersects(it.query) {
				return true
			}
		}
		if !it.nodes.Next() {
			return false
		}
		mask := it.nodes.Bounds().IntersectingChildren(it.query)
		for octant := 0; octant < numOctants; octant++ {
			if it.nodes.HasChild(octant) && mask.Contains(octant) {
				it.nodes.PushChild(octant)
			}
		}
		it.elems = it.nodes.Elements()
	}
}

// Element returns the current element.
func (it *BoxIntersectIterator[T]) Element() T {
	return it.elems.Element()
}

// Bounds returns the current element's cached bound.
func (it *BoxIntersectIterator[T]) Bounds() spatialmath.Box {
	return it.elems.Bounds()
}

// ForEachIntersecting calls fn for every element whose bound intersects query,
// stopping early if fn returns false.
func (t *Octree[T]) ForEachIntersecting(query spatialmath.Box, fn func(elem T) bool) {
	it := NewBoxIntersectIterator(t, query)
	for it.Next() {
		if !fn(it.Element()) {
			return
		}
	}
}
