package octree

import "go.viam.com/spatialindex/spatialmath"

// elementGroup is one pooled block of element storage. Elements and their
// cached bounds live in parallel slices whose capacity is the tree's
// MaxElementsPerNode. Groups chain newest-first: appends always land in the
// head group, and a fresh group becomes the new head once it fills.
type elementGroup[T any] struct {
	elems  []T
	bounds []spatialmath.Box
	next   *elementGroup[T]
}

// node is a single octree cell. A leaf holds only its group chain; an
// internal node holds child pointers plus any straddlers, elements whose
// bound fits no single child's padded region.
type node[T any] struct {
	// parent is used only for the removal-time walk back to the root; it
	// never implies ownership.
	parent   *node[T]
	children [numOctants]*node[T]
	groups   *elementGroup[T]

	// numElements counts elements stored on this node itself, totalElements
	// those plus all stored on descendants.
	numElements   int
	totalElements int
	leaf          bool
}

// locate maps a logical element index to its group and in-group slot. Groups
// chain newest-first, so the head covers the highest indices and every group
// behind it is full.
func (n *node[T]) locate(index, capacity int) (*elementGroup[T], int) {
	groupsBehindHead := (n.numElements-1)/capacity - index/capacity
	g := n.groups
	for ; groupsBehindHead > 0; groupsBehindHead-- {
		g = g.next
	}
	return g, index % capacity
}

// appendElement adds one element to n's own storage, allocating a fresh head
// group from the pool when the current head is full, and delivers the
// element's handle through the adapter.
func (t *Octree[T]) appendElement(n *node[T], elem T, bounds spatialmath.Box) {
	if n.numElements%t.cfg.MaxElementsPerNode == 0 {
		g := t.groupPool.Get()
		g.next = n.groups
		n.groups = g
	}
	head := n.groups
	head.elems = append(head.elems, elem)
	head.bounds = append(head.bounds, bounds)
	n.numElements++
	t.adapter.SetElementID(elem, ElementID[T]{node: n, index: n.numElements - 1})
}

// removeElementAt swap-removes the element at the given logical index from
// n's own storage. The last element moves into the vacated slot and has its
// handle rewritten; an emptied head group is unlinked and freed to the pool.
func (t *Octree[T]) removeElementAt(n *node[T], index int) {
	head := n.groups
	lastSlot := len(head.elems) - 1
	if index != n.numElements-1 {
		g, slot := n.locate(index, t.cfg.MaxElementsPerNode)
		g.elems[slot] = head.elems[lastSlot]
		g.bounds[slot] = head.bounds[lastSlot]
		t.adapter.SetElementID(g.elems[slot], ElementID[T]{node: n, index: index})
	}
	var zero T
	head.elems[lastSlot] = zero
	head.elems = head.elems[:lastSlot]
	head.bounds = head.bounds[:lastSlot]
	n.numElements--
	if lastSlot == 0 {
		n.groups = head.next
		t.freeGroup(head)
	}
}

func (t *Octree[T]) newNode(parent *node[T]) *node[T] {
	n := t.nodePool.Get()
	n.parent = parent
	n.leaf = true
	return n
}

func (t *Octree[T]) freeNode(n *node[T]) {
	*n = node[T]{}
	t.nodePool.Put(n)
}

func (t *Octree[T]) freeGroup(g *elementGroup[T]) {
	clear(g.elems)
	g.elems = g.elems[:0]
	g.bounds = g.bounds[:0]
	g.next = nil
	t.groupPool.Put(g)
}
