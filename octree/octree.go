// Package octree implements a loose octree spatial index. Callers insert
// elements with axis-aligned bounds and retrieve the subset overlapping an
// arbitrary query box without scanning every element.
//
// Each node's effective region is padded beyond its geometric octant, so
// elements sitting near a split plane still fit a single child instead of
// being promoted to an ancestor. Leaves split once they exceed
// MaxElementsPerNode, and subtrees collapse back into their root once their
// total falls below MinElementsPerNode. Node and element-group storage is
// recycled through fixed-block pools.
//
// A tree is not safe for concurrent use; the caller serializes all access.
package octree

import (
	"fmt"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/spatialindex/pool"
	"go.viam.com/spatialindex/spatialmath"
)

// poolRetention is how many released nodes and groups each tree keeps around
// for reuse.
const poolRetention = 64

// Octree is a loose octree over elements of type T. It stores copies of T
// along with their bounds and hands out ElementIDs through the adapter; it
// does not own element lifetime.
type Octree[T any] struct {
	logger  golog.Logger
	adapter Adapter[T]
	cfg     Config

	root          *node[T]
	rootBounds    NodeBounds
	minNodeExtent float64
	meta          spatialmath.MetaData

	nodePool  *pool.Pool[node[T]]
	groupPool *pool.Pool[elementGroup[T]]

	// scratch is reused across collapses to drain subtrees without
	// unbounded recursion.
	scratch []*node[T]
}

// New creates a new loose octree covering the cube at center with the given
// half side length.
func New[T any](center r3.Vector, extent float64, cfg Config, adapter Adapter[T], logger golog.Logger) (*Octree[T], error) {
	if extent <= 0 {
		return nil, errors.Errorf("invalid extent (%.2f) for octree", extent)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if adapter == nil {
		return nil, errors.New("octree adapter cannot be nil")
	}

	shrink := cfg.childShrinkFactor()
	// The depth limit is expressed as a minimum extent so insertion never has
	// to count depth.
	minNodeExtent := extent
	for i := 0; i < cfg.MaxDepth; i++ {
		minNodeExtent *= shrink
	}

	capacity := cfg.MaxElementsPerNode
	t := &Octree[T]{
		logger:        logger,
		adapter:       adapter,
		cfg:           cfg,
		rootBounds:    newNodeBounds(center, extent, shrink),
		minNodeExtent: minNodeExtent,
		meta:          spatialmath.NewMetaData(),
		nodePool:      pool.New(poolRetention, func() *node[T] { return &node[T]{} }),
		groupPool: pool.New(poolRetention, func() *elementGroup[T] {
			return &elementGroup[T]{
				elems:  make([]T, 0, capacity),
				bounds: make([]spatialmath.Box, 0, capacity),
			}
		}),
	}
	t.root = t.newNode(nil)
	return t, nil
}

// Size returns the number of elements currently stored in the tree.
func (t *Octree[T]) Size() int {
	return t.root.totalElements
}

// Bounds returns the bounds of the tree's root node.
func (t *Octree[T]) Bounds() NodeBounds {
	return t.rootBounds
}

// MetaData returns the metadata accumulated over every inserted element.
func (t *Octree[T]) MetaData() spatialmath.MetaData {
	return t.meta
}

// String returns a human readable string that represents the octree.
func (t *Octree[T]) String() string {
	return fmt.Sprintf("Type: Octree | Center: X:%.1f, Y:%.1f, Z:%.1f | Extent: %.1f | Size: %d",
		t.rootBounds.Center.X, t.rootBounds.Center.Y, t.rootBounds.Center.Z, t.rootBounds.Extent, t.Size())
}

// AddElement inserts elem into the tree. The element's bound is computed once
// through the adapter, and its retrieval handle is delivered through
// Adapter.SetElementID before AddElement returns.
func (t *Octree[T]) AddElement(elem T) {
	bounds := t.adapter.Bounds(elem)
	t.meta.Merge(bounds)
	t.addElementToNode(elem, bounds, t.root, t.rootBounds)
}

func (t *Octree[T]) addElementToNode(elem T, bounds spatialmath.Box, n *node[T], nb NodeBounds) {
	n.totalElements++
	if n.leaf {
		if n.numElements < t.cfg.MaxElementsPerNode || nb.Extent <= t.minNodeExtent {
			t.appendElement(n, elem, bounds)
			return
		}
		t.splitNode(n, nb)
	}

	if octant, ok := nb.ContainingChild(bounds); ok {
		child := n.children[octant]
		if child == nil {
			child = t.newNode(n)
			n.children[octant] = child
		}
		t.addElementToNode(elem, bounds, child, nb.Child(octant))
		return
	}
	// Straddler: the bound fits no single child, so it stays here.
	t.appendElement(n, elem, bounds)
}

// splitNode converts a full leaf into an internal node and redistributes its
// elements, routing each into a freshly created child where one fits and
// keeping straddlers on the node itself.
func (t *Octree[T]) splitNode(n *node[T], nb NodeBounds) {
	drained := n.numElements
	iter := newChainIterator(n.groups, n.numElements, t.cfg.MaxElementsPerNode)
	chain := n.groups

	n.leaf = false
	n.groups = nil
	n.numElements = 0
	// Re-insertion below counts the drained elements again.
	n.totalElements -= drained

	for iter.Next() {
		t.addElementToNode(iter.Element(), iter.Bounds(), n, nb)
	}
	for chain != nil {
		next := chain.next
		t.freeGroup(chain)
		chain = next
	}
}

// RemoveElement removes the element id refers to, decrements counts up the
// ancestor chain, and collapses the shallowest subtree whose total fell below
// MinElementsPerNode. The id must be the one most recently delivered for the
// element; a stale or zero id is a caller contract violation.
func (t *Octree[T]) RemoveElement(id ElementID[T]) {
	owner := id.node
	t.removeElementAt(owner, id.index)

	var candidate *node[T]
	for n := owner; n != nil; n = n.parent {
		n.totalElements--
		if !n.leaf && n.totalElements < t.cfg.MinElementsPerNode {
			// The walk moves rootward, so the last match is the shallowest.
			candidate = n
		}
	}
	if candidate != nil {
		t.collapseNode(candidate)
	}
}

// collapseNode reverts an internal node to a leaf: every element in its
// subtree moves into the node's own storage and all child nodes are freed to
// the pool. The subtree is drained through the scratch stack rather than
// recursion so depth stays bounded.
func (t *Octree[T]) collapseNode(n *node[T]) {
	t.logger.Debugf("collapsing octree subtree with %d elements", n.totalElements)

	t.scratch = t.scratch[:0]
	for i, child := range n.children {
		if child != nil {
			t.scratch = append(t.scratch, child)
			n.children[i] = nil
		}
	}
	n.leaf = true

	for len(t.scratch) > 0 {
		m := t.scratch[len(t.scratch)-1]
		t.scratch = t.scratch[:len(t.scratch)-1]
		for _, child := range m.children {
			if child != nil {
				t.scratch = append(t.scratch, child)
			}
		}

		iter := newChainIterator(m.groups, m.numElements, t.cfg.MaxElementsPerNode)
		for iter.Next() {
			t.appendElement(n, iter.Element(), iter.Bounds())
		}
		for g := m.groups; g != nil; {
			next := g.next
			t.freeGroup(g)
			g = next
		}
		t.freeNode(m)
	}
}
