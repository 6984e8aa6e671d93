package octree

import (
	"fmt"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/spatialindex/spatialmath"
)

func TestElementIterator(t *testing.T) {
	t.Run("empty node", func(t *testing.T) {
		tree, _ := createTestTree(t, testConfig())
		iter := newChainIterator(tree.root.groups, tree.root.numElements, tree.cfg.MaxElementsPerNode)
		test.That(t, iter.Next(), test.ShouldBeFalse)
	})

	t.Run("indices cover the chain exactly once", func(t *testing.T) {
		tree, _ := createTestTree(t, testConfig())
		// Oversized straddlers all stay on the root; ten elements span three
		// groups at capacity four.
		elems := map[string]*testElement{}
		for i := 0; i < 10; i++ {
			e := newTestElement(fmt.Sprintf("e%d", i), r3.Vector{}, 80)
			elems[e.name] = e
			tree.AddElement(e)
		}

		iter := newChainIterator(tree.root.groups, tree.root.numElements, tree.cfg.MaxElementsPerNode)
		seen := map[int]string{}
		for iter.Next() {
			_, dup := seen[iter.Index()]
			test.That(t, dup, test.ShouldBeFalse)
			seen[iter.Index()] = iter.Element().name
		}

		test.That(t, len(seen), test.ShouldEqual, 10)
		for index, name := range seen {
			// Each element's reported index matches its live handle.
			test.That(t, elems[name].id.index, test.ShouldEqual, index)
			test.That(t, iterElementBounds(t, tree, index), test.ShouldResemble, elems[name].bounds)
		}
	})
}

// iterElementBounds re-walks the root chain to fetch the bound at one index.
func iterElementBounds(t *testing.T, tree *Octree[*testElement], index int) spatialmath.Box {
	t.Helper()
	iter := newChainIterator(tree.root.groups, tree.root.numElements, tree.cfg.MaxElementsPerNode)
	for iter.Next() {
		if iter.Index() == index {
			return iter.Bounds()
		}
	}
	t.Fatalf("no element at index %d", index)
	return spatialmath.Box{}
}

func TestNodeIterator(t *testing.T) {
	tree, _ := createTestTree(t, testConfig())
	for i := 0; i < 8; i++ {
		center := r3.Vector{X: -50, Y: -50, Z: -50}
		if i&1 != 0 {
			center.X = 50
		}
		if i&2 != 0 {
			center.Y = 50
		}
		if i&4 != 0 {
			center.Z = 50
		}
		tree.AddElement(newTestElement(fmt.Sprintf("e%d", i), center, 1))
	}
	test.That(t, tree.root.leaf, test.ShouldBeFalse)

	t.Run("without expansion only the root is visited", func(t *testing.T) {
		iter := NewNodeIterator(tree)
		test.That(t, iter.Next(), test.ShouldBeTrue)
		test.That(t, iter.Bounds().Extent, test.ShouldEqual, 100.)
		test.That(t, iter.TotalElements(), test.ShouldEqual, 8)
		test.That(t, iter.Next(), test.ShouldBeFalse)
	})

	t.Run("full expansion visits every node and element", func(t *testing.T) {
		iter := NewNodeIterator(tree)
		nodes, elements := 0, 0
		for iter.Next() {
			nodes++
			for octant := 0; octant < numOctants; octant++ {
				if iter.HasChild(octant) {
					iter.PushChild(octant)
				}
			}
			elemIter := iter.Elements()
			for elemIter.Next() {
				elements++
			}
		}
		test.That(t, nodes, test.ShouldEqual, 9)
		test.That(t, elements, test.ShouldEqual, 8)
	})

	t.Run("child bounds derive from the parent", func(t *testing.T) {
		iter := NewNodeIterator(tree)
		test.That(t, iter.Next(), test.ShouldBeTrue)
		root := iter.Bounds()
		for octant := 0; octant < numOctants; octant++ {
			if iter.HasChild(octant) {
				iter.PushChild(octant)
			}
		}
		for iter.Next() {
			test.That(t, iter.Bounds().Extent, test.ShouldEqual, root.childExtent)
			test.That(t, iter.IsLeaf(), test.ShouldBeTrue)
		}
	})
}
