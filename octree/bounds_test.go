package octree

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/spatialindex/spatialmath"
)

func testBounds() NodeBounds {
	// LoosePadding 2 gives children 3/4 the parent extent, offset 1/4.
	return newNodeBounds(r3.Vector{}, 100, Config{LoosePadding: 2}.childShrinkFactor())
}

func TestNodeBoundsChild(t *testing.T) {
	nb := testBounds()
	test.That(t, nb.childExtent, test.ShouldEqual, 75.)
	test.That(t, nb.childOffset, test.ShouldEqual, 25.)

	cases := []struct {
		octant int
		center r3.Vector
	}{
		{0, r3.Vector{X: -25, Y: -25, Z: -25}},
		{octantAxisX, r3.Vector{X: 25, Y: -25, Z: -25}},
		{octantAxisY, r3.Vector{X: -25, Y: 25, Z: -25}},
		{octantAxisX | octantAxisY | octantAxisZ, r3.Vector{X: 25, Y: 25, Z: 25}},
	}
	for _, c := range cases {
		child := nb.Child(c.octant)
		test.That(t, child.Center, test.ShouldResemble, c.center)
		test.That(t, child.Extent, test.ShouldEqual, 75.)
	}
}

func TestContainingChild(t *testing.T) {
	nb := testBounds()

	t.Run("small box near a corner fits its octant", func(t *testing.T) {
		b := spatialmath.NewBoxFromHalfSize(r3.Vector{X: 50, Y: 50, Z: -50}, r3.Vector{X: 1, Y: 1, Z: 1})
		octant, ok := nb.ContainingChild(b)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, octant, test.ShouldEqual, octantAxisX|octantAxisY)
	})

	t.Run("small box on the split plane still fits thanks to padding", func(t *testing.T) {
		b := spatialmath.NewBoxFromHalfSize(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
		octant, ok := nb.ContainingChild(b)
		test.That(t, ok, test.ShouldBeTrue)
		// Center not past the node center on any axis picks the negative side.
		test.That(t, octant, test.ShouldEqual, 0)
	})

	t.Run("box too large on one axis fits nothing", func(t *testing.T) {
		b := spatialmath.NewBoxFromHalfSize(r3.Vector{X: 50, Y: 50, Z: 50}, r3.Vector{X: 1, Y: 80, Z: 1})
		_, ok := nb.ContainingChild(b)
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("tie break selects positive side only past center", func(t *testing.T) {
		b := spatialmath.NewBoxFromHalfSize(r3.Vector{X: 0.001, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 1, Z: 1})
		octant, ok := nb.ContainingChild(b)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, octant, test.ShouldEqual, octantAxisX)
	})
}

func TestIntersectingChildren(t *testing.T) {
	nb := testBounds()

	t.Run("query spanning the whole node reaches every octant", func(t *testing.T) {
		mask := nb.IntersectingChildren(spatialmath.NewBoxFromHalfSize(r3.Vector{}, r3.Vector{X: 100, Y: 100, Z: 100}))
		for octant := 0; octant < numOctants; octant++ {
			test.That(t, mask.Contains(octant), test.ShouldBeTrue)
		}
	})

	t.Run("corner query skips the far octant", func(t *testing.T) {
		mask := nb.IntersectingChildren(spatialmath.NewBoxFromHalfSize(
			r3.Vector{X: 90, Y: 90, Z: 90}, r3.Vector{X: 5, Y: 5, Z: 5}))
		test.That(t, mask.Contains(octantAxisX|octantAxisY|octantAxisZ), test.ShouldBeTrue)
		test.That(t, mask.Contains(0), test.ShouldBeFalse)
	})

	t.Run("query inside the loose overlap reaches both halves of an axis", func(t *testing.T) {
		// Children overlap in [-50, 50] on each axis.
		mask := nb.IntersectingChildren(spatialmath.NewBoxFromHalfSize(
			r3.Vector{X: 10, Y: -90, Z: -90}, r3.Vector{X: 1, Y: 1, Z: 1}))
		test.That(t, mask.Contains(0), test.ShouldBeTrue)
		test.That(t, mask.Contains(octantAxisX), test.ShouldBeTrue)
		test.That(t, mask.Contains(octantAxisY), test.ShouldBeFalse)
	})
}
