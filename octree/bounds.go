package octree

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/spatialindex/spatialmath"
)

// Octant indices are 3-bit values: bit 0 set means the positive X half, bit 1
// the positive Y half, bit 2 the positive Z half.
const (
	octantAxisX = 1 << iota
	octantAxisY
	octantAxisZ
	numOctants = 8
)

// NodeBounds describes the cubic region a node occupies: its center and half
// side length, plus the derived loose child extent and center offset. It is
// computed on the fly while descending the tree and never stored per node.
type NodeBounds struct {
	Center r3.Vector
	Extent float64

	childExtent float64
	childOffset float64
	shrink      float64
}

func newNodeBounds(center r3.Vector, extent, shrink float64) NodeBounds {
	childExtent := extent * shrink
	return NodeBounds{
		Center:      center,
		Extent:      extent,
		childExtent: childExtent,
		childOffset: extent - childExtent,
		shrink:      shrink,
	}
}

// Child derives the bounds of the given octant.
func (nb NodeBounds) Child(octant int) NodeBounds {
	center := nb.Center
	if octant&octantAxisX != 0 {
		center.X += nb.childOffset
	} else {
		center.X -= nb.childOffset
	}
	if octant&octantAxisY != 0 {
		center.Y += nb.childOffset
	} else {
		center.Y -= nb.childOffset
	}
	if octant&octantAxisZ != 0 {
		center.Z += nb.childOffset
	} else {
		center.Z -= nb.childOffset
	}
	return newNodeBounds(center, nb.childExtent, nb.shrink)
}

// ContainingChild returns the octant whose padded bounds fully contain b. The
// octant nearest b's center is chosen, with ties broken toward the negative
// half on each axis. The second return is false when b is too large on some
// axis to fit inside any single child.
func (nb NodeBounds) ContainingChild(b spatialmath.Box) (int, bool) {
	octant := 0
	center := nb.Center
	if b.Center.X > nb.Center.X {
		octant |= octantAxisX
		center.X += nb.childOffset
	} else {
		center.X -= nb.childOffset
	}
	if b.Center.Y > nb.Center.Y {
		octant |= octantAxisY
		center.Y += nb.childOffset
	} else {
		center.Y -= nb.childOffset
	}
	if b.Center.Z > nb.Center.Z {
		octant |= octantAxisZ
		center.Z += nb.childOffset
	} else {
		center.Z -= nb.childOffset
	}

	if math.Abs(b.Center.X-center.X)+b.HalfSize.X > nb.childExtent ||
		math.Abs(b.Center.Y-center.Y)+b.HalfSize.Y > nb.childExtent ||
		math.Abs(b.Center.Z-center.Z)+b.HalfSize.Z > nb.childExtent {
		return 0, false
	}
	return octant, true
}

// ChildMask encodes which octants a query box reaches as two 3-bit halves:
// the low bits mark the positive-side children per axis, the high bits the
// negative side.
type ChildMask uint8

// Contains reports whether the given octant must be visited for the query the
// mask was computed from.
func (m ChildMask) Contains(octant int) bool {
	pos := uint8(m) & 7
	neg := uint8(m) >> 3
	bits := uint8(octant)
	return bits&^pos == 0 && (^bits&7)&^neg == 0
}

// IntersectingChildren computes the set of octants whose padded bounds b
// reaches. On each axis the positive child is reached when b's max edge is at
// or past the child's near face, and the negative child when b's min edge is
// at or before its near face.
func (nb NodeBounds) IntersectingChildren(b spatialmath.Box) ChildMask {
	var pos, neg uint8
	nearFace := nb.childOffset - nb.childExtent

	if b.Center.X+b.HalfSize.X >= nb.Center.X+nearFace {
		pos |= octantAxisX
	}
	if b.Center.X-b.HalfSize.X <= nb.Center.X-nearFace {
		neg |= octantAxisX
	}
	if b.Center.Y+b.HalfSize.Y >= nb.Center.Y+nearFace {
		pos |= octantAxisY
	}
	if b.Center.Y-b.HalfSize.Y <= nb.Center.Y-nearFace {
		neg |= octantAxisY
	}
	if b.Center.Z+b.HalfSize.Z >= nb.Center.Z+nearFace {
		pos |= octantAxisZ
	}
	if b.Center.Z-b.HalfSize.Z <= nb.Center.Z-nearFace {
		neg |= octantAxisZ
	}
	return ChildMask(neg<<3 | pos)
}

// Box returns the node's true geometric region, without loose padding.
func (nb NodeBounds) Box() spatialmath.Box {
	return spatialmath.NewBoxFromHalfSize(nb.Center, r3.Vector{X: nb.Extent, Y: nb.Extent, Z: nb.Extent})
}
