// Package spatialmath defines the axis-aligned geometry used by the spatial index.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Box is an axis-aligned rectangular volume, fully defined by its center point
// and half size along each axis.
type Box struct {
	Center   r3.Vector
	HalfSize r3.Vector
}

// NewBox instantiates a box at center with the given full dimensions.
func NewBox(center, dims r3.Vector) (Box, error) {
	// Negative dimensions not allowed. Zero dimensions are allowed for bounding boxes, etc.
	if dims.X < 0 || dims.Y < 0 || dims.Z < 0 {
		return Box{}, errors.Errorf("invalid box dimensions (%.2f, %.2f, %.2f)", dims.X, dims.Y, dims.Z)
	}
	return Box{Center: center, HalfSize: dims.Mul(0.5)}, nil
}

// NewBoxFromHalfSize instantiates a box directly from its half size, skipping validation.
func NewBoxFromHalfSize(center, halfSize r3.Vector) Box {
	return Box{Center: center, HalfSize: halfSize}
}

// Min returns the corner of the box with the smallest coordinate on every axis.
func (b Box) Min() r3.Vector {
	return b.Center.Sub(b.HalfSize)
}

// Max returns the corner of the box with the largest coordinate on every axis.
func (b Box) Max() r3.Vector {
	return b.Center.Add(b.HalfSize)
}

// Intersects reports whether b and other overlap. Boxes that merely touch on a
// face, edge or vertex are considered intersecting.
func (b Box) Intersects(other Box) bool {
	return math.Abs(b.Center.X-other.Center.X) <= b.HalfSize.X+other.HalfSize.X &&
		math.Abs(b.Center.Y-other.Center.Y) <= b.HalfSize.Y+other.HalfSize.Y &&
		math.Abs(b.Center.Z-other.Center.Z) <= b.HalfSize.Z+other.HalfSize.Z
}

// Contains reports whether other lies entirely within b.
func (b Box) Contains(other Box) bool {
	return math.Abs(b.Center.X-other.Center.X)+other.HalfSize.X <= b.HalfSize.X &&
		math.Abs(b.Center.Y-other.Center.Y)+other.HalfSize.Y <= b.HalfSize.Y &&
		math.Abs(b.Center.Z-other.Center.Z)+other.HalfSize.Z <= b.HalfSize.Z
}

// String returns a human readable string that represents the box.
func (b Box) String() string {
	return fmt.Sprintf("Type: Box | Position: X:%.1f, Y:%.1f, Z:%.1f | Dims: X:%.1f, Y:%.1f, Z:%.1f",
		b.Center.X, b.Center.Y, b.Center.Z, 2*b.HalfSize.X, 2*b.HalfSize.Y, 2*b.HalfSize.Z)
}
