package spatialmath

import "math"

// MetaData is data about the boxes merged into it, tracking how many were seen
// and the extrema of the volume they collectively cover.
type MetaData struct {
	TotalBoxes int

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData creates a new MetaData with extrema set up to be replaced by the
// first merged box.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Merge merges a box into the metadata.
func (meta *MetaData) Merge(b Box) {
	meta.TotalBoxes++

	minPt, maxPt := b.Min(), b.Max()
	if maxPt.X > meta.MaxX {
		meta.MaxX = maxPt.X
	}
	if maxPt.Y > meta.MaxY {
		meta.MaxY = maxPt.Y
	}
	if maxPt.Z > meta.MaxZ {
		meta.MaxZ = maxPt.Z
	}
	if minPt.X < meta.MinX {
		meta.MinX = minPt.X
	}
	if minPt.Y < meta.MinY {
		meta.MinY = minPt.Y
	}
	if minPt.Z < meta.MinZ {
		meta.MinZ = minPt.Z
	}
}
