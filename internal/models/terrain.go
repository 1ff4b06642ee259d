package models

import "math"

// BoundingBox is the inclusive spatial extent of a point dataset after
// border expansion. The z bounds are derived only from points whose |z|
// is below the nodata threshold, so they may remain at their sentinel
// extremes when every point was filtered out.
type BoundingBox struct {
	// MinX and MaxX bound the x axis
	MinX, MaxX float64

	// MinY and MaxY bound the y axis
	MinY, MaxY float64

	// MinZ and MaxZ bound the z axis, ignoring nodata values
	MinZ, MaxZ float64
}

// NewBoundingBox returns a box with every bound at its sentinel extreme,
// ready to accumulate points.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		MinX: math.MaxFloat64, MaxX: -math.MaxFloat64,
		MinY: math.MaxFloat64, MaxY: -math.MaxFloat64,
		MinZ: math.MaxFloat64, MaxZ: -math.MaxFloat64,
	}
}

// Expand grows every bound outward by the given border margin.
func (b *BoundingBox) Expand(border float64) {
	b.MinX -= border
	b.MaxX += border
	b.MinY -= border
	b.MaxY += border
	b.MinZ -= border
	b.MaxZ += border
}

// HasZ reports whether at least one point contributed to the z bounds.
// False means every z value was a nodata sentinel and the z extent is
// degenerate.
func (b BoundingBox) HasZ() bool {
	return b.MaxZ > b.MinZ
}

// SpanX returns the x extent of the box.
func (b BoundingBox) SpanX() float64 { return b.MaxX - b.MinX }

// SpanY returns the y extent of the box.
func (b BoundingBox) SpanY() float64 { return b.MaxY - b.MinY }

// SpanZ returns the z extent of the box.
func (b BoundingBox) SpanZ() float64 { return b.MaxZ - b.MinZ }

// Partition is a shuffled split of point indices into an insertion set
// used to fit the terrain field and a held-out checkpoint set used only
// to measure prediction accuracy. The two sets are disjoint and together
// cover every index exactly once.
type Partition struct {
	// Insert holds the indices of points fed to the field estimator
	Insert []int

	// Checkpoint holds the indices of held-out validation points
	Checkpoint []int
}

// Total returns the number of points covered by the partition.
func (p Partition) Total() int {
	return len(p.Insert) + len(p.Checkpoint)
}
