package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"demgmrf/internal/models"
)

// Default extent parameters. Both are arbitrary enough that callers may
// override them through configuration; see config.Config.
const (
	// DefaultBorder is the margin added to every axis of the bounding
	// box so the field estimator has working room beyond the data.
	DefaultBorder = 10.0

	// DefaultZNoData is the |z| magnitude above which a height value is
	// treated as a raster nodata sentinel and excluded from the z bounds.
	DefaultZNoData = 1e6
)

// ComputeBounds scans the point table once and returns its bounding box,
// expanded by border on every side. The x and y bounds accumulate every
// point; the z bounds skip points with |z| >= zNoData. When every z value
// is filtered out the z bounds stay at their sentinel extremes and
// BoundingBox.HasZ reports false.
func ComputeBounds(pts *mat.Dense, zNoData, border float64) models.BoundingBox {
	bb := models.NewBoundingBox()

	n, _ := pts.Dims()
	for i := 0; i < n; i++ {
		x := pts.At(i, ColX)
		y := pts.At(i, ColY)
		z := pts.At(i, ColZ)

		bb.MinX = math.Min(bb.MinX, x)
		bb.MaxX = math.Max(bb.MaxX, x)
		bb.MinY = math.Min(bb.MinY, y)
		bb.MaxY = math.Max(bb.MaxY, y)
		if math.Abs(z) < zNoData {
			bb.MinZ = math.Min(bb.MinZ, z)
			bb.MaxZ = math.Max(bb.MaxZ, z)
		}
	}

	bb.Expand(border)
	return bb
}
