package terrain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ResidualStats summarizes a collection of prediction residuals
// (ground-truth z minus predicted z) for one interpolation policy.
type ResidualStats struct {
	Max    float64
	Min    float64
	Mean   float64
	StdDev float64
	RMSE   float64
	Median float64
}

// statsHeader is the fixed header line of the residual statistics files.
const statsHeader = "% MAX_ABS_ERR   MIN_ABS_ERR   AVERAGE_ERR   STD_DEV   RMSE    MEDIAN"

// ComputeResidualStats derives the six summary scalars from a residual
// collection. The input is not modified; an empty collection yields the
// zero value.
//
// StdDev is the sample standard deviation, zero when there are fewer than
// two residuals. The median is the element at position floor(N/2) of the
// sorted residuals, i.e. the upper median for even N rather than the
// averaged textbook median.
func ComputeResidualStats(r []float64) ResidualStats {
	n := len(r)
	if n == 0 {
		return ResidualStats{}
	}

	s := ResidualStats{
		Max: floats.Max(r),
		Min: floats.Min(r),
	}
	if n < 2 {
		s.Mean = r[0]
	} else {
		s.Mean, s.StdDev = stat.MeanStdDev(r, nil)
	}

	sumSq := 0.0
	for _, v := range r {
		sumSq += v * v
	}
	s.RMSE = math.Sqrt(sumSq / float64(n))

	sorted := make([]float64, n)
	copy(sorted, r)
	sort.Float64s(sorted)
	s.Median = sorted[n/2]

	return s
}

// Vector returns the statistics in file column order.
func (s ResidualStats) Vector() [6]float64 {
	return [6]float64{s.Max, s.Min, s.Mean, s.StdDev, s.RMSE, s.Median}
}
