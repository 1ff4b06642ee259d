// Package gmrf implements a Gaussian Markov random field estimator over a
// regular 2-D grid of terrain height cells. Scattered height observations
// are accumulated per cell and combined with a smoothness prior between
// 4-neighbours in a single batch solve that yields a posterior mean (and
// optionally a standard deviation) for every cell.
package gmrf

import (
	"errors"
	"fmt"
	"math"
)

// Interpolation selects how a continuous query coordinate is converted
// into a height estimate from the discrete grid.
type Interpolation int

const (
	// Nearest returns the value of the single cell containing the query.
	Nearest Interpolation = iota

	// Bilinear blends the four cell centers surrounding the query,
	// clamping to valid neighbours at the grid boundary.
	Bilinear
)

// String returns the short tag used in output filenames.
func (ip Interpolation) String() string {
	switch ip {
	case Nearest:
		return "NN"
	case Bilinear:
		return "Bi"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(ip))
	}
}

var (
	// ErrOutOfBounds marks a coordinate outside the configured grid extent.
	ErrOutOfBounds = errors.New("coordinate out of grid bounds")

	// ErrInvalidGridConfig marks a resize with a non-positive resolution
	// or an empty extent.
	ErrInvalidGridConfig = errors.New("invalid grid configuration")
)

// Cell is one grid cell of the estimated field.
type Cell struct {
	// Mean is the posterior mean height of the cell
	Mean float64

	// Std is the posterior standard deviation of the cell height;
	// zero when variance estimation is skipped
	Std float64
}

// Options configures the relative weighting of the smoothness prior
// versus per-observation confidence.
type Options struct {
	// PriorStdDev is the standard deviation of the smoothness prior
	// between neighbouring cells (the terrain "tolerance")
	PriorStdDev float64

	// ObsStdDev is the default standard deviation of an observation,
	// used when InsertObservation receives a non-positive stddev
	ObsStdDev float64

	// SkipVariance disables per-cell variance estimation. Means are
	// unaffected; Cell.Std stays zero.
	SkipVariance bool
}

// Estimator is the GMRF height grid. It is not safe for concurrent use;
// the reconstruction pipeline is strictly sequential.
type Estimator struct {
	lambdaPrior  float64
	lambdaObs    float64
	skipVariance bool

	minX, maxX float64
	minY, maxY float64
	resolution float64
	rows, cols int

	cells []Cell
	def   Cell

	// accumulated evidence, one slot per cell
	obsLambda []float64 // sum of observation precisions
	obsWeight []float64 // precision-weighted sum of observed heights
	nObs      int
}

// New creates an estimator with the given prior/observation weighting.
// The grid itself is allocated by Resize.
func New(opts Options) *Estimator {
	return &Estimator{
		lambdaPrior:  1.0 / (opts.PriorStdDev * opts.PriorStdDev),
		lambdaObs:    1.0 / (opts.ObsStdDev * opts.ObsStdDev),
		skipVariance: opts.SkipVariance,
	}
}

// Resize (re)allocates the grid to cover [minX,maxX] x [minY,maxY] at the
// given cell side length. Every cell is initialized to def and all
// previously accumulated evidence is discarded.
func (e *Estimator) Resize(minX, maxX, minY, maxY, resolution float64, def Cell) error {
	if resolution <= 0 {
		return fmt.Errorf("%w: resolution %g must be positive", ErrInvalidGridConfig, resolution)
	}
	if maxX <= minX || maxY <= minY {
		return fmt.Errorf("%w: empty extent [%g,%g]x[%g,%g]", ErrInvalidGridConfig, minX, maxX, minY, maxY)
	}

	e.minX, e.maxX = minX, maxX
	e.minY, e.maxY = minY, maxY
	e.resolution = resolution
	e.cols = int(math.Ceil((maxX - minX) / resolution))
	e.rows = int(math.Ceil((maxY - minY) / resolution))

	n := e.rows * e.cols
	e.cells = make([]Cell, n)
	for i := range e.cells {
		e.cells[i] = def
	}
	e.def = def
	e.obsLambda = make([]float64, n)
	e.obsWeight = make([]float64, n)
	e.nObs = 0
	return nil
}

// Size returns the current grid dimensions as (rows, cols).
func (e *Estimator) Size() (rows, cols int) {
	return e.rows, e.cols
}

// InsertObservation records a height reading z at continuous coordinates
// (x, y). The reading is mapped to the containing cell and accumulated;
// the field itself is only recomputed when updateNow is true (callers
// normally insert the whole batch first, then call Solve once).
//
// timeInvariant is part of the observation contract for symmetry with
// time-varying random field maps; this batch DEM estimator treats every
// reading as time invariant regardless.
//
// A non-positive stddev selects the default observation stddev.
func (e *Estimator) InsertObservation(z, x, y float64, updateNow, timeInvariant bool, stddev float64) error {
	_ = timeInvariant

	idx, err := e.cellIndex(x, y)
	if err != nil {
		return err
	}

	lambda := e.lambdaObs
	if stddev > 0 {
		lambda = 1.0 / (stddev * stddev)
	}
	e.obsLambda[idx] += lambda
	e.obsWeight[idx] += lambda * z
	e.nObs++

	if updateNow {
		return e.Solve()
	}
	return nil
}

// Predict returns the estimated height and its standard deviation at an
// arbitrary continuous coordinate inside the grid extent.
func (e *Estimator) Predict(x, y float64, interp Interpolation) (z, std float64, err error) {
	switch interp {
	case Nearest:
		idx, err := e.cellIndex(x, y)
		if err != nil {
			return 0, 0, err
		}
		c := e.cells[idx]
		return c.Mean, c.Std, nil

	case Bilinear:
		if !e.inBounds(x, y) {
			return 0, 0, fmt.Errorf("%w: (%g, %g)", ErrOutOfBounds, x, y)
		}
		c0, c1, tx := e.axisNeighbors((x-e.minX)/e.resolution, e.cols)
		r0, r1, ty := e.axisNeighbors((y-e.minY)/e.resolution, e.rows)

		c00 := e.cells[r0*e.cols+c0]
		c10 := e.cells[r0*e.cols+c1]
		c01 := e.cells[r1*e.cols+c0]
		c11 := e.cells[r1*e.cols+c1]

		z = (1-ty)*((1-tx)*c00.Mean+tx*c10.Mean) + ty*((1-tx)*c01.Mean+tx*c11.Mean)
		std = (1-ty)*((1-tx)*c00.Std+tx*c10.Std) + ty*((1-tx)*c01.Std+tx*c11.Std)
		return z, std, nil

	default:
		return 0, 0, fmt.Errorf("unknown interpolation policy %d", int(interp))
	}
}

// inBounds reports whether (x, y) lies inside the configured extent.
func (e *Estimator) inBounds(x, y float64) bool {
	return e.cols > 0 && x >= e.minX && x <= e.maxX && y >= e.minY && y <= e.maxY
}

// cellIndex maps continuous coordinates to the flat index of the
// containing cell, clamping the topmost/rightmost edge into the grid.
func (e *Estimator) cellIndex(x, y float64) (int, error) {
	if !e.inBounds(x, y) {
		return 0, fmt.Errorf("%w: (%g, %g)", ErrOutOfBounds, x, y)
	}
	col := int((x - e.minX) / e.resolution)
	if col >= e.cols {
		col = e.cols - 1
	}
	row := int((y - e.minY) / e.resolution)
	if row >= e.rows {
		row = e.rows - 1
	}
	return row*e.cols + col, nil
}

// axisNeighbors resolves one axis of a bilinear query: g is the query in
// grid units, n the cell count along the axis. It returns the two
// neighbouring cell indices and the fractional weight of the second one,
// clamped so boundary queries fall back to the nearest valid pair.
func (e *Estimator) axisNeighbors(g float64, n int) (i0, i1 int, t float64) {
	g -= 0.5 // cell values live at cell centers
	i0 = int(math.Floor(g))
	t = g - float64(i0)
	if i0 < 0 {
		return 0, 0, 0
	}
	if i0 >= n-1 {
		return n - 1, n - 1, 0
	}
	return i0, i0 + 1, t
}
