package gmrf

import (
	"bufio"
	"fmt"
	"os"
)

// Snapshot is a read-only copy of the solved grid, handed to external
// consumers (artifact writers, renderers) so they never touch the
// estimator's own cells.
type Snapshot struct {
	Rows, Cols int
	Resolution float64
	MinX, MinY float64

	// Mean and Std hold the per-cell values in row-major order; Std is
	// nil when variance estimation was skipped.
	Mean []float64
	Std  []float64
}

// CellCenterX returns the x coordinate of the center of column c.
func (s *Snapshot) CellCenterX(c int) float64 {
	return s.MinX + (float64(c)+0.5)*s.Resolution
}

// CellCenterY returns the y coordinate of the center of row r.
func (s *Snapshot) CellCenterY(r int) float64 {
	return s.MinY + (float64(r)+0.5)*s.Resolution
}

// Snapshot copies the current grid state.
func (e *Estimator) Snapshot() *Snapshot {
	s := &Snapshot{
		Rows:       e.rows,
		Cols:       e.cols,
		Resolution: e.resolution,
		MinX:       e.minX,
		MinY:       e.minY,
		Mean:       make([]float64, len(e.cells)),
	}
	if !e.skipVariance {
		s.Std = make([]float64, len(e.cells))
	}
	for i, c := range e.cells {
		s.Mean[i] = c.Mean
		if s.Std != nil {
			s.Std[i] = c.Std
		}
	}
	return s
}

// SaveRepresentation serializes the grid to plain-text matrices:
// <prefix>_mean.txt always, <prefix>_std.txt unless variance estimation
// was skipped. One grid row per line, values space separated, row 0 at
// the minimum y edge.
func (e *Estimator) SaveRepresentation(prefix string) error {
	s := e.Snapshot()
	if err := writeMatrix(prefix+"_mean.txt", s.Mean, s.Rows, s.Cols); err != nil {
		return err
	}
	if s.Std != nil {
		if err := writeMatrix(prefix+"_std.txt", s.Std, s.Rows, s.Cols); err != nil {
			return err
		}
	}
	return nil
}

func writeMatrix(path string, values []float64, rows, cols int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c > 0 {
				if _, err := w.WriteString(" "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%e", values[r*cols+c]); err != nil {
				return err
			}
		}
		if _, err := w.WriteString("\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

// SaveMatlabScript writes a self-contained Matlab/Octave script that
// renders the estimated surface with surf(). The script embeds the cell
// center axes and the mean height matrix.
func (e *Estimator) SaveMatlabScript(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()

	s := e.Snapshot()
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "%% DEM surface generated by demgmrf (%dx%d cells, resolution %g)\n",
		s.Rows, s.Cols, s.Resolution)
	fmt.Fprintf(w, "xs = %f + %f*(0:%d);\n", s.CellCenterX(0), s.Resolution, s.Cols-1)
	fmt.Fprintf(w, "ys = %f + %f*(0:%d);\n", s.CellCenterY(0), s.Resolution, s.Rows-1)

	fmt.Fprintf(w, "Z = [")
	for r := 0; r < s.Rows; r++ {
		if r > 0 {
			fmt.Fprintf(w, ";\n")
		}
		for c := 0; c < s.Cols; c++ {
			if c > 0 {
				fmt.Fprintf(w, " ")
			}
			fmt.Fprintf(w, "%f", s.Mean[r*s.Cols+c])
		}
	}
	fmt.Fprintf(w, "];\n")

	fmt.Fprintf(w, "figure;\n")
	fmt.Fprintf(w, "surf(xs, ys, Z);\n")
	fmt.Fprintf(w, "shading interp;\n")
	fmt.Fprintf(w, "xlabel('x'); ylabel('y'); zlabel('z');\n")
	fmt.Fprintf(w, "title('Estimated DEM (posterior mean)');\n")

	if err := w.Flush(); err != nil {
		return err
	}
	return nil
}
