package terrain

import (
	"bufio"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"demgmrf/pkg/dataset"
)

// WritePoints persists a subset of the point table as "x, y, z" lines,
// one per index, in partition order.
func WritePoints(path string, pts *mat.Dense, indices []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, i := range indices {
		_, err := fmt.Fprintf(w, "%f, %f, %f\n",
			pts.At(i, dataset.ColX), pts.At(i, dataset.ColY), pts.At(i, dataset.ColZ))
		if err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteResiduals persists one residual per line.
func WriteResiduals(path string, residuals []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range residuals {
		if _, err := fmt.Fprintf(w, "%e\n", r); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteResidualStats persists a statistics vector as a header line
// followed by the six values on one line.
func WriteResidualStats(path string, s ResidualStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, statsHeader); err != nil {
		return err
	}
	for i, v := range s.Vector() {
		if i > 0 {
			if _, err := w.WriteString(" "); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%e", v); err != nil {
			return err
		}
	}
	if _, err := w.WriteString("\n"); err != nil {
		return err
	}
	return w.Flush()
}
