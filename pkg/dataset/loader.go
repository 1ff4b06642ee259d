// Package dataset loads scattered 3-D terrain observations from plain-text
// tables and prepares them for estimation: computing the dataset bounding
// box and splitting the points into insertion and checkpoint sets.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ErrInput marks a missing, unreadable or malformed input table.
var ErrInput = errors.New("invalid input dataset")

// Column indices of the loaded point table.
const (
	ColX = 0
	ColY = 1
	ColZ = 2
	// ColStdDev is only present when the input carries a per-point
	// measurement uncertainty in a fourth column.
	ColStdDev = 3
)

// Load reads a whitespace- or comma-delimited numeric table from path into
// an N x C dense matrix with C >= 3 (x, y, z and optionally a per-point
// standard deviation). Rows must all have the same number of columns.
// Individual values are not validated beyond parsing; NaN and Inf pass
// through untouched.
func Load(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %v", ErrInput, path, err)
	}
	defer f.Close()

	var (
		values []float64
		nCols  int
		nRows  int
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := splitRow(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if nCols == 0 {
			nCols = len(fields)
		} else if len(fields) != nCols {
			return nil, fmt.Errorf("%w: line %d has %d columns, expected %d",
				ErrInput, lineNo, len(fields), nCols)
		}
		for _, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: parsing %q: %v",
					ErrInput, lineNo, s, err)
			}
			values = append(values, v)
		}
		nRows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", ErrInput, path, err)
	}
	if nRows == 0 {
		return nil, fmt.Errorf("%w: %q contains no data rows", ErrInput, path)
	}
	if nCols < 3 {
		return nil, fmt.Errorf("%w: need at least 3 columns (x y z), got %d",
			ErrInput, nCols)
	}

	return mat.NewDense(nRows, nCols, values), nil
}

// splitRow tokenizes one input line, accepting any mix of spaces, tabs and
// commas as delimiters and ignoring comment lines starting with '%' or '#'.
func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '%' || line[0] == '#' {
		return nil
	}
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// HasPerPointStdDev reports whether the table carries an explicit
// measurement uncertainty column for every point.
func HasPerPointStdDev(pts *mat.Dense) bool {
	_, c := pts.Dims()
	return c >= 4
}
