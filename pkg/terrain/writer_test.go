package terrain

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"demgmrf/pkg/dataset"
)

func TestWritePointsRoundTrip(t *testing.T) {
	pts := mat.NewDense(3, 3, []float64{
		1.25, 2.5, 3.75,
		-10, 20.125, -30.5,
		0, 0, 0,
	})
	path := filepath.Join(t.TempDir(), "pts.txt")

	require.NoError(t, WritePoints(path, pts, []int{2, 0, 1}))

	// written files re-parse with the dataset loader
	back, err := dataset.Load(path)
	require.NoError(t, err)

	n, c := back.Dims()
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, c)
	// partition order is preserved; %f keeps these values exact
	assert.Equal(t, 0.0, back.At(0, dataset.ColX))
	assert.Equal(t, 1.25, back.At(1, dataset.ColX))
	assert.Equal(t, 2.5, back.At(1, dataset.ColY))
	assert.Equal(t, 3.75, back.At(1, dataset.ColZ))
	assert.Equal(t, -30.5, back.At(2, dataset.ColZ))
}

func TestWritePointsEmptySubset(t *testing.T) {
	pts := mat.NewDense(1, 3, []float64{1, 2, 3})
	path := filepath.Join(t.TempDir(), "pts.txt")

	require.NoError(t, WritePoints(path, pts, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWriteResiduals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "res.txt")

	require.NoError(t, WriteResiduals(path, []float64{0.5, -1.25, 3}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		_, err := strconv.ParseFloat(line, 64)
		assert.NoError(t, err, "line %q", line)
	}
}

func TestWriteResidualStatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.txt")
	s := ResidualStats{Max: 1, Min: -1, Mean: 0.5, StdDev: 0.25, RMSE: 0.75, Median: 0.1}

	require.NoError(t, WriteResidualStats(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "% MAX_ABS_ERR   MIN_ABS_ERR   AVERAGE_ERR   STD_DEV   RMSE    MEDIAN", lines[0])
	assert.Len(t, strings.Fields(lines[1]), 6)
}
