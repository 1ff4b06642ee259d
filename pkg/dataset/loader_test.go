package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestFile creates a point table file in a temporary directory
func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "points.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestLoadThreeColumns(t *testing.T) {
	path := writeTestFile(t, "1.0 2.0 3.0\n4.0 5.0 6.0\n")

	pts, err := Load(path)
	require.NoError(t, err)

	n, c := pts.Dims()
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.0, pts.At(0, ColX))
	assert.Equal(t, 5.0, pts.At(1, ColY))
	assert.Equal(t, 6.0, pts.At(1, ColZ))
	assert.False(t, HasPerPointStdDev(pts))
}

func TestLoadFourColumnsCarriesStdDev(t *testing.T) {
	path := writeTestFile(t, "1 2 3 0.5\n4 5 6 0.1\n")

	pts, err := Load(path)
	require.NoError(t, err)

	_, c := pts.Dims()
	assert.Equal(t, 4, c)
	assert.True(t, HasPerPointStdDev(pts))
	assert.Equal(t, 0.5, pts.At(0, ColStdDev))
}

func TestLoadCommaDelimited(t *testing.T) {
	path := writeTestFile(t, "1.5, 2.5, 3.5\n-1, -2, -3\n")

	pts, err := Load(path)
	require.NoError(t, err)

	n, _ := pts.Dims()
	assert.Equal(t, 2, n)
	assert.Equal(t, 1.5, pts.At(0, ColX))
	assert.Equal(t, -3.0, pts.At(1, ColZ))
}

func TestLoadSkipsCommentsAndBlankLines(t *testing.T) {
	path := writeTestFile(t, "% header comment\n\n# another\n1 2 3\n")

	pts, err := Load(path)
	require.NoError(t, err)

	n, _ := pts.Dims()
	assert.Equal(t, 1, n)
}

func TestLoadErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
		assert.True(t, errors.Is(err, ErrInput))
	})

	t.Run("TooFewColumns", func(t *testing.T) {
		path := writeTestFile(t, "1 2\n3 4\n")
		_, err := Load(path)
		assert.True(t, errors.Is(err, ErrInput))
	})

	t.Run("RaggedRows", func(t *testing.T) {
		path := writeTestFile(t, "1 2 3\n4 5\n")
		_, err := Load(path)
		assert.True(t, errors.Is(err, ErrInput))
	})

	t.Run("NonNumeric", func(t *testing.T) {
		path := writeTestFile(t, "1 2 three\n")
		_, err := Load(path)
		assert.True(t, errors.Is(err, ErrInput))
	})

	t.Run("Empty", func(t *testing.T) {
		path := writeTestFile(t, "")
		_, err := Load(path)
		assert.True(t, errors.Is(err, ErrInput))
	})
}

func TestLoadPassesThroughNonFinite(t *testing.T) {
	path := writeTestFile(t, "1 2 NaN\n3 4 +Inf\n")

	pts, err := Load(path)
	require.NoError(t, err)

	n, _ := pts.Dims()
	assert.Equal(t, 2, n)
}
