package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1.0, cfg.Grid.Resolution)
	assert.Equal(t, 1.0, cfg.Grid.PriorStdDev)
	assert.Equal(t, 0.20, cfg.Grid.ObsStdDev)
	assert.False(t, cfg.Grid.SkipVariance)
	assert.Equal(t, 0.01, cfg.Sampling.CheckpointRatio)
	assert.Equal(t, int64(0), cfg.Sampling.Seed)
	assert.Equal(t, "demgmrf_out", cfg.Output.Prefix)
	assert.Equal(t, 1e6, cfg.Input.ZNoData)
	assert.Equal(t, 10.0, cfg.Input.Border)
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	content := `
grid:
  resolution: 2.5
sampling:
  checkpointRatio: 0.3
  seed: 99
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Grid.Resolution)
	assert.Equal(t, 0.3, cfg.Sampling.CheckpointRatio)
	assert.Equal(t, int64(99), cfg.Sampling.Seed)
	// untouched values keep their defaults
	assert.Equal(t, 0.20, cfg.Grid.ObsStdDev)
	assert.Equal(t, "demgmrf_out", cfg.Output.Prefix)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Input.Path = "points.txt"
	cfg.Grid.SkipVariance = true

	require.NoError(t, SaveConfig(cfg, path))

	back, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Input.Path = "points.txt"
		return cfg
	}

	assert.NoError(t, valid().Validate())

	t.Run("MissingInput", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfiguration))
	})

	t.Run("NonPositiveResolution", func(t *testing.T) {
		cfg := valid()
		cfg.Grid.Resolution = 0
		assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfiguration))
	})

	t.Run("RatioOutOfRange", func(t *testing.T) {
		for _, ratio := range []float64{-0.1, 1.1} {
			cfg := valid()
			cfg.Sampling.CheckpointRatio = ratio
			assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfiguration), "ratio %g", ratio)
		}
	})

	t.Run("RatioBoundsAreValid", func(t *testing.T) {
		for _, ratio := range []float64{0.0, 1.0} {
			cfg := valid()
			cfg.Sampling.CheckpointRatio = ratio
			assert.NoError(t, cfg.Validate(), "ratio %g", ratio)
		}
	})

	t.Run("NonPositiveStdDevs", func(t *testing.T) {
		cfg := valid()
		cfg.Grid.PriorStdDev = 0
		assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfiguration))

		cfg = valid()
		cfg.Grid.ObsStdDev = -1
		assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfiguration))
	})
}

func TestResolveSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sampling.Seed = 42
	assert.Equal(t, int64(42), cfg.ResolveSeed())

	// zero derives a wall-clock seed
	cfg.Sampling.Seed = 0
	assert.NotEqual(t, int64(0), cfg.ResolveSeed())
}
