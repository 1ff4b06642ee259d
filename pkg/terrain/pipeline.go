// Package terrain orchestrates the DEM reconstruction pipeline: loading
// scattered points, partitioning them into insertion and checkpoint sets,
// feeding the insertion set to a random-field estimator, validating the
// solved field against the held-out checkpoints and writing the plain-text
// artifacts.
package terrain

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"demgmrf/internal/models"
	"demgmrf/pkg/config"
	"demgmrf/pkg/dataset"
	"demgmrf/pkg/gmrf"
)

// FieldEstimator is the contract the pipeline needs from the random-field
// collaborator. pkg/gmrf provides the real implementation; pipeline tests
// use a deterministic stub so they run independently of the solver's
// numerical internals.
type FieldEstimator interface {
	Resize(minX, maxX, minY, maxY, resolution float64, def gmrf.Cell) error
	InsertObservation(z, x, y float64, updateNow, timeInvariant bool, stddev float64) error
	Solve() error
	Predict(x, y float64, interp gmrf.Interpolation) (z, std float64, err error)
	Size() (rows, cols int)
	SaveRepresentation(prefix string) error
	SaveMatlabScript(path string) error
}

// Pipeline runs one complete reconstruction. It owns the point table and
// the index partition for the duration of the run; the estimator owns its
// grid exclusively and is only reached through the FieldEstimator contract.
type Pipeline struct {
	cfg *config.Config
	est FieldEstimator

	pts    *mat.Dense
	bounds models.BoundingBox
	part   models.Partition

	statsNN  ResidualStats
	statsBi  ResidualStats
	hasStats bool
}

// NewPipeline creates a pipeline over a validated configuration and a
// sized-on-demand field estimator.
func NewPipeline(cfg *config.Config, est FieldEstimator) *Pipeline {
	return &Pipeline{cfg: cfg, est: est}
}

// Run executes the full batch: load, bounding box, checkpoint split,
// observation insertion, one field solve, checkpoint evaluation and
// artifact output. Any error aborts the run; outputs written before the
// failure point are not cleaned up.
func (p *Pipeline) Run() error {
	if err := p.loadPoints(); err != nil {
		return err
	}
	p.computeBounds()
	p.selectCheckpoints()
	if err := p.initEstimator(); err != nil {
		return err
	}
	if err := p.insertPoints(); err != nil {
		return err
	}
	if err := p.solve(); err != nil {
		return err
	}
	if err := p.evalCheckpoints(); err != nil {
		return err
	}
	return p.writeArtifacts()
}

// Stats returns the residual statistics of the last run; ok is false when
// the checkpoint set was empty and validation was skipped.
func (p *Pipeline) Stats() (nn, bi ResidualStats, ok bool) {
	return p.statsNN, p.statsBi, p.hasStats
}

// Bounds returns the expanded bounding box of the last run.
func (p *Pipeline) Bounds() models.BoundingBox { return p.bounds }

// Partition returns the index split of the last run.
func (p *Pipeline) Partition() models.Partition { return p.part }

func (p *Pipeline) loadPoints() error {
	fmt.Printf("\n[1] Loading `%s`...\n", p.cfg.Input.Path)
	t0 := time.Now()

	pts, err := dataset.Load(p.cfg.Input.Path)
	if err != nil {
		return err
	}
	p.pts = pts

	n, c := pts.Dims()
	fmt.Printf("[1] Done in %.3fs. Points: %7d  Columns: %3d\n", time.Since(t0).Seconds(), n, c)
	return nil
}

func (p *Pipeline) computeBounds() {
	fmt.Printf("\n[2] Determining bounding box...\n")
	t0 := time.Now()

	p.bounds = dataset.ComputeBounds(p.pts, p.cfg.Input.ZNoData, p.cfg.Input.Border)

	fmt.Printf("[2] Done in %.3fs.\n", time.Since(t0).Seconds())
	fmt.Printf("[2] Bbox: x=%11.2f <-> %11.2f (D=%11.2f)\n", p.bounds.MinX, p.bounds.MaxX, p.bounds.SpanX())
	fmt.Printf("[2] Bbox: y=%11.2f <-> %11.2f (D=%11.2f)\n", p.bounds.MinY, p.bounds.MaxY, p.bounds.SpanY())
	fmt.Printf("[2] Bbox: z=%11.2f <-> %11.2f (D=%11.2f)\n", p.bounds.MinZ, p.bounds.MaxZ, p.bounds.SpanZ())
}

func (p *Pipeline) selectCheckpoints() {
	fmt.Printf("\n[3] Picking random checkpoints...\n")

	n, _ := p.pts.Dims()
	ratio := p.cfg.Sampling.CheckpointRatio
	p.part = dataset.Partition(n, ratio, p.cfg.ResolveSeed())

	fmt.Printf("[3] Checkpoints: %9d (%.02f%%)  Rest of points: %9d\n",
		len(p.part.Checkpoint), 100.0*ratio, len(p.part.Insert))
}

func (p *Pipeline) initEstimator() error {
	fmt.Printf("\n[4] Initializing GMRF DEM estimator...\n")
	t0 := time.Now()

	err := p.est.Resize(p.bounds.MinX, p.bounds.MaxX, p.bounds.MinY, p.bounds.MaxY,
		p.cfg.Grid.Resolution, gmrf.Cell{})
	if err != nil {
		return err
	}

	rows, cols := p.est.Size()
	fmt.Printf("[4] Done in %.3fs. Grid: %d x %d cells\n", time.Since(t0).Seconds(), rows, cols)
	return nil
}

func (p *Pipeline) insertPoints() error {
	fmt.Printf("\n[5] Inserting %d points in DEM map...\n", len(p.part.Insert))
	t0 := time.Now()

	perPointStdDev := dataset.HasPerPointStdDev(p.pts)
	for _, i := range p.part.Insert {
		stddev := p.cfg.Grid.ObsStdDev
		if perPointStdDev {
			stddev = p.pts.At(i, dataset.ColStdDev)
		}
		err := p.est.InsertObservation(
			p.pts.At(i, dataset.ColZ),
			p.pts.At(i, dataset.ColX),
			p.pts.At(i, dataset.ColY),
			false, true, stddev)
		if err != nil {
			return fmt.Errorf("inserting point %d: %w", i, err)
		}
	}

	fmt.Printf("[5] Done in %.3fs.\n", time.Since(t0).Seconds())
	return nil
}

func (p *Pipeline) solve() error {
	rows, cols := p.est.Size()
	fmt.Printf("\n[6] Running GMRF estimator (cell count=%e)...\n", float64(rows*cols))
	t0 := time.Now()

	if err := p.est.Solve(); err != nil {
		return err
	}

	fmt.Printf("[6] Done in %.3fs.\n", time.Since(t0).Seconds())
	return nil
}

func (p *Pipeline) evalCheckpoints() error {
	nChk := len(p.part.Checkpoint)
	if nChk == 0 {
		return nil
	}

	fmt.Printf("\n[7] Eval checkpoints...\n")
	t0 := time.Now()

	residualsNN := make([]float64, nChk)
	residualsBi := make([]float64, nChk)
	for k, i := range p.part.Checkpoint {
		x := p.pts.At(i, dataset.ColX)
		y := p.pts.At(i, dataset.ColY)
		z := p.pts.At(i, dataset.ColZ)

		zNN, _, err := p.est.Predict(x, y, gmrf.Nearest)
		if err != nil {
			return fmt.Errorf("predicting checkpoint %d (nearest): %w", i, err)
		}
		residualsNN[k] = z - zNN

		zBi, _, err := p.est.Predict(x, y, gmrf.Bilinear)
		if err != nil {
			return fmt.Errorf("predicting checkpoint %d (bilinear): %w", i, err)
		}
		residualsBi[k] = z - zBi
	}

	prefix := p.cfg.Output.Prefix
	if err := WriteResiduals(prefix+"_chkpt_residuals_NN.txt", residualsNN); err != nil {
		return err
	}
	if err := WriteResiduals(prefix+"_chkpt_residuals_Bi.txt", residualsBi); err != nil {
		return err
	}

	p.statsNN = ComputeResidualStats(residualsNN)
	p.statsBi = ComputeResidualStats(residualsBi)
	p.hasStats = true

	if err := WriteResidualStats(prefix+"_chkpt_residuals_NN_stats.txt", p.statsNN); err != nil {
		return err
	}
	if err := WriteResidualStats(prefix+"_chkpt_residuals_Bi_stats.txt", p.statsBi); err != nil {
		return err
	}

	fmt.Printf("[7] Done in %.3fs.\n", time.Since(t0).Seconds())
	return nil
}

func (p *Pipeline) writeArtifacts() error {
	fmt.Printf("\n[8] Generating TXT output files...\n")
	t0 := time.Now()

	prefix := p.cfg.Output.Prefix
	if err := WritePoints(prefix+"_pts_map.txt", p.pts, p.part.Insert); err != nil {
		return err
	}
	if err := WritePoints(prefix+"_pts_chk.txt", p.pts, p.part.Checkpoint); err != nil {
		return err
	}
	if err := p.est.SaveRepresentation(prefix + "_grmf"); err != nil {
		return err
	}
	if err := p.est.SaveMatlabScript(prefix + "_grmf_draw.m"); err != nil {
		return err
	}

	fmt.Printf("[8] Done in %.3fs.\n", time.Since(t0).Seconds())
	return nil
}
