// Package visualization renders the solved DEM grid into optional image
// and HTML artifacts. It is a skippable consumer of the finished field:
// the text artifacts produced by the pipeline are identical whether or
// not any renderer runs.
package visualization

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"demgmrf/pkg/gmrf"
)

// Renderer draws artifacts from a read-only grid snapshot.
type Renderer struct {
	snap *gmrf.Snapshot
}

// NewRenderer creates a renderer over the given snapshot.
func NewRenderer(snap *gmrf.Snapshot) *Renderer {
	return &Renderer{snap: snap}
}

// gridData adapts a snapshot layer to the plotter.GridXYZ interface.
type gridData struct {
	snap   *gmrf.Snapshot
	values []float64
}

func (g gridData) Dims() (c, r int)   { return g.snap.Cols, g.snap.Rows }
func (g gridData) Z(c, r int) float64 { return g.values[r*g.snap.Cols+c] }
func (g gridData) X(c int) float64    { return g.snap.CellCenterX(c) }
func (g gridData) Y(r int) float64    { return g.snap.CellCenterY(r) }

// SaveHeatmaps writes <prefix>_mean.png and, when the snapshot carries
// standard deviations, <prefix>_std.png.
func (r *Renderer) SaveHeatmaps(prefix string) error {
	if err := r.saveHeatmap(prefix+"_mean.png", r.snap.Mean, "DEM posterior mean"); err != nil {
		return err
	}
	if r.snap.Std != nil {
		if err := r.saveHeatmap(prefix+"_std.png", r.snap.Std, "DEM posterior std-dev"); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) saveHeatmap(path string, values []float64, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	hm := plotter.NewHeatMap(gridData{snap: r.snap, values: values}, palette.Heat(64, 1))
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("saving heatmap %q: %w", path, err)
	}
	return nil
}

// SaveSurfaceHTML writes an interactive 3-D surface of the posterior mean
// as a standalone HTML page.
func (r *Renderer) SaveSurfaceHTML(path string) error {
	s := r.snap

	data := make([]opts.Chart3DData, 0, s.Rows*s.Cols)
	zMin, zMax := s.Mean[0], s.Mean[0]
	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			z := s.Mean[row*s.Cols+col]
			if z < zMin {
				zMin = z
			}
			if z > zMax {
				zMax = z
			}
			data = append(data, opts.Chart3DData{
				Value: []interface{}{s.CellCenterX(col), s.CellCenterY(row), z},
			})
		}
	}

	surface := charts.NewSurface3D()
	surface.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Estimated DEM", Width: "1200px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: "Estimated DEM", Subtitle: fmt.Sprintf("%dx%d cells, resolution %g", s.Rows, s.Cols, s.Resolution)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(zMin),
			Max:        float32(zMax),
			InRange:    &opts.VisualMapInRange{Color: []string{"#313695", "#4575b4", "#74add1", "#abd9e9", "#e0f3f8", "#ffffbf", "#fee090", "#fdae61", "#f46d43", "#d73027", "#a50026"}},
		}),
	)
	surface.AddSeries("height", data)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()

	if err := surface.Render(f); err != nil {
		return fmt.Errorf("rendering surface: %w", err)
	}
	return nil
}
