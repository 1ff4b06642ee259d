package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"demgmrf/pkg/config"
	"demgmrf/pkg/gmrf"
	"demgmrf/pkg/terrain"
	"demgmrf/pkg/visualization"
)

func main() {
	// Parse command line arguments; defaults come from the one place
	// that defines them
	defaults := config.DefaultConfig()
	configPath := flag.String("config", "", "Optional YAML configuration file; flags override its values")
	inputPath := flag.String("input", "", "Input dataset file: X,Y,Z points in plain text format")
	resolution := flag.Float64("resolution", defaults.Grid.Resolution, "Resolution (side length) of each DEM cell")
	outPrefix := flag.String("output-prefix", defaults.Output.Prefix, "Prefix for all output filenames")
	chkRatio := flag.Float64("checkpoint-ratio", defaults.Sampling.CheckpointRatio, "Ratio (1.0=all, 0.0=none) of data points held out as checkpoints")
	stdPrior := flag.Float64("std-prior", defaults.Grid.PriorStdDev, "Standard deviation of the prior constraints (smoothness/tolerance of the terrain)")
	stdObs := flag.Float64("std-obs", defaults.Grid.ObsStdDev, "Default standard deviation of each XYZ point observation")
	skipVariance := flag.Bool("skip-variance", defaults.Grid.SkipVariance, "Skip variance estimation")
	noViz := flag.Bool("no-visualization", defaults.Output.NoVisualization, "Do not render the heatmap/HTML surface artifacts")
	seed := flag.Int64("seed", defaults.Sampling.Seed, "Checkpoint shuffle seed (0 = derive from wall clock)")
	border := flag.Float64("border", defaults.Input.Border, "Bounding box margin added on every side")
	zNoData := flag.Float64("z-nodata", defaults.Input.ZNoData, "|z| magnitude treated as raster nodata")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Explicitly set flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = *inputPath
		case "resolution":
			cfg.Grid.Resolution = *resolution
		case "output-prefix":
			cfg.Output.Prefix = *outPrefix
		case "checkpoint-ratio":
			cfg.Sampling.CheckpointRatio = *chkRatio
		case "std-prior":
			cfg.Grid.PriorStdDev = *stdPrior
		case "std-obs":
			cfg.Grid.ObsStdDev = *stdObs
		case "skip-variance":
			cfg.Grid.SkipVariance = *skipVariance
		case "no-visualization":
			cfg.Output.NoVisualization = *noViz
		case "seed":
			cfg.Sampling.Seed = *seed
		case "border":
			cfg.Input.Border = *border
		case "z-nodata":
			cfg.Input.ZNoData = *zNoData
		}
	})

	if cfg.Input.Path == "" {
		flag.Usage()
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("================================")
	fmt.Println("demgmrf - DEM RECONSTRUCTION FROM SCATTERED POINTS VIA GMRF ESTIMATION")
	fmt.Println("================================")

	estimator := gmrf.New(gmrf.Options{
		PriorStdDev:  cfg.Grid.PriorStdDev,
		ObsStdDev:    cfg.Grid.ObsStdDev,
		SkipVariance: cfg.Grid.SkipVariance,
	})
	pipeline := terrain.NewPipeline(cfg, estimator)

	startTime := time.Now()
	if err := pipeline.Run(); err != nil {
		log.Fatalf("Reconstruction failed: %v", err)
	}

	fmt.Printf("\nReconstruction completed successfully in %.2f seconds!\n", time.Since(startTime).Seconds())
	fmt.Printf("Output artifacts saved with prefix: %s\n", cfg.Output.Prefix)

	if nn, bi, ok := pipeline.Stats(); ok {
		fmt.Printf("\nCheckpoint residual statistics:\n")
		fmt.Printf("===============================\n")
		fmt.Printf("Nearest:  mean=%.4f std=%.4f rmse=%.4f median=%.4f\n", nn.Mean, nn.StdDev, nn.RMSE, nn.Median)
		fmt.Printf("Bilinear: mean=%.4f std=%.4f rmse=%.4f median=%.4f\n", bi.Mean, bi.StdDev, bi.RMSE, bi.Median)
	}

	if !cfg.Output.NoVisualization {
		fmt.Println("\nRendering visualization artifacts...")
		renderer := visualization.NewRenderer(estimator.Snapshot())
		if err := renderer.SaveHeatmaps(cfg.Output.Prefix + "_grmf"); err != nil {
			log.Printf("Warning: Failed to save heatmaps: %v", err)
		}
		if err := renderer.SaveSurfaceHTML(cfg.Output.Prefix + "_grmf_surface.html"); err != nil {
			log.Printf("Warning: Failed to save HTML surface: %v", err)
		}
	}
}
