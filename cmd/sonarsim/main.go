// Package main runs one bearing-only tracking simulation: it generates
// ground truth, tracks the first target with the unscented Kalman filter,
// synthesizes the multipath sonar returns of every target and writes the
// results under <output>/<run-id>/.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/banshee-data/sonar.track/internal/acoustic"
	"github.com/banshee-data/sonar.track/internal/config"
	"github.com/banshee-data/sonar.track/internal/monitoring"
	"github.com/banshee-data/sonar.track/internal/report"
	"github.com/banshee-data/sonar.track/internal/scenario"
	"github.com/banshee-data/sonar.track/internal/tracking"
	"github.com/banshee-data/sonar.track/internal/version"
)

// Config holds the command-line options.
type Config struct {
	ConfigPath  string
	OutputDir   string
	Seed        uint64
	SeedSet     bool // -seed given; overrides the tuning file
	Plots       bool
	HTML        bool
	JSON        bool
	Verbose     bool
	Trace       bool
	ShowVersion bool
}

// Run is what one simulation produced.
type Run struct {
	Dir     string
	Results *report.Results
	Returns [][]float64
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}
	if cfg.ShowVersion {
		fmt.Println(version.String())
		return
	}

	configureLogging(cfg, os.Stderr)

	run, err := runSimulation(cfg)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
	monitoring.Logf("Results written to: %s", run.Dir)
}

func parseFlags(args []string) (Config, error) {
	cfg := Config{}
	fs := flag.NewFlagSet("sonarsim", flag.ContinueOnError)

	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to tuning JSON (defaults built in)")
	fs.StringVar(&cfg.OutputDir, "output", "output", "Output directory; each run gets a subdirectory")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Random seed (overrides the tuning file)")
	fs.BoolVar(&cfg.Plots, "plots", true, "Write PNG figures")
	fs.BoolVar(&cfg.HTML, "html", true, "Write the interactive HTML chart")
	fs.BoolVar(&cfg.JSON, "json", true, "Write results.json")
	fs.BoolVar(&cfg.Verbose, "v", false, "Enable verbose logging")
	fs.BoolVar(&cfg.Trace, "trace", false, "Log per-step filter and per-path propagation telemetry")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.SeedSet = true
		}
	})
	return cfg, nil
}

func configureLogging(cfg Config, w io.Writer) {
	monitoring.SetVerbose(cfg.Verbose)

	var diag, trace io.Writer
	if cfg.Verbose {
		diag = w
	}
	if cfg.Trace {
		trace = w
	}
	tracking.SetLogWriters(w, diag, trace)
	acoustic.SetLogWriters(w, diag, trace)
}

func loadTuning(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.EmptyTuningConfig(), nil
	}
	return config.LoadTuningConfig(path)
}

func runSimulation(cfg Config) (*Run, error) {
	tuning, err := loadTuning(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	seed := tuning.GetSeed()
	if cfg.SeedSet {
		seed = cfg.Seed
	}

	results := report.NewResults(seed, tuning)
	dir, err := report.RunDir(cfg.OutputDir, results.RunID)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("Run %s (%s, seed=%d)", results.RunID, version.String(), seed)

	done := monitoring.Stage("ground truth")
	truth, err := scenario.Generate(scenario.ConfigFromTuning(tuning), scenario.NewRand(seed, scenario.StreamBearings))
	done()
	if err != nil {
		return nil, err
	}
	results.Truth = truth.Track(0)

	done = monitoring.Stage("tracking")
	tracker, err := tracking.NewTracker(tracking.ParamsFromTuning(tuning))
	if err != nil {
		return nil, err
	}
	estimates, err := tracking.RunBearings(tracker, truth.BearingsFor(0))
	done()
	results.Estimates = estimates
	if err != nil {
		// A diverged tracker still leaves the estimates before the fault.
		monitoring.Logf("Warning: tracker stopped early: %v", err)
		results.Error = err.Error()
	}
	if len(estimates) > 0 {
		ev, err := scenario.Evaluate(estimates, results.Truth)
		if err != nil {
			return nil, err
		}
		results.Evaluation = &ev
		monitoring.Logf("Best estimation error: %.2f meters (rmse %.2f)", ev.FinalError, ev.RMSE)
	}

	done = monitoring.Stage("synthesis")
	synth, err := acoustic.NewSynthesizer(acoustic.ConfigFromTuning(tuning))
	if err != nil {
		return nil, err
	}
	returns := synth.ReturnSeries(truth.AcousticPositions(), truth.Dt, scenario.NewRand(seed, scenario.StreamAcoustics))
	done()
	results.ReturnEnergy = report.Energy(returns)

	if err := writeOutputs(cfg, dir, results, synth, truth, returns); err != nil {
		return nil, err
	}
	return &Run{Dir: dir, Results: results, Returns: returns}, nil
}

func writeOutputs(cfg Config, dir string, results *report.Results, synth *acoustic.Synthesizer, truth *scenario.Truth, returns [][]float64) error {
	if cfg.JSON {
		if err := report.WriteJSON(results, filepath.Join(dir, "results.json")); err != nil {
			return fmt.Errorf("failed to export JSON: %w", err)
		}
	}

	if cfg.Plots {
		done := monitoring.Stage("plots")
		if err := report.SaveTrajectoryPlot(filepath.Join(dir, "ukf_tracking_results.png"), results.Truth, results.Estimates); err != nil {
			return err
		}
		tracks := make([][][3]float64, truth.NumTargets())
		for i := range tracks {
			tracks[i] = truth.Track(i)
		}
		if err := report.SaveRayFanPlot(filepath.Join(dir, "underwater_paths_and_trajectories.png"), synth.Paths(), tracks); err != nil {
			return err
		}
		if len(returns) >= 2 {
			if err := report.SaveReturnHeatMap(filepath.Join(dir, "received_sonar_pulses.png"), returns, truth.Dt, synth.Pulse().SampleRate); err != nil {
				return err
			}
		} else {
			monitoring.Logf("Skipping return heat map: %d timestep(s)", len(returns))
		}
		done()
	}

	if cfg.HTML {
		if err := report.WriteTrackingHTML(filepath.Join(dir, "tracking.html"), results.RunID, results.Truth, results.Estimates, results.Evaluation); err != nil {
			return fmt.Errorf("failed to write HTML: %w", err)
		}
	}
	return nil
}
