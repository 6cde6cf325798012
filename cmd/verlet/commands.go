package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/verlet/internal/automation"
	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/export"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/particles"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/storage"
	"github.com/san-kum/verlet/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}
	s := effectiveSeed(cfg)
	engine, err := buildEngine(cfg, s)
	if err != nil {
		return err
	}
	defer engine.Free()

	ctrl, err := loadController()
	if err != nil {
		return err
	}
	logger.Printf("live: %d particles, seed %d, dt %g, %d iterations", cfg.Particles, s, cfg.Solver.Dt, cfg.Solver.Iterations)

	return viz.Run(engine, viz.Options{
		Name:       runName(),
		Dt:         cfg.Solver.Dt,
		Iterations: cfg.Solver.Iterations,
		Controller: ctrl,
		Theme:      theme,
	})
}

// progress logs once per simulated second.
type progress struct {
	next float64
}

func (p *progress) OnStep(s *particles.Simulation, step int, t float64) {
	if t >= p.next {
		logger.Printf("t=%.1fs step=%d energy=%.2f", t, step+1, s.KineticEnergy())
		p.next = t + 1
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}
	s := effectiveSeed(cfg)

	st := storage.New(dataDir)
	st.SetLogger(logger)
	if err := st.Init(); err != nil {
		return err
	}

	simulator, err := factory(cfg)(s)
	if err != nil {
		return err
	}
	defer simulator.Engine().Free()
	for _, m := range metrics.Default(cfg.Particles > 4000) {
		simulator.AddMetric(m)
	}
	simulator.AddObserver(&progress{})

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d particles for %.1fs (seed %d)...\n", cfg.Particles, cfg.Duration, s)
	start := time.Now()

	result, err := simulator.Run(ctx, simConfig(cfg))
	if err != nil && ctx.Err() == nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Println("interrupted; saving partial run")
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Name:       runName(),
		Seed:       s,
		Particles:  cfg.Particles,
		Dt:         cfg.Solver.Dt,
		Duration:   cfg.Duration,
		Iterations: cfg.Solver.Iterations,
		Scenario:   scenario,
	}, result, storage.Snapshot(simulator.Engine()))
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%.0f steps/sec)\n", result.StepsTaken, float64(result.StepsTaken)/elapsed.Seconds())
	fmt.Printf("energy drift: %.4f\n", result.EnergyDrift)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)

	return nil
}

func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	st.SetLogger(logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tDURATION\tDT\tITERS\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2fs\t%.4fs\t%d\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Duration,
			run.Dt,
			run.Iterations,
			run.Drift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, energy, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(energy) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d  iterations: %d\n", meta.Particles, meta.Iterations)
	fmt.Printf("samples: %d\n\n", len(energy))

	graph := asciigraph.Plot(energy,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy proxy Σ|pos-prev|²"),
	)
	fmt.Println(graph)
	return nil
}

// output returns the --out file or stdout, and a close function.
func output() (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()

	switch what {
	case "frame":
		frame, err := st.LoadFrame(args[0])
		if err != nil {
			return err
		}
		return storage.WriteFrameCSV(w, frame.Discs)
	case "energy":
		times, energy, err := st.LoadEnergy(args[0])
		if err != nil {
			return err
		}
		return storage.WriteEnergyCSV(w, times, energy)
	}
	return fmt.Errorf("unknown export %q (frame or energy)", what)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	var svg string
	switch what {
	case "frame":
		frame, err := st.LoadFrame(args[0])
		if err != nil {
			return err
		}
		svg = export.FrameToSVG(frame, scale)
	case "energy":
		times, energy, err := st.LoadEnergy(args[0])
		if err != nil {
			return err
		}
		svg = export.EnergyToSVG(times, energy, 800, 300, "#00ccff")
		if svg == "" {
			return fmt.Errorf("not enough samples to plot")
		}
	default:
		return fmt.Errorf("unknown export %q (frame or energy)", what)
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()
	_, err = io.WriteString(w, svg+"\n")
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()
	return storage.New(dataDir).ExportJSON(w, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tITERS\tGRAVITY\tCOLLISIONS\tATTRACTOR")
	for _, name := range names {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%v\t%v\n",
			name, p.Particles, p.Solver.Iterations,
			p.Physics.GravityEnabled, p.Physics.CollisionsEnabled, p.Physics.AttractorEnabled)
	}
	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	const benchSteps = 120
	base := config.DefaultConfig()

	fmt.Printf("benchmarking %d steps of dt=%.5f\n\n", benchSteps, base.Solver.Dt)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tITERS\tTIME\tSTEPS/SEC")

	for _, n := range benchCounts {
		for _, it := range benchIters {
			cfg := base.Clone()
			cfg.Particles = n
			engine, err := buildEngine(cfg, 42)
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				if err := engine.Step(cfg.Solver.Dt, it); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)
			engine.Free()

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, it, elapsed.Round(time.Microsecond), benchSteps/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}
	s := effectiveSeed(cfg)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sweeping iterations %v on %d particles (seed %d)\n\n", sweepIters, cfg.Particles, s)
	results, err := automation.SweepIterations(ctx, factory(cfg), s, simConfig(cfg), sweepIters)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERS\tTIME\tFINAL ENERGY\tMAX PENETRATION")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%v\t%.2f\t%.4f\n", r.Iterations, r.Elapsed.Round(time.Millisecond), r.FinalEnergy, r.MaxPenetration)
	}
	return w.Flush()
}

func ensemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}
	s := effectiveSeed(cfg)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d seeds from %d in parallel\n\n", ensembleN, s)
	results, err := sim.NewEnsemble(factory(cfg), ensembleN, s).Run(ctx, simConfig(cfg))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tFINAL ENERGY\tDRIFT")
	for i, r := range results {
		final := 0.0
		if n := len(r.Energy); n > 0 {
			final = r.Energy[n-1]
		}
		fmt.Fprintf(w, "%d\t%d\t%.2f\t%.4f\n", s+int64(i), r.StepsTaken, final, r.EnergyDrift)
	}
	return w.Flush()
}
