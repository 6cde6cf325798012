package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/verlet/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	scenario   string
	theme      string

	particleCount int
	seed          int64
	dt            float64
	duration      float64
	iterations    int
	worldWidth    float64
	worldHeight   float64
	damping       float64
	gravity       float64
	gravityOn     bool
	collisionsOn  bool
	attractorOn   bool

	outPath string
	what    string
	scale   float64

	benchCounts []int
	benchIters  []int
	sweepIters  []int
	ensembleN   int
)

var logger = log.New(io.Discard, "verlet: ", 0)

// main registers the commands; with no subcommand the live view starts.
// It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "verlet",
		Short:         "position-Verlet particle sandbox",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetOutput(os.Stderr)
			logger.SetFlags(log.Ltime)
		}
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".verlet", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
	addSimFlags(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", "frost", themeUsage())

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the interactive terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "frost", themeUsage())

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and save the result",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the kinetic energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run energy or final frame to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&what, "what", "frame", "frame or energy")
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render run energy or final frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&what, "what", "frame", "frame or energy")
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().Float64Var(&scale, "scale", 1.0, "frame scale factor")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure steps per second",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	benchCmd.Flags().IntSliceVar(&benchCounts, "counts", []int{500, 1000, 2000}, "particle counts")
	benchCmd.Flags().IntSliceVar(&benchIters, "iters", []int{1, 2, 4}, "solver iterations")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare solver iteration counts on one seeded setup",
		Args:  cobra.NoArgs,
		RunE:  sweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntSliceVar(&sweepIters, "iters", []int{1, 2, 4, 8}, "solver iterations to try")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run independent seeds in parallel",
		Args:  cobra.NoArgs,
		RunE:  ensemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleN, "runs", 4, "number of runs")

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportSVGCmd, exportJSONCmd, presetsCmd, benchCmd, sweepCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&scenario, "scenario", "", "scenario script (yaml)")
	f.IntVarP(&particleCount, "particles", "n", 0, "particle count")
	f.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	f.Float64Var(&dt, "dt", 0, "fixed timestep")
	f.Float64Var(&duration, "time", 0, "duration in seconds (headless)")
	f.IntVar(&iterations, "iterations", 0, "solver iterations per step")
	f.Float64Var(&worldWidth, "width", 0, "world width")
	f.Float64Var(&worldHeight, "height", 0, "world height")
	f.Float64Var(&damping, "damping", 0, "velocity damping factor")
	f.Float64Var(&gravity, "gravity", 0, "gravity magnitude")
	f.BoolVar(&gravityOn, "gravity-on", true, "enable gravity")
	f.BoolVar(&collisionsOn, "collisions", true, "enable collisions")
	f.BoolVar(&attractorOn, "attractor", false, "enable the attractor")
}

func themeUsage() string {
	return "color theme (" + strings.Join(viz.ThemeNames(), ", ") + ")"
}
