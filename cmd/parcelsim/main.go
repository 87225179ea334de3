package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/parcelsim/internal/analysis"
	"github.com/san-kum/parcelsim/internal/config"
	"github.com/san-kum/parcelsim/internal/constants"
	"github.com/san-kum/parcelsim/internal/dynamo"
	"github.com/san-kum/parcelsim/internal/integrators"
	"github.com/san-kum/parcelsim/internal/metrics"
	"github.com/san-kum/parcelsim/internal/parcel"
	"github.com/san-kum/parcelsim/internal/storage"
	"github.com/san-kum/parcelsim/internal/tui"
	"github.com/san-kum/parcelsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	updraft    float64
	integrator string
	adaptive   bool
	tolerance  float64
	workers    int
	showPlots  bool
	jsonOut    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "parcelsim",
		Short: "adiabatic cloud parcel simulation",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".parcelsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a parcel ascent",
		RunE:  runAscent,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	runCmd.Flags().Float64Var(&updraft, "updraft", config.DefaultUpdraft, "updraft velocity (m/s)")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4, rk45)")
	runCmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive timestep control")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-8, "adaptive error tolerance")
	runCmd.Flags().IntVar(&workers, "workers", 0, "reduction workers (0 = all CPUs)")
	runCmd.Flags().BoolVar(&showPlots, "plot", false, "plot profiles after the run")
	runCmd.Flags().StringVar(&jsonOut, "export", "", "write full run as JSON to this path")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run an ascent with live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	liveCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	liveCmd.Flags().Float64Var(&updraft, "updraft", config.DefaultUpdraft, "updraft velocity (m/s)")
	liveCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	liveCmd.Flags().IntVar(&workers, "workers", 0, "reduction workers (0 = all CPUs)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file, and command-line flags, in
// that order of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("updraft") {
		cfg.Parcel.Updraft = updraft
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}

	return cfg, nil
}

func getIntegrator(name string) (dynamo.Integrator, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	case "rk45":
		return integrators.NewRK45(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

func buildSystem(cfg *config.Config) (*parcel.System, dynamo.State, error) {
	ct := constants.Default()

	pop, err := cfg.Population()
	if err != nil {
		return nil, nil, err
	}

	sys, err := parcel.NewSystem(pop, ct, parcel.Options{Workers: cfg.ResolveWorkers()})
	if err != nil {
		return nil, nil, err
	}

	return sys, cfg.InitialState(ct, pop), nil
}

func runAscent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sys, x0, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	integ, err := getIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	sim := dynamo.New(sys, integ)
	sim.AddMetric(metrics.NewPeakSupersaturation())
	sim.AddMetric(metrics.NewWaterBudget())
	sim.AddMetric(metrics.NewFiniteFraction())

	fmt.Printf("running ascent: %d particles, updraft %.2f m/s, %s\n",
		sys.Population().Len(), cfg.Parcel.Updraft, cfg.Integrator)
	start := time.Now()

	result, err := sim.Run(context.Background(),
		x0, dynamo.Forcing{cfg.Parcel.Updraft}, cfg.SimConfig())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Dt, cfg.Duration, cfg.Integrator, cfg.Parcel.Updraft, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(result.States))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	act := analysis.Activate(sys.Constants(), sys.Population(), result)
	fmt.Println("\nactivation:")
	fmt.Printf("  peak supersaturation: %.4f %%\n", act.PeakS*100)
	fmt.Printf("  activated particles:  %d / %d\n", act.ActivatedCount, sys.Population().Len())
	fmt.Printf("  activated fraction:   %.3f\n", act.Fraction)
	fmt.Printf("  droplet number:       %.3g m^-3\n", act.DropletNumber)

	if showPlots {
		fmt.Println()
		fmt.Println(viz.PlotSupersaturation(analysis.SupersaturationProfile(result)))
		fmt.Println()
		fmt.Println(viz.PlotMeanRadius(analysis.MeanRadiusProfile(result, sys.Population())))
	}

	if jsonOut != "" {
		if err := storage.ExportJSON(jsonOut, cfg.Integrator, cfg.Dt, cfg.Duration, cfg.Parcel.Updraft, result); err != nil {
			return err
		}
		fmt.Printf("\nexported to %s\n", jsonOut)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sys, x0, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	integ, err := getIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	return tui.Run(sys, integ, x0, cfg.Parcel.Updraft, cfg.Dt, cfg.Duration)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tDT\tINTEG\tUPDRAFT\tPARTICLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.1fs\t%.4fs\t%s\t%.2f\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Updraft,
			run.Particles,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.LoadMetadata(runID)
	if err != nil {
		return err
	}

	times, states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	result := &dynamo.Result{States: states, Times: times, Metrics: meta.Metrics}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d, updraft %.2f m/s\n\n", meta.Particles, meta.Updraft)

	fmt.Println(viz.PlotSupersaturation(analysis.SupersaturationProfile(result)))
	fmt.Println()
	fmt.Println(viz.PlotProfile(analysis.ExtractProfile(result, parcel.IdxTemperature), "temperature (K)"))
	fmt.Println()
	fmt.Println(viz.PlotProfile(analysis.ExtractProfile(result, parcel.IdxLiquid), "liquid water mixing ratio (kg/kg)"))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.LoadMetadata(runID)
	if err != nil {
		return err
	}

	times, states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	result := &dynamo.Result{States: states, Times: times, Metrics: meta.Metrics}
	return storage.ExportJSONStdout(meta.Integrator, meta.Dt, meta.Duration, meta.Updraft, result)
}
