package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/simedcn/Langevin-GJI-2020/internal/analysis"
	"github.com/simedcn/Langevin-GJI-2020/internal/config"
	"github.com/simedcn/Langevin-GJI-2020/internal/experiment"
	"github.com/simedcn/Langevin-GJI-2020/internal/optim"
	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
	"github.com/simedcn/Langevin-GJI-2020/internal/storage"
	"github.com/simedcn/Langevin-GJI-2020/internal/viz"
)

var (
	dataDir    string
	steps      int
	taus       string
	thin       int
	seed       int64
	dim        int
	rho        float64
	noiseStd   float64
	warmup     float64
	initState  string
	sequential bool
	configFile string
	preset     string
	// tune
	pilotSteps int
	tuneGrid   string
	// export
	outPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "langevin",
		Short: "MH-adjusted stochastic gradient Langevin sampler",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".langevin", "data directory")

	sampleCmd := &cobra.Command{
		Use:   "sample [target]",
		Short: "run chains against a target",
		Args:  cobra.ExactArgs(1),
		RunE:  runSample,
	}
	sampleCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps per chain")
	sampleCmd.Flags().StringVar(&taus, "tau", "0.1", "initial step lengths, comma separated (one chain each)")
	sampleCmd.Flags().IntVar(&thin, "thin", 0, "thinning stride (0 = keep all)")
	sampleCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	sampleCmd.Flags().IntVar(&dim, "dim", config.DefaultDim, "state dimension")
	sampleCmd.Flags().Float64Var(&rho, "rho", 0.5, "coupling (correlated target)")
	sampleCmd.Flags().Float64Var(&noiseStd, "noise", 0.0, "gradient noise stddev (stochastic oracle)")
	sampleCmd.Flags().Float64Var(&warmup, "warmup", config.DefaultWarmup, "warm-up fraction discarded in summaries")
	sampleCmd.Flags().StringVar(&initState, "x0", "", "initial state, comma separated (default zeros)")
	sampleCmd.Flags().BoolVar(&sequential, "sequential", false, "run chains sequentially instead of in parallel")
	sampleCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sampleCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Float64Var(&warmup, "warmup", config.DefaultWarmup, "warm-up fraction discarded in summaries")

	tuneCmd := &cobra.Command{
		Use:   "tune [target]",
		Short: "sweep step lengths with pilot chains",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().IntVar(&pilotSteps, "pilot-steps", 500, "steps per pilot chain")
	tuneCmd.Flags().StringVar(&tuneGrid, "grid", "0.001,0.005,0.01,0.05,0.1,0.5,1.0", "candidate step lengths")
	tuneCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	tuneCmd.Flags().IntVar(&dim, "dim", config.DefaultDim, "state dimension")
	tuneCmd.Flags().Float64Var(&rho, "rho", 0.5, "coupling (correlated target)")
	tuneCmd.Flags().Float64Var(&noiseStd, "noise", 0.0, "gradient noise stddev")
	tuneCmd.Flags().StringVar(&initState, "x0", "", "initial state, comma separated")

	liveCmd := &cobra.Command{
		Use:   "live [target]",
		Short: "run one chain with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps per chain")
	liveCmd.Flags().StringVar(&taus, "tau", "0.1", "initial step length")
	liveCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	liveCmd.Flags().IntVar(&dim, "dim", config.DefaultDim, "state dimension")
	liveCmd.Flags().Float64Var(&rho, "rho", 0.5, "coupling (correlated target)")
	liveCmd.Flags().Float64Var(&noiseStd, "noise", 0.0, "gradient noise stddev")
	liveCmd.Flags().StringVar(&initState, "x0", "", "initial state, comma separated")

	targetsCmd := &cobra.Command{
		Use:   "targets",
		Short: "list built-in targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range experiment.NewRegistry().ListTargets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [target]",
		Short: "list available presets for a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for target: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [chain]",
		Short: "export one chain to CSV on stdout",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportCSV,
	}

	rootCmd.AddCommand(sampleCmd, listCmd, plotCmd, tuneCmd, liveCmd, targetsCmd, presetsCmd, exportJSONCmd, exportCSVCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig merges preset, config file, and flags: flags override the
// file, the file overrides the preset.
func buildConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Target = target

	if preset != "" {
		p := config.GetPreset(target, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(target))
		}
		*cfg = *p
		cfg.Parallel = true
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Target = target
	}

	if cmd.Flags().Changed("steps") || cfg.Steps == 0 {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("tau") || len(cfg.StepSizes) == 0 {
		parsed, err := parseFloats(taus)
		if err != nil {
			return nil, fmt.Errorf("invalid --tau: %w", err)
		}
		cfg.StepSizes = parsed
	}
	if cmd.Flags().Changed("thin") {
		cfg.Thin = thin
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("dim") || cfg.Dim == 0 {
		cfg.Dim = dim
	}
	if cmd.Flags().Changed("rho") {
		cfg.Rho = rho
	}
	if cmd.Flags().Changed("noise") {
		cfg.NoiseStd = noiseStd
	}
	if cmd.Flags().Changed("warmup") {
		cfg.Warmup = warmup
	}
	if cmd.Flags().Changed("x0") {
		parsed, err := parseFloats(initState)
		if err != nil {
			return nil, fmt.Errorf("invalid --x0: %w", err)
		}
		cfg.InitState = parsed
	}
	if cmd.Flags().Changed("sequential") {
		cfg.Parallel = !sequential
	}

	return cfg, nil
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	oracle, err := registry.GetTarget(cfg.Target, cfg)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(oracle, registry.DefaultMetrics()); err != nil {
		return err
	}

	fmt.Printf("sampling %s (%d chains x %d steps)...\n", cfg.Target, len(cfg.StepSizes), cfg.Steps)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	ms := exp.MetricValues()

	runID, err := st.Save(cfg.Target, cfg.Seed, cfg.Thin, cfg.StepSizes, ms, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN\tTAU0\tTAU\tACCEPT\tSTATUS")
	for i, ch := range result.Chains {
		status := "ok"
		if ch.Diverged {
			status = fmt.Sprintf("diverged at %d", ch.DivergedAt)
		}
		fmt.Fprintf(w, "%d\t%.4g\t%.4g\t%.1f%%\t%s\n", i, ch.StepSize, ch.FinalTau, ch.AcceptRate, status)
	}
	w.Flush()

	fmt.Println("\nmetrics:")
	for name, val := range ms {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	if len(result.Chains) > 0 && !result.Chains[0].Diverged {
		mean, variance := analysis.Moments(result.Chains[0].States, cfg.Warmup)
		fmt.Printf("\nchain 0 posterior (warmup %.0f%%):\n", cfg.Warmup*100)
		for i := range mean {
			fmt.Printf("  x%d: mean %.4f, var %.4f\n", i, mean[i], variance[i])
		}
	}

	return nil
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
	fmt.Fprintln(w, "ID\tTARGET\tTIME\tDIM\tSTEPS\tCHAINS\tACCEPT")

	for _, run := range runs {
		acc := ""
		for i, a := range run.AcceptRates {
			if i > 0 {
				acc += ","
			}
			acc += fmt.Sprintf("%.0f%%", a)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Target,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dim,
			run.Steps,
			len(run.StepSizes),
			acc,
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

	states, _, err := st.LoadChain(runID, 0)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("target: %s\n", meta.Target)
	fmt.Printf("samples: %d\n\n", len(states))

	numVars := len(states[0])
	maxPlots := 4
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = states[i][varIdx]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("x%d trace", varIdx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	mean, variance := analysis.Moments(states, warmup)
	fmt.Printf("posterior (warmup %.0f%%):\n", warmup*100)
	for i := range mean {
		fmt.Printf("  x%d: mean %.4f, var %.4f\n", i, mean[i], variance[i])
	}
	fmt.Printf("mean squared jump: %.6f\n", analysis.MeanSquaredJump(states))

	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Target = args[0]
	cfg.Dim = dim
	cfg.Seed = seed
	cfg.Rho = rho
	cfg.NoiseStd = noiseStd
	if initState != "" {
		parsed, err := parseFloats(initState)
		if err != nil {
			return fmt.Errorf("invalid --x0: %w", err)
		}
		cfg.InitState = parsed
	}

	grid, err := parseFloats(tuneGrid)
	if err != nil {
		return fmt.Errorf("invalid --grid: %w", err)
	}

	registry := experiment.NewRegistry()
	oracle, err := registry.GetTarget(cfg.Target, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %d step lengths (%d pilot steps each)...\n\n", len(grid), pilotSteps)

	best, sweep, err := optim.TuneStepSize(context.Background(), oracle, sampler.State(cfg.GetInitState()), grid, pilotSteps, cfg.Seed)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAU\tACCEPT\tSTATUS")
	for _, s := range sweep {
		status := "ok"
		if s.Diverged {
			status = "diverged"
		}
		marker := ""
		if s.Tau == best {
			marker = "  <- best"
		}
		fmt.Fprintf(w, "%.4g\t%.1f%%\t%s%s\n", s.Tau, s.AcceptRate, status, marker)
	}
	w.Flush()

	fmt.Printf("\nbest step length: %.4g (target %.1f%% acceptance)\n", best, optim.TargetAcceptance)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Target = args[0]
	cfg.Dim = dim
	cfg.Seed = seed
	cfg.Rho = rho
	cfg.NoiseStd = noiseStd
	cfg.Steps = steps
	if initState != "" {
		parsed, err := parseFloats(initState)
		if err != nil {
			return fmt.Errorf("invalid --x0: %w", err)
		}
		cfg.InitState = parsed
	}

	parsed, err := parseFloats(taus)
	if err != nil {
		return fmt.Errorf("invalid --tau: %w", err)
	}

	registry := experiment.NewRegistry()
	oracle, err := registry.GetTarget(cfg.Target, cfg)
	if err != nil {
		return err
	}

	smpCfg := sampler.Config{
		Steps:     cfg.Steps,
		StepSizes: parsed[:1],
		Seed:      cfg.Seed,
	}
	return viz.RunLive(cfg.Target, oracle, sampler.State(cfg.GetInitState()), smpCfg)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := loadResult(st, args[0])
	if err != nil {
		return err
	}

	if outPath != "" {
		return storage.ExportJSON(outPath, meta, result)
	}
	return storage.ExportJSONStdout(meta, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	chain := 0
	if len(args) > 1 {
		c, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid chain index: %w", err)
		}
		chain = c
	}

	st := storage.New(dataDir)
	states, grads, err := st.LoadChain(args[0], chain)
	if err != nil {
		return err
	}

	for k := range states {
		fields := make([]string, 0, 1+2*len(states[k]))
		fields = append(fields, strconv.Itoa(k))
		for _, v := range states[k] {
			fields = append(fields, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range grads[k] {
			fields = append(fields, strconv.FormatFloat(v, 'g', -1, 64))
		}
		fmt.Println(strings.Join(fields, ","))
	}
	return nil
}

// loadResult reassembles a saved run into a sampler.Result.
func loadResult(st *storage.Store, runID string) (*storage.RunMetadata, *sampler.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &sampler.Result{
		Chains: make([]*sampler.Chain, len(meta.StepSizes)),
		Dim:    meta.Dim,
		Steps:  meta.Steps,
	}

	for i := range meta.StepSizes {
		states, grads, err := st.LoadChain(runID, i)
		if err != nil {
			return nil, nil, err
		}
		acc := 0.0
		if i < len(meta.AcceptRates) {
			acc = meta.AcceptRates[i]
		}
		result.Chains[i] = &sampler.Chain{
			States:     states,
			Grads:      grads,
			StepSize:   meta.StepSizes[i],
			AcceptRate: acc,
			DivergedAt: -1,
		}
	}
	return meta, result, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}
