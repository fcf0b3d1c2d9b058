package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/glatard/fuzzy/internal/analysis"
	"github.com/glatard/fuzzy/internal/config"
	"github.com/glatard/fuzzy/internal/figure"
	"github.com/glatard/fuzzy/internal/live"
	"github.com/glatard/fuzzy/internal/logging"
	"github.com/glatard/fuzzy/internal/mca"
	"github.com/glatard/fuzzy/internal/recurrence"
	"github.com/glatard/fuzzy/internal/samples"
	"github.com/glatard/fuzzy/internal/storage"
)

var (
	dataDir  string
	logLevel string
	seed0    float64
	seed1    float64
	steps    int
	runs     int
	seed     int64
	digits   int
	svgOut   string
	pngOut   string
	title    string
	// Config file and preset
	configFile string
	preset     string
	// Frame rate for live view
	frameRate int

	logger *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fuzzy",
		Short: "numerical stability lab for Muller's recurrence",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New(logLevel, os.Stderr)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	referenceCmd := &cobra.Command{
		Use:   "reference",
		Short: "print the exact rational trajectory",
		RunE:  printReference,
	}
	referenceCmd.Flags().Float64Var(&seed0, "seed0", recurrence.DefaultSeed0, "seed u(0)")
	referenceCmd.Flags().Float64Var(&seed1, "seed1", recurrence.DefaultSeed1, "seed u(1)")
	referenceCmd.Flags().IntVar(&steps, "steps", recurrence.DefaultSteps, "number of values")
	referenceCmd.Flags().IntVar(&digits, "digits", config.DefaultDigits, "decimal digits to print")

	generateCmd := &cobra.Command{
		Use:   "generate [out]",
		Short: "generate a perturbed-run matrix via MCA noise",
		Args:  cobra.ExactArgs(1),
		RunE:  generateRuns,
	}
	generateCmd.Flags().Float64Var(&seed0, "seed0", recurrence.DefaultSeed0, "seed u(0)")
	generateCmd.Flags().Float64Var(&seed1, "seed1", recurrence.DefaultSeed1, "seed u(1)")
	generateCmd.Flags().IntVar(&steps, "steps", recurrence.DefaultSteps, "trajectory length")
	generateCmd.Flags().IntVar(&runs, "runs", config.DefaultRuns, "number of independent runs")
	generateCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "base noise seed")
	generateCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	generateCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [matrix]",
		Short: "summarize perturbed runs against the exact reference",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeMatrix,
	}
	analyzeCmd.Flags().Float64Var(&seed0, "seed0", recurrence.DefaultSeed0, "seed u(0)")
	analyzeCmd.Flags().Float64Var(&seed1, "seed1", recurrence.DefaultSeed1, "seed u(1)")
	analyzeCmd.Flags().StringVar(&svgOut, "svg", config.DefaultSVG, "vector output file")
	analyzeCmd.Flags().StringVar(&pngOut, "png", config.DefaultPNG, "raster output file")
	analyzeCmd.Flags().StringVar(&title, "title", "", "figure title")
	analyzeCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	analyzeCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived analysis runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "terminal plot of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run summary to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run summary to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "live float64-vs-exact divergence view",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&seed0, "seed0", recurrence.DefaultSeed0, "seed u(0)")
	liveCmd.Flags().Float64Var(&seed1, "seed1", recurrence.DefaultSeed1, "seed u(1)")
	liveCmd.Flags().IntVar(&steps, "steps", recurrence.DefaultSteps, "iterations")
	liveCmd.Flags().IntVar(&frameRate, "fps", 4, "iterations per second")

	rootCmd.AddCommand(referenceCmd, generateCmd, analyzeCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves precedence: flags > config file > preset > defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	if cmd.Flags().Changed("seed0") {
		cfg.Seed0 = seed0
	}
	if cmd.Flags().Changed("seed1") {
		cfg.Seed1 = seed1
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("runs") {
		cfg.Runs = runs
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("svg") {
		cfg.Plot.SVG = svgOut
	}
	if cmd.Flags().Changed("png") {
		cfg.Plot.PNG = pngOut
	}
	if cmd.Flags().Changed("title") {
		cfg.Plot.Title = title
	}

	return cfg, nil
}

func printReference(cmd *cobra.Command, args []string) error {
	ref, err := recurrence.Reference(new(big.Rat).SetFloat64(seed0), new(big.Rat).SetFloat64(seed1), steps)
	if err != nil {
		return err
	}

	float := recurrence.Float(seed0, seed1, steps)
	exact := ref.Decimal(digits)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tEXACT\tFLOAT64")
	for k := range exact {
		fmt.Fprintf(w, "%d\t%s\t%.17g\n", k, exact[k], float[k])
	}
	return w.Flush()
}

func generateRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ens := mca.Ensemble{
		Seed0:     cfg.Seed0,
		Seed1:     cfg.Seed1,
		Steps:     cfg.Steps,
		Runs:      cfg.Runs,
		SeedStart: cfg.Seed,
	}

	start := time.Now()
	table, err := ens.Collect(context.Background())
	if err != nil {
		return err
	}

	out := args[0]
	if err := samples.Write(out, table); err != nil {
		return err
	}

	logger.Info("generated perturbed runs",
		"out", out,
		"steps", table.Steps(),
		"runs", table.Runs(),
		"elapsed", time.Since(start))
	return nil
}

func analyzeMatrix(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source := args[0]
	table, err := samples.Read(source)
	if err != nil {
		return err
	}
	logger.Debug("loaded samples", "source", source, "steps", table.Steps(), "runs", table.Runs())

	ref, err := recurrence.Reference(new(big.Rat).SetFloat64(cfg.Seed0), new(big.Rat).SetFloat64(cfg.Seed1), table.Steps())
	if err != nil {
		return err
	}

	rep, err := analysis.Compare(ref, table)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Source: source,
		Seed0:  cfg.Seed0,
		Seed1:  cfg.Seed1,
	}, rep)
	if err != nil {
		return err
	}

	p, err := figure.Comparison(rep, cfg.Plot.Title)
	if err != nil {
		return err
	}
	width := vg.Length(cfg.Plot.Width) * vg.Inch
	height := vg.Length(cfg.Plot.Height) * vg.Inch
	if err := figure.Save(p, width, height, cfg.Plot.SVG, cfg.Plot.PNG); err != nil {
		return err
	}

	logger.Info("analysis complete",
		"run_id", runID,
		"svg", cfg.Plot.SVG,
		"png", cfg.Plot.PNG)

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, runs: %d\n", rep.Steps, rep.Runs)
	if rep.Divergence >= 0 {
		fmt.Printf("mean leaves the exact trajectory at index %d\n", rep.Divergence)
	} else {
		fmt.Println("mean tracks the exact trajectory over the full range")
	}
	fmt.Println("\nmetrics:")
	for name, val := range rep.Metrics() {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runsMeta, err := st.List()
	if err != nil {
		return err
	}

	if len(runsMeta) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSOURCE\tSTEPS\tRUNS\tDIVERGES AT")

	for _, run := range runsMeta {
		div := "-"
		if d, ok := run.Metrics["divergence_index"]; ok && d >= 0 {
			div = strconv.Itoa(int(d))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Source,
			run.Steps,
			run.Runs,
			div,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	rep, err := st.LoadSummary(runID)
	if err != nil {
		return err
	}
	if rep.Steps == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("samples: %d, runs: %d\n\n", rep.Steps, rep.Runs)

	graph := asciigraph.PlotMany(
		[][]float64{rep.Reference, rep.Means()},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("u(k): exact (blue) vs empirical mean (red)"),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
	)
	fmt.Println(graph)
	fmt.Println()

	digitsGraph := asciigraph.Plot(rep.Digits,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("significant decimal digits"),
	)
	fmt.Println(digitsGraph)

	if rep.Divergence >= 0 {
		fmt.Printf("\ndivergence at index %d\n", rep.Divergence)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	rep, err := st.LoadSummary(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"index", "reference", "mean", "upper", "lower", "digits"}); err != nil {
		return err
	}
	for i := 0; i < rep.Steps; i++ {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(rep.Reference[i], 'f', 6, 64),
			strconv.FormatFloat(rep.Bands[i].Mean, 'f', 6, 64),
			strconv.FormatFloat(rep.Bands[i].Upper, 'f', 6, 64),
			strconv.FormatFloat(rep.Bands[i].Lower, 'f', 6, 64),
			strconv.FormatFloat(rep.Digits[i], 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

type exportData struct {
	Meta       *storage.RunMetadata `json:"meta"`
	Reference  []float64            `json:"reference"`
	Means      []float64            `json:"means"`
	Upper      []float64            `json:"upper"`
	Lower      []float64            `json:"lower"`
	Digits     []float64            `json:"digits"`
	Divergence int                  `json:"divergence"`
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rep, err := st.LoadSummary(runID)
	if err != nil {
		return err
	}

	upper := make([]float64, rep.Steps)
	lower := make([]float64, rep.Steps)
	for i, b := range rep.Bands {
		upper[i] = b.Upper
		lower[i] = b.Lower
	}

	data := exportData{
		Meta:       meta,
		Reference:  rep.Reference,
		Means:      rep.Means(),
		Upper:      upper,
		Lower:      lower,
		Digits:     rep.Digits,
		Divergence: rep.Divergence,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func runLive(cmd *cobra.Command, args []string) error {
	m := live.NewModel(seed0, seed1, steps, frameRate)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
