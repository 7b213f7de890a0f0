package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/phonsim/internal/comm"
	"github.com/san-kum/phonsim/internal/compute"
	"github.com/san-kum/phonsim/internal/config"
	"github.com/san-kum/phonsim/internal/export"
	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/metrics"
	"github.com/san-kum/phonsim/internal/phonon"
	"github.com/san-kum/phonsim/internal/spectrum"
	"github.com/san-kum/phonsim/internal/storage"
)

// hartreeToInvCm converts angular frequencies in atomic units to cm⁻¹.
const hartreeToInvCm = 219474.6313705

var (
	logger  *zap.Logger
	verbose bool
	dataDir string

	configFile string
	preset     string
	sup        []int
	kfold      []int
	dr         float64
	ecut       float64
	ranks      int
	threaded   bool
	drag       bool

	pathPoints int
	svgFile    string
	outFile    string
)

func main() {
	_ = godotenv.Load(".env")

	defaultData := os.Getenv("PHONSIM_DATA")
	if defaultData == "" {
		defaultData = ".phonsim"
	}

	rootCmd := &cobra.Command{
		Use:           "phonsim",
		Short:         "finite-difference phonons in a supercell",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", defaultData, "data directory (env PHONSIM_DATA)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [crystal]",
		Short: "compute the dynamical matrix of a crystal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPhonon,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "crystal preset (default: chain, else first listed)")
	runCmd.Flags().IntSliceVar(&sup, "sup", nil, "supercell counts, e.g. 2,1,1")
	runCmd.Flags().IntSliceVar(&kfold, "kfold", nil, "unit-cell k-point folding, e.g. 2,1,1")
	runCmd.Flags().Float64Var(&dr, "dr", config.DefaultDr, "displacement in bohrs")
	runCmd.Flags().Float64Var(&ecut, "ecut", config.DefaultEcut, "plane-wave cutoff in hartrees")
	runCmd.Flags().IntVar(&ranks, "ranks", config.DefaultRanks, "number of in-process ranks")
	runCmd.Flags().BoolVar(&threaded, "threaded", true, "threaded scatter kernels")
	runCmd.Flags().BoolVar(&drag, "drag", false, "drag wavefunctions with ionic steps")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [crystal]",
		Short: "list crystals or the presets of one crystal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println("crystals:")
				for _, c := range config.ListCrystals() {
					fmt.Printf("  %s\n", c)
				}
				return nil
			}
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for crystal: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	bandsCmd := &cobra.Command{
		Use:   "bands [run_id]",
		Short: "plot phonon branches along Γ-X-M-R-Γ",
		Args:  cobra.ExactArgs(1),
		RunE:  plotBands,
	}
	bandsCmd.Flags().IntVar(&pathPoints, "points", 20, "samples per path segment")
	bandsCmd.Flags().StringVar(&svgFile, "svg", "", "also write the branches as SVG")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export the dynamical matrix to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	rootCmd.AddCommand(runCmd, listCmd, presetsCmd, bandsCmd, exportJSONCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("phonsim failed", zap.Error(err), zap.String("kind", string(phonon.KindOf(err))))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) == 1 {
		crystal := args[0]
		name := preset
		if name == "" {
			names := config.ListPresets(crystal)
			if len(names) == 0 {
				return nil, fmt.Errorf("unknown crystal: %s (available: %v)", crystal, config.ListCrystals())
			}
			name = names[0]
			if slices.Contains(names, "chain") {
				name = "chain"
			}
		}
		p := config.GetPreset(crystal, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(crystal))
		}
		cfg = p.Clone()
	}

	// Config file overrides preset
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// CLI flags override both
	if cmd.Flags().Changed("sup") {
		if len(sup) != 3 {
			return nil, fmt.Errorf("--sup needs three values, got %v", sup)
		}
		cfg.Phonon.Sup = [3]int{sup[0], sup[1], sup[2]}
	}
	if cmd.Flags().Changed("kfold") {
		if len(kfold) != 3 {
			return nil, fmt.Errorf("--kfold needs three values, got %v", kfold)
		}
		cfg.Electronic.KFold = [3]int{kfold[0], kfold[1], kfold[2]}
	}
	if cmd.Flags().Changed("dr") {
		cfg.Phonon.Dr = dr
	}
	if cmd.Flags().Changed("ecut") {
		cfg.Electronic.Ecut = ecut
	}
	if cmd.Flags().Changed("ranks") {
		cfg.Parallel.Ranks = ranks
	}
	if cmd.Flags().Changed("threaded") {
		cfg.Parallel.Threaded = threaded
	}
	if cmd.Flags().Changed("drag") {
		cfg.Electronic.Drag = drag
	}
	return cfg, cfg.Validate()
}

func runPhonon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	compute.Select(cfg.Parallel.Threaded)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger.Info("starting phonon run",
		zap.String("crystal", cfg.Name),
		zap.Ints("sup", cfg.Phonon.Sup[:]),
		zap.Ints("kfold", cfg.Electronic.KFold[:]),
		zap.Int("ranks", cfg.Parallel.Ranks),
		zap.String("backend", compute.GetBackend().Name()))
	start := time.Now()

	var matrix *phonon.Matrix
	ms := metrics.Default()
	err = comm.Run(cmd.Context(), cfg.Parallel.Ranks, func(ctx context.Context, c comm.Comm) error {
		p, err := cfg.NewPhonon()
		if err != nil {
			return err
		}
		p.Comm = c
		p.Log = logger.With(zap.Int("rank", c.Rank()))

		var observers []metrics.Metric
		if comm.IsHead(c) {
			observers = ms
		}
		if err := p.Setup(); err != nil {
			return err
		}
		res, err := p.Run(observers...)
		if err != nil {
			return err
		}
		m, err := p.Assemble(res, observers...)
		if err != nil {
			return err
		}
		if comm.IsHead(c) {
			matrix = m
		}
		return nil
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, matrix, metrics.Values(ms), elapsed)
	if err != nil {
		return &phonon.Error{Kind: phonon.KindIO, Op: "save run", Err: err}
	}
	logger.Info("wrote phonon outputs", zap.String("run", runID))

	gamma, err := spectrum.AtQ(matrix.Cells, matrix.Blocks, lattice.Vec3{})
	if err != nil {
		return err
	}
	freqs, err := spectrum.Frequencies(gamma)
	if err != nil {
		return err
	}
	fmt.Println(renderSummary(runID, cfg, matrix, metrics.Values(ms), freqs, elapsed))
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
	fmt.Fprintln(w, "ID\tCRYSTAL\tTIME\tSUP\tMODES\tCELLS\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%dx%d\t%d\t%d\t%.2e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Sup[0], run.Sup[1], run.Sup[2],
			len(run.Modes),
			run.NCells,
			run.Drift,
		)
	}

	return w.Flush()
}

func plotBands(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	m, meta, err := st.LoadMatrix(args[0])
	if err != nil {
		return err
	}
	if pathPoints <= 0 {
		return errors.New("--points must be positive")
	}

	vertices := []lattice.Vec3{
		{0, 0, 0}, {0.5, 0, 0}, {0.5, 0.5, 0}, {0.5, 0.5, 0.5}, {0, 0, 0},
	}
	path := spectrum.Path(vertices, pathPoints)
	branches, err := spectrum.Bands(m.Cells, m.Blocks, path)
	if err != nil {
		return err
	}
	for _, b := range branches {
		for i := range b {
			b[i] *= hartreeToInvCm
		}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("crystal: %s\n", meta.Name)
	fmt.Printf("branches: %d\n\n", len(branches))

	graph := asciigraph.PlotMany(branches,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("ω [cm⁻¹] along Γ-X-M-R-Γ"),
	)
	fmt.Println(graph)

	if svgFile != "" {
		ticks := make([]int, len(vertices))
		for i := range ticks {
			ticks[i] = i * pathPoints
		}
		f, err := os.Create(svgFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.BandsSVG(f, branches, ticks, 800, 400); err != nil {
			return err
		}
		fmt.Printf("\nsvg written to %s\n", svgFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	m, meta, err := st.LoadMatrix(args[0])
	if err != nil {
		return err
	}
	if outFile != "" {
		return storage.ExportJSON(outFile, meta, m)
	}
	return storage.ExportJSONStdout(meta, m)
}
