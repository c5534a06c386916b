package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/polyorbit/internal/analysis"
	"github.com/san-kum/polyorbit/internal/automation"
	"github.com/san-kum/polyorbit/internal/config"
	"github.com/san-kum/polyorbit/internal/export"
	"github.com/san-kum/polyorbit/internal/generate"
	"github.com/san-kum/polyorbit/internal/metrics"
	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/scale"
	"github.com/san-kum/polyorbit/internal/session"
	"github.com/san-kum/polyorbit/internal/settings"
	"github.com/san-kum/polyorbit/internal/sim"
	"github.com/san-kum/polyorbit/internal/storage"
	"github.com/san-kum/polyorbit/internal/tui"
	"github.com/san-kum/polyorbit/internal/viz"
)

var (
	ticks      int
	dt         time.Duration
	seed       int64
	speed      float64
	preset     string
	generated  bool
	saveRun    bool
	runName    string
	exportPath string
	live       bool
	liveEvery  int
	ensemble   int
	window     int
	outPath    string
	snapTicks  int
	snapPath   string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	sweepTicks int
	noSave     bool
	scaleName  string
	elliptical bool
)

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [settings]",
		Short: "run a system headless and count crossings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulate,
	}
	cmd.Flags().IntVar(&ticks, "ticks", 3600, "number of ticks to run")
	cmd.Flags().DurationVar(&dt, "dt", sim.DefaultDt, "simulated time per tick")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the config seed or the clock)")
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "speed multiplier override")
	cmd.Flags().StringVar(&preset, "preset", "", "generate the system from a preset instead of a settings file")
	cmd.Flags().BoolVar(&generated, "generate", false, "generate the system from the configured generator")
	cmd.Flags().BoolVar(&saveRun, "save", false, "store the run in the data directory")
	cmd.Flags().StringVar(&runName, "name", "", "run name")
	cmd.Flags().StringVar(&exportPath, "export", "", "write the result as json")
	cmd.Flags().BoolVar(&live, "live", false, "draw the system in the terminal while running")
	cmd.Flags().IntVar(&liveEvery, "every", 2, "draw every n-th tick when live")
	cmd.Flags().IntVar(&ensemble, "ensemble", 0, "run n generated systems in parallel")
	return cmd
}

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [settings]",
		Short: "draw a system to an svg file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	cmd.Flags().IntVar(&snapTicks, "ticks", 0, "ticks to advance before drawing")
	cmd.Flags().StringVarP(&snapPath, "output", "o", "polyorbit.svg", "output file")
	return cmd
}

func scenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "run the steps of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "ignore save_as in the scenario")
	return cmd
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [settings]",
		Short: "run a system at a range of speed multipliers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	cmd.Flags().Float64Var(&sweepMin, "min", 0.5, "lowest speed multiplier")
	cmd.Flags().Float64Var(&sweepMax, "max", 4, "highest speed multiplier")
	cmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of speeds")
	cmd.Flags().IntVar(&sweepTicks, "ticks", 3600, "ticks per run")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  runList,
	}
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot crossings over time for a stored run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlot,
	}
	cmd.Flags().IntVar(&window, "window", 60, "ticks per histogram bucket")
	return cmd
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "write a random settings file",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	cmd.Flags().StringVar(&preset, "preset", "", "generator preset")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the config seed or the clock)")
	cmd.Flags().StringVar(&scaleName, "scale", "", "scale override")
	cmd.Flags().BoolVar(&elliptical, "elliptical", false, "generate elliptical orbits")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list generator presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPLANETS\tMOONS\tSPEED\tELLIPTICAL\tSCALE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d-%d\t%d-%d\t%.1f\t%v\t%s\n",
					name, p.MinPlanets, p.MaxPlanets, p.MinMoons, p.MaxMoons,
					p.SpeedMultiplier, p.Elliptical, p.Scale)
			}
			w.Flush()
		},
	}
}

func scalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scales",
		Short: "list the available scales",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCALE\tLOW\tHIGH")
			for _, name := range scale.Names() {
				lo, hi, err := scale.Range(name)
				if err != nil {
					return err
				}
				mark := ""
				if name == scale.Default {
					mark = " (default)"
				}
				fmt.Fprintf(w, "%s%s\t%.0f Hz\t%.0f Hz\n", name, mark, lo, hi)
			}
			return w.Flush()
		},
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [settings]",
		Short: "show the bodies described by a settings file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspect,
	}
}

func resolveSeed(cmd *cobra.Command) int64 {
	if cmd.Flags().Changed("seed") && seed != 0 {
		return seed
	}
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

// generatorParams picks the preset named by --preset or the configured
// generator.
func generatorParams() (generate.Params, error) {
	if preset == "" {
		return cfg.Generator, nil
	}
	p := config.GetPreset(preset)
	if p == nil {
		return generate.Params{}, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
	}
	return *p, nil
}

func headless(s int64) *session.Session {
	c := *cfg
	return session.New(session.Options{
		Config:  &c,
		Backend: session.Discard,
		Logger:  logger,
		Rand:    rand.New(rand.NewSource(s)),
	})
}

func newMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewCrossingRate(),
		metrics.NewPolyphony(),
		metrics.NewBrightness(),
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := resolveSeed(cmd)
	simCfg := sim.Config{Ticks: ticks, Dt: dt}

	if ensemble > 0 {
		return runEnsemble(ctx, cmd, s, simCfg)
	}

	source := settingsPath(args)
	var doc *settings.Document
	if preset != "" || generated {
		params, err := generatorParams()
		if err != nil {
			return err
		}
		doc, err = generate.Document(params, rand.New(rand.NewSource(s)))
		if err != nil {
			return err
		}
		source = "generated"
		if preset != "" {
			source = "preset:" + preset
		}
	} else {
		var err error
		doc, err = settings.Load(source)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
	}

	sess := headless(s)
	defer sess.Close()
	if err := sess.LoadDocument(doc); err != nil {
		return err
	}
	if cmd.Flags().Changed("speed") {
		sess.SetSpeed(speed)
	}

	runner := sim.New()
	for _, m := range newMetrics() {
		runner.AddMetric(m)
	}

	if live {
		view := orbit.Viewport{Center: sess.Center(), Zoom: 1}
		lr := tui.NewLiveRenderer(os.Stdout, 100, 40, view,
			float64(cfg.Window.Width), float64(cfg.Window.Height), viz.GetTheme(cfg.Window.Theme))
		lr.Every = max(liveEvery, 1)
		lr.Pace = dt * time.Duration(lr.Every)
		lr.Start()
		defer lr.Stop()
		runner.AddObserver(lr)
	}

	logger.Info("running simulation", "source", source, "bodies", sess.System().Len(), "ticks", ticks, "seed", s)
	start := time.Now()
	result, err := runner.Run(ctx, sess, simCfg)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("simulation failed: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		logger.Warn("simulation interrupted", "ticks", result.Ticks)
	}
	elapsed := time.Since(start)

	printResult(sess.System(), sess.Speed(), result, elapsed)

	if saveRun {
		store := storage.New(cfg.DataDir)
		if err := store.Init(); err != nil {
			return err
		}
		name := runName
		if name == "" {
			name = "run"
		}
		id, err := store.Save(storage.RunMetadata{
			Name:     name,
			Settings: source,
			Seed:     s,
			Dt:       dt.Seconds(),
			Speed:    sess.Speed(),
			Bodies:   sess.System().Len(),
		}, result)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("\nsaved: %s\n", id)
	}

	if exportPath != "" {
		if err := storage.ExportJSON(exportPath, runName, source, result); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		fmt.Printf("exported: %s\n", exportPath)
	}

	return nil
}

func runEnsemble(ctx context.Context, cmd *cobra.Command, s int64, simCfg sim.Config) error {
	params, err := generatorParams()
	if err != nil {
		return err
	}
	docs := make([]*settings.Document, ensemble)
	for i := range docs {
		docs[i], err = generate.Document(params, rand.New(rand.NewSource(s+int64(i))))
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("speed") {
			docs[i].Global.SpeedMultiplier = speed
		}
	}

	factory := func() *session.Session { return headless(s) }

	logger.Info("running ensemble", "systems", ensemble, "ticks", ticks, "seed", s)
	start := time.Now()
	results, err := sim.NewEnsemble(factory, newMetrics).Run(ctx, docs, simCfg)
	if err != nil {
		return fmt.Errorf("ensemble failed: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tBODIES\tCROSSINGS\tRATE\tPOLYPHONY\tBRIGHTNESS")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.3f\t%.0f\t%.1f\n",
			s+int64(i), docs[i].BodyCount(), len(r.Crossings),
			r.Metrics["crossings_per_1k"], r.Metrics["polyphony"], r.Metrics["brightness"])
	}
	w.Flush()
	fmt.Printf("\n%d systems in %v\n", len(results), time.Since(start).Round(time.Millisecond))
	return nil
}

func printResult(sys *orbit.System, speed float64, result *sim.Result, elapsed time.Duration) {
	fmt.Printf("\n%d ticks, %d crossings in %v\n\n", result.Ticks, len(result.Crossings), elapsed.Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tKIND\tFREQ\tPERIOD\tCROSSINGS\tEXPECTED")
	for i := 0; i < sys.Len(); i++ {
		b := sys.Body(i)
		if b.Kind() == orbit.Moon {
			fmt.Fprintf(w, "%d\t%s\t%.0f Hz\t-\t%d\t-\n", b.ID, b.Kind(), b.Frequency, result.Counts[b.ID])
			continue
		}
		period := analysis.PlanetPeriod(b.Radius, speed)
		fmt.Fprintf(w, "%d\t%s\t%.0f Hz\t%.1f\t%d\t%.1f\n",
			b.ID, b.Kind(), b.Frequency, period, result.Counts[b.ID], 2*float64(result.Ticks)/period)
	}
	w.Flush()

	if len(result.Metrics) == 0 {
		return
	}
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println()
	for _, name := range names {
		fmt.Printf("  %-14s %.4f\n", name, result.Metrics[name])
	}
}

func runList(cmd *cobra.Command, args []string) error {
	store := storage.New(cfg.DataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSETTINGS\tSEED\tTICKS\tBODIES\tCROSSINGS\tTIMESTAMP")
	for _, run := range runs {
		total := 0
		for _, n := range run.Counts {
			total += n
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			run.ID, run.Settings, run.Seed, run.Ticks, run.Bodies, total,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	store := storage.New(cfg.DataDir)

	var runID string
	if len(args) > 0 {
		runID = args[0]
	} else {
		runs, err := store.List()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return errors.New("no stored runs")
		}
		runID = runs[len(runs)-1].ID
	}

	meta, err := store.Load(runID)
	if err != nil {
		return fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	crossings, err := store.LoadCrossings(runID)
	if err != nil {
		return fmt.Errorf("failed to load crossings: %w", err)
	}

	data := storage.Histogram(crossings, meta.Ticks, window)
	if len(data) < 2 {
		return fmt.Errorf("run %s is too short to plot with a window of %d ticks", runID, window)
	}

	fmt.Printf("run: %s  settings: %s  ticks: %d\n\n", meta.ID, meta.Settings, meta.Ticks)
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("crossings per %d ticks", window))))

	if period, ok := analysis.DominantPeriod(data); ok {
		fmt.Printf("\ndominant period: %.1f ticks\n", period*float64(window))
	}

	byBody := make(map[orbit.BodyID][]int)
	for _, c := range crossings {
		byBody[c.Body] = append(byBody[c.Body], c.Tick)
	}
	ids := make([]orbit.BodyID, 0, len(meta.Counts))
	for id := range meta.Counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tCROSSINGS\tMEAN GAP\tJITTER")
	for _, id := range ids {
		st := analysis.Intervals(byBody[id])
		fmt.Fprintf(w, "%d\t%d\t%.1f\t%.2f\n", id, meta.Counts[id], st.Mean, st.StdDev)
	}
	return w.Flush()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	params, err := generatorParams()
	if err != nil {
		return err
	}
	if scaleName != "" {
		name, ok := scale.Lookup(scaleName)
		if !ok {
			return fmt.Errorf("unknown scale: %s", scaleName)
		}
		params.Scale = name
	}
	if cmd.Flags().Changed("elliptical") {
		params.Elliptical = elliptical
	}

	s := resolveSeed(cmd)
	doc, err := generate.Document(params, rand.New(rand.NewSource(s)))
	if err != nil {
		return err
	}

	if outPath == "" {
		return settings.Encode(os.Stdout, doc)
	}
	if err := settings.Save(outPath, doc); err != nil {
		return err
	}
	logger.Info("wrote settings", "path", outPath, "planets", len(doc.Planets), "bodies", doc.BodyCount(), "seed", s)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := settingsPath(args)
	doc, err := settings.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	sys, err := settings.Build(doc)
	if err != nil {
		return err
	}

	g := doc.Global
	scaleLabel := g.SelectedScale
	if scaleLabel == "" {
		scaleLabel = scale.Default
	}
	header := viz.HeaderStyle.Render("polyorbit  " + path)
	fmt.Println(header)
	fmt.Printf("planets %d  bodies %d  speed %.2f  sustain %.2fs  elliptical %v  scale %s\n\n",
		len(doc.Planets), sys.Len(), g.SpeedMultiplier, g.SustainRelease(), g.EllipticalOrbits, scaleLabel)

	th := viz.GetTheme(cfg.Window.Theme)
	planetStyle := lipgloss.NewStyle().Foreground(viz.Lip(th.PlanetOrbit)).Padding(0, 1)
	moonStyle := lipgloss.NewStyle().Foreground(viz.Lip(th.MoonOrbit)).Padding(0, 1)
	headStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(viz.Subtle).
		Headers("ID", "KIND", "PARENT", "SIZE", "DIST", "FREQ", "ECC", "ANGLE", "SOUND")

	kinds := make([]orbit.Kind, 0, sys.Len())
	for i := 0; i < sys.Len(); i++ {
		b := sys.Body(i)
		parent := "-"
		if b.Kind() == orbit.Moon {
			parent = fmt.Sprintf("%d", sys.Body(b.Parent).ID)
		}
		sound := b.SoundFile
		if sound == "" {
			sound = "sine"
		}
		t.Row(
			fmt.Sprintf("%d", b.ID),
			b.Kind().String(),
			parent,
			fmt.Sprintf("%.0f", b.Size),
			fmt.Sprintf("%.0f", b.Radius),
			fmt.Sprintf("%.0f Hz", b.Frequency),
			fmt.Sprintf("%.2f", b.Eccentricity),
			fmt.Sprintf("%.2f", b.OrbitAngle),
			sound,
		)
		kinds = append(kinds, b.Kind())
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow || row >= len(kinds) {
			return headStyle
		}
		if kinds[row] == orbit.Moon {
			return moonStyle
		}
		return planetStyle
	})

	fmt.Println(t.String())
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	path := settingsPath(args)
	doc, err := settings.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	sess := headless(resolveSeed(cmd))
	defer sess.Close()
	if err := sess.LoadDocument(doc); err != nil {
		return err
	}
	if snapTicks > 0 {
		if _, err := sim.New().Run(cmd.Context(), sess, sim.Config{Ticks: snapTicks}); err != nil {
			return err
		}
	}

	th := viz.GetTheme(cfg.Window.Theme)
	out := export.NewSVG(cfg.Window.Width, cfg.Window.Height, th.Background)
	viz.DrawScene(out, viz.Scene{
		System:   sess.System(),
		View:     sess.Viewport(),
		Width:    float64(cfg.Window.Width),
		Height:   float64(cfg.Window.Height),
		Theme:    th,
		Selected: -1,
	})
	if err := out.Save(snapPath); err != nil {
		return err
	}
	logger.Info("wrote snapshot", "path", snapPath, "bodies", sess.System().Len(), "ticks", snapTicks)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	var store *storage.Store
	if !noSave {
		store = storage.New(cfg.DataDir)
	}
	results, err := automation.NewRunner(cfg, store, logger).Run(ctx, sc)

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSOURCE\tSEED\tTICKS\tCROSSINGS\tPOLYPHONY\tRUN")
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%.0f\t%s\n",
			r.Step, r.Source, r.Seed, r.Result.Ticks, len(r.Result.Crossings), r.Result.Metrics["polyphony"], id)
	}
	w.Flush()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path := settingsPath(args)
	doc, err := settings.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	results, err := automation.NewRunner(cfg, nil, logger).Sweep(ctx, doc, automation.Sweep{
		MinSpeed: sweepMin,
		MaxSpeed: sweepMax,
		Steps:    sweepSteps,
		Ticks:    sweepTicks,
	})
	if err != nil {
		return err
	}

	counts := make([]float64, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPEED\tCROSSINGS\tRATE\tPOLYPHONY")
	for i, r := range results {
		counts[i] = float64(r.Crossings)
		fmt.Fprintf(w, "%.2f\t%d\t%.2f\t%.0f\n", r.Speed, r.Crossings, r.Metrics["crossings_per_1k"], r.Metrics["polyphony"])
	}
	w.Flush()

	if len(counts) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(counts,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("crossings in %d ticks by speed %.2f..%.2f", sweepTicks, sweepMin, sweepMax))))
	}
	return nil
}
