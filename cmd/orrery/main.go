package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/control"
	"github.com/san-kum/orrery/internal/display"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/loop"
	"github.com/san-kum/orrery/internal/prefs"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/viz"
)

var (
	dataDir    string
	prefsPath  string
	logLevel   string
	configFile string
	preset     string

	speed      float64
	fps        int
	frames     int
	seed       int64
	theme      string
	showLabels bool
	showOrbits bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "orrery",
		Short:         "solar system orrery for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				return nil
			}
			lvl, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logging.SetLogger(logging.NewText(os.Stderr, lvl))
			return nil
		},
		RunE: runView,
	}
	addSceneFlags(rootCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".orrery", "data directory for recorded runs")
	pf.StringVar(&prefsPath, "prefs", prefs.DefaultPath(), "preferences file")
	pf.StringVar(&logLevel, "log-level", "", "log to stderr at level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "interactive orrery in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runView,
	}
	addSceneFlags(viewCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record orbit traces",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scripted interaction (yaml)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body traces of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotBodies, "body", nil, "bodies to plot (default: all)")
	plotCmd.Flags().StringVar(&plotField, "field", "x", "trace field: angle, x or z")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate orbital periods from a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render a frame to PNG",
		Args:  cobra.NoArgs,
		RunE:  snapshot,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 1, "frames to simulate before the capture")
	snapshotCmd.Flags().IntVar(&snapWidth, "width", 1280, "image width")
	snapshotCmd.Flags().IntVar(&snapHeight, "height", 720, "image height")
	snapshotCmd.Flags().StringVar(&textureDir, "textures", "", "directory holding body textures")
	snapshotCmd.Flags().StringVar(&selectBody, "select", "", "highlight a body")
	snapshotCmd.Flags().StringVarP(&snapOut, "output", "o", "orrery.png", "output file")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "top-down orbit diagram as SVG",
		Args:  cobra.NoArgs,
		RunE:  svgDiagram,
	}
	addSceneFlags(svgCmd)
	svgCmd.Flags().IntVar(&svgFrames, "frames", 0, "frames to simulate before drawing")
	svgCmd.Flags().IntVar(&svgSize, "size", 600, "image edge length")
	svgCmd.Flags().BoolVar(&svgBraille, "braille", false, "draw the terminal view's braille dots")
	svgCmd.Flags().StringVar(&traceRun, "run", "", "plot a recorded trace instead of the diagram")
	svgCmd.Flags().StringVar(&traceBody, "body", "Earth", "body whose trace is plotted with --run")
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default: stdout)")

	dziCmd := &cobra.Command{
		Use:   "dzi [descriptor|viewer|tiles|url]",
		Short: "deep-zoom tile source",
		Args:  cobra.RangeArgs(0, 1),
		RunE:  deepZoom,
	}
	dziCmd.Flags().IntVar(&dziLevel, "level", -1, "pyramid level (default: full resolution)")
	dziCmd.Flags().IntVar(&dziCol, "col", 0, "tile column for url")
	dziCmd.Flags().IntVar(&dziRow, "row", 0, "tile row for url")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	themeCmd := &cobra.Command{
		Use:   "theme [light|dark|toggle]",
		Short: "show or change the color theme",
		Args:  cobra.RangeArgs(0, 1),
		RunE:  themeCommand,
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog [body]",
		Short: "list the bodies and their details",
		Args:  cobra.RangeArgs(0, 1),
		RunE:  showCatalog,
	}

	rootCmd.AddCommand(viewCmd, runCmd, listCmd, plotCmd, exportJSONCmd, analyzeCmd,
		snapshotCmd, svgCmd, dziCmd, presetsCmd, themeCmd, catalogCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&speed, "speed", config.DefaultSpeed, "speed multiplier")
	f.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	f.Int64Var(&seed, "seed", 0, "seed for start phases and stars (0: random)")
	f.StringVar(&theme, "theme", "", "color theme for this session (light, dark)")
	f.BoolVar(&showLabels, "labels", true, "show body labels")
	f.BoolVar(&showOrbits, "orbits", true, "show orbit paths")
}

// loadConfig layers defaults, the preset, the config file and finally any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("labels") {
		cfg.ShowLabels = showLabels
	}
	if flags.Changed("orbits") {
		cfg.ShowOrbits = showOrbits
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openPrefs returns the persistent store, or an in-memory one seeded with
// the configured theme when the session overrides it.
func openPrefs(cfg *config.Config) (*prefs.Store, error) {
	if cfg.Theme != "" {
		st, _ := prefs.Open("")
		t, err := prefs.ParseTheme(cfg.Theme)
		if err != nil {
			return nil, err
		}
		return st, st.SetTheme(t)
	}
	return prefs.Open(prefsPath)
}

// session is one built scene with the controller and loop driving it.
type session struct {
	scene *scene.Scene
	panel *display.Panel
	ctl   *control.Controller
	loop  *loop.Loop
}

func newSession(cfg *config.Config, surface display.Surface, store *prefs.Store) (*session, error) {
	sc, err := scene.Build(bodies.List(), surface, cfg.SceneOptions()...)
	if err != nil {
		return nil, err
	}

	state := cfg.State()
	cam := camera.New()
	controls := camera.NewControls(cam)
	cfg.ApplyCamera(cam, controls)
	vp := surface.Viewport()
	cam.SetAspect(vp.Width, vp.Height)

	panel := display.NewPanel()
	var opts []control.Option
	if store != nil {
		opts = append(opts, control.WithPrefs(store))
	}
	ctl := control.New(state, sc, controls, panel, opts...)

	return &session{
		scene: sc,
		panel: panel,
		ctl:   ctl,
		loop:  loop.New(sc, state, controls, surface, cfg.Clock()),
	}, nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openPrefs(cfg)
	if err != nil {
		return err
	}

	term := viz.NewTerminal(80, 21, viz.GetTheme(store.Theme()))
	s, err := newSession(cfg, term, store)
	if err != nil {
		return err
	}
	defer s.ctl.Teardown()

	app := viz.NewApp(s.ctl, s.loop, term, s.panel, cfg.FPS)
	app.SetRebuild(func() (*scene.Scene, error) {
		// new start phases even under --seed
		opts := append(cfg.SceneOptions(), scene.WithSeed(time.Now().UnixNano()))
		return scene.Build(bodies.List(), term, opts...)
	})
	return viz.Run(app)
}

func themeCommand(cmd *cobra.Command, args []string) error {
	store, err := prefs.Open(prefsPath)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Println(store.Theme())
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "toggle":
		if _, err := store.Toggle(); err != nil {
			return err
		}
	default:
		t, err := prefs.ParseTheme(args[0])
		if err != nil {
			return err
		}
		if err := store.SetTheme(t); err != nil {
			return err
		}
	}
	fmt.Println(store.Theme())
	return nil
}

func showCatalog(cmd *cobra.Command, args []string) error {
	catalog := bodies.List()
	if len(args) == 1 {
		for _, d := range catalog {
			if strings.EqualFold(d.Name, args[0]) {
				styles := viz.NewStyles(viz.ThemeDark)
				fmt.Println(styles.InfoBox(d.Name, d.Info))
				return nil
			}
		}
		return fmt.Errorf("unknown body: %s (available: %s)", args[0], strings.Join(bodies.Names(catalog), ", "))
	}

	w := newTable()
	fmt.Fprintln(w, "NAME\tRADIUS\tDISTANCE\tSPEED\tCOLOR\tTEXTURE")
	for _, d := range catalog {
		texture := d.Texture
		if texture == "" {
			texture = "-"
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.0f\t%.4f\t#%06x\t%s\n", d.Name, d.Radius, d.Distance, d.Speed, d.Color, texture)
	}
	return w.Flush()
}
