package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/automation"
	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/display"
	"github.com/san-kum/orrery/internal/loop"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/storage"
)

var (
	scenarioFile string
	noSave       bool
	plotBodies   []string
	plotField    string
	outPath      string
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	var scenario *automation.Scenario
	if scenarioFile != "" {
		var err error
		scenario, err = automation.LoadScenario(scenarioFile)
		if err != nil {
			return err
		}
		if scenario.Preset != "" && preset == "" {
			preset = scenario.Preset
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n := cfg.Frames
	if scenario != nil && scenario.Frames > 0 && !cmd.Flags().Changed("frames") {
		n = scenario.Frames
	}

	surface := display.NewHeadless(800, 600)
	s, err := newSession(cfg, surface, nil)
	if err != nil {
		return err
	}
	defer s.ctl.Teardown()

	if scenario != nil {
		automation.Bind(scenario, s.loop, s.ctl, surface.Viewport)
	}

	trace := &storage.Trace{}
	set := metrics.Default(s.scene)
	var speeds storage.SpeedLog
	trace.Record(0, s.scene)
	set.Observe(0, s.scene)
	s.loop.AfterFrame(func(frame int) {
		trace.Record(frame, s.scene)
		set.Observe(frame, s.scene)
		speeds.Observe(s.ctl.State().Speed)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d frames at %sx...\n", n, formatFloat(cfg.Speed))
	start := time.Now()
	if err := s.loop.Run(ctx, loop.Fixed(n)); err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Println("interrupted")
	}
	elapsed := time.Since(start)

	snap := set.Snapshot()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d\n", s.loop.Frame())

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := &storage.RunMetadata{
			Preset:  preset,
			Seed:    cfg.Seed,
			FrameDt: cfg.FrameDt,
			Speed:   cfg.Speed,
			Metrics: snap,
		}
		if scenario != nil {
			meta.Scenario = scenario.Name
		}
		speeds.Apply(meta)
		runID, err := st.Save(meta, trace)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	for _, name := range set.Names() {
		fmt.Printf("  %s: %.6f\n", name, snap[name])
	}
	return nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// loadRun resolves a run ID or unique prefix and reads the run.
func loadRun(ref string) (*storage.RunMetadata, *storage.Trace, error) {
	st := storage.New(dataDir)
	runID, err := st.Resolve(ref)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, trace, nil
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

	w := newTable()
	fmt.Fprintln(w, "ID\tTIME\tFRAMES\tSPEED\tSEED\tPRESET\tSCENARIO")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Frames,
			formatFloat(run.Speed)+"x",
			run.Seed,
			orDash(run.Preset),
			orDash(run.Scenario),
		)
	}

	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if trace.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	names := plotBodies
	if len(names) == 0 {
		names = trace.Bodies
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", trace.Len())

	for _, name := range names {
		data, ok := trace.Series(name, plotField)
		if !ok {
			return fmt.Errorf("no %s trace for %s (bodies: %v)", plotField, name, trace.Bodies)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s %s vs frame", name, plotField)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(outPath, *meta, trace)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if trace.Len() == 0 {
		return fmt.Errorf("no data")
	}

	speeds := make(map[string]float64)
	for _, d := range bodies.List() {
		speeds[d.Name] = d.Speed
	}

	speed := meta.EffectiveSpeed()
	fmt.Printf("orbital periods: %s (%d frames)\n", meta.ID, trace.Len())
	if meta.Varied {
		fmt.Printf("speed changed during the run (started at %sx); expected periods use the mean %.3fx\n",
			formatFloat(meta.Speed), speed)
	}
	fmt.Println()
	w := newTable()
	fmt.Fprintln(w, "BODY\tMEASURED\tEXPECTED\tREVOLUTIONS")

	names := append([]string(nil), trace.Bodies...)
	sort.SliceStable(names, func(i, j int) bool { return speeds[names[i]] > speeds[names[j]] })
	for _, name := range names {
		xs, _ := trace.Series(name, "x")
		measured := "-"
		if p, ok := analysis.OrbitalPeriod(xs); ok {
			measured = fmt.Sprintf("%.0f", p)
		}
		expected := "-"
		if p := analysis.ExpectedPeriod(speeds[name], meta.FrameDt, speed); !math.IsInf(p, 1) {
			expected = fmt.Sprintf("%.0f", p)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\n", name, measured, expected, meta.Metrics["revolutions."+name])
	}
	return w.Flush()
}
