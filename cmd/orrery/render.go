package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/deepzoom"
	"github.com/san-kum/orrery/internal/display"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/loop"
	"github.com/san-kum/orrery/internal/prefs"
	"github.com/san-kum/orrery/internal/viz"
)

var (
	snapFrames int
	snapWidth  int
	snapHeight int
	snapOut    string
	textureDir string
	selectBody string
	traceRun   string
	traceBody  string
	svgFrames  int
	svgSize    int
	svgOut     string
	svgBraille bool

	dziLevel int
	dziCol   int
	dziRow   int
)

func writeOutput(path, content string) error {
	if path == "" {
		_, err := fmt.Println(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openPrefs(cfg)
	if err != nil {
		return err
	}
	if snapFrames < 1 {
		return fmt.Errorf("need at least one frame, got %d", snapFrames)
	}

	img := export.NewImage(snapWidth, snapHeight, export.PaletteFor(store.Theme()))
	img.SetTextureDir(textureDir)
	s, err := newSession(cfg, img, store)
	if err != nil {
		return err
	}
	defer s.ctl.Teardown()

	if selectBody != "" {
		p, ok := s.scene.Lookup(selectBody)
		if !ok {
			return fmt.Errorf("unknown body: %s", selectBody)
		}
		s.ctl.SelectEntity(p)
	}

	if err := s.loop.Run(context.Background(), loop.Fixed(snapFrames)); err != nil {
		return err
	}

	f, err := os.Create(snapOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := img.WritePNG(f); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d, frame %d)\n", snapOut, snapWidth, snapHeight, s.loop.Frame())
	return nil
}

func svgDiagram(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openPrefs(cfg)
	if err != nil {
		return err
	}
	pal := export.PaletteFor(store.Theme())

	if traceRun != "" {
		_, trace, err := loadRun(traceRun)
		if err != nil {
			return err
		}
		xs, ok := trace.Series(traceBody, "x")
		if !ok {
			return fmt.Errorf("no trace for %s (bodies: %v)", traceBody, trace.Bodies)
		}
		zs, _ := trace.Series(traceBody, "z")
		pts := make([]export.PathPoint, len(xs))
		for i := range xs {
			pts[i] = export.PathPoint{X: xs[i], Y: -zs[i]}
		}
		svg := export.PathToSVG(pts, svgSize, svgSize, "#4169e1", pal)
		if svg == "" {
			return fmt.Errorf("trace for %s is too short", traceBody)
		}
		return writeOutput(svgOut, svg)
	}

	if svgBraille {
		return brailleSVG(cfg, store, pal)
	}

	surface := display.NewHeadless(svgSize, svgSize)
	s, err := newSession(cfg, surface, store)
	if err != nil {
		return err
	}
	defer s.ctl.Teardown()

	if svgFrames > 0 {
		if err := s.loop.Run(context.Background(), loop.Fixed(svgFrames)); err != nil {
			return err
		}
	} else {
		for _, b := range s.scene.Bodies {
			b.Orbit.Visible = cfg.ShowOrbits
		}
	}
	return writeOutput(svgOut, export.OrbitDiagram(s.scene, svgSize, cfg.ShowLabels, pal))
}

// brailleSVG renders one terminal frame and writes its braille dots.
func brailleSVG(cfg *config.Config, store *prefs.Store, pal export.Palette) error {
	term := viz.NewTerminal(svgSize/8, svgSize/16, viz.GetTheme(store.Theme()))
	s, err := newSession(cfg, term, store)
	if err != nil {
		return err
	}
	defer s.ctl.Teardown()

	if err := s.loop.Run(context.Background(), loop.Fixed(max(svgFrames, 1))); err != nil {
		return err
	}
	return writeOutput(svgOut, export.CanvasToSVG(term.Canvas(), 4, pal))
}

func deepZoom(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := cfg.TileSource()
	if err != nil {
		return err
	}
	level := dziLevel
	if level < 0 {
		level = src.MaxLevel()
	}

	mode := "descriptor"
	if len(args) == 1 {
		mode = strings.ToLower(args[0])
	}

	switch mode {
	case "descriptor":
		doc, err := src.Descriptor()
		if err != nil {
			return err
		}
		fmt.Println(string(doc))
	case "viewer":
		doc, err := deepzoom.ViewerConfig(deepzoom.DefaultViewer(), src)
		if err != nil {
			return err
		}
		fmt.Println(string(doc))
	case "tiles":
		w := newTable()
		fmt.Fprintln(w, "LEVEL\tWIDTH\tHEIGHT\tCOLS\tROWS")
		for l := 0; l < src.Levels(); l++ {
			lw, lh, _ := src.LevelSize(l)
			cols, rows, _ := src.TileCount(l)
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\n", l, lw, lh, cols, rows)
		}
		fmt.Fprintf(w, "total\t\t\t%d\t\n", src.TotalTiles())
		return w.Flush()
	case "url":
		url, err := src.TileURL(level, dziCol, dziRow)
		if err != nil {
			return err
		}
		bounds, _ := src.TileBounds(level, dziCol, dziRow)
		fmt.Printf("%s\n(%d,%d %dx%d)\n", url, bounds.X, bounds.Y, bounds.W, bounds.H)
	default:
		return fmt.Errorf("unknown dzi mode: %s (descriptor, viewer, tiles, url)", mode)
	}
	return nil
}
