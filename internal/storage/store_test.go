package storage

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/display"
	"github.com/san-kum/orrery/internal/scene"
)

func buildScene(t *testing.T) *scene.Scene {
	t.Helper()
	sc, err := scene.Build(bodies.List(), display.NewHeadless(80, 60), scene.WithSeed(3), scene.WithStars(0, 0))
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}
	return sc
}

func recordTrace(t *testing.T, frames int) *Trace {
	t.Helper()
	sc := buildScene(t)
	tr := &Trace{}
	for f := 1; f <= frames; f++ {
		for _, b := range sc.Bodies {
			b.Angle += 0.1
			b.UpdatePosition()
		}
		tr.Record(f, sc)
	}
	return tr
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tr := recordTrace(t, 5)
	meta := &RunMetadata{
		Preset:  "fast",
		Seed:    42,
		FrameDt: 0.01,
		Speed:   10,
		Metrics: map[string]float64{"frames_rendered": 5},
	}

	runID, err := st.Save(meta, tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" || meta.ID != runID {
		t.Fatalf("expected run id to be set, got %q / %q", runID, meta.ID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Preset != "fast" || loaded.Seed != 42 || loaded.Frames != 5 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if len(loaded.Bodies) != 8 || loaded.Bodies[0] != "Mercury" {
		t.Errorf("expected eight bodies starting with Mercury, got %v", loaded.Bodies)
	}
	if loaded.Metrics["frames_rendered"] != 5 {
		t.Errorf("metrics lost: %v", loaded.Metrics)
	}

	got, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if got.Len() != 5 || len(got.Bodies) != 8 {
		t.Fatalf("expected 5 frames of 8 bodies, got %d of %d", got.Len(), len(got.Bodies))
	}
	for i := range tr.Samples {
		if got.Frames[i] != tr.Frames[i] {
			t.Errorf("frame %d: got %d", i, got.Frames[i])
		}
		for b := range tr.Samples[i] {
			if math.Abs(got.Samples[i][b].Angle-tr.Samples[i][b].Angle) > 1e-6 {
				t.Errorf("frame %d body %d: angle %f, want %f", i, b, got.Samples[i][b].Angle, tr.Samples[i][b].Angle)
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	first, _ := st.Save(&RunMetadata{}, recordTrace(t, 1))
	second, _ := st.Save(&RunMetadata{}, recordTrace(t, 2))

	if err := os.Mkdir(filepath.Join(st.Dir(), "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	ids := map[string]bool{runs[0].ID: true, runs[1].ID: true}
	if !ids[first] || !ids[second] {
		t.Errorf("list missing runs: %v", runs)
	}
}

func TestStoreFileStructure(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := st.Save(&RunMetadata{}, recordTrace(t, 1))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "trace.csv"} {
		if _, err := os.Stat(filepath.Join(st.Dir(), runID, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadTrace("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadTrace: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.Resolve("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Resolve: expected ErrRunNotFound, got %v", err)
	}
}

func TestResolvePrefix(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := st.Save(&RunMetadata{}, recordTrace(t, 1))
	if err != nil {
		t.Fatal(err)
	}

	got, err := st.Resolve(runID[:8])
	if err != nil {
		t.Fatalf("resolve prefix: %v", err)
	}
	if got != runID {
		t.Errorf("got %s, want %s", got, runID)
	}
}

func TestTraceSeries(t *testing.T) {
	tr := recordTrace(t, 4)

	xs, ok := tr.Series("Earth", "x")
	if !ok || len(xs) != 4 {
		t.Fatalf("expected 4 x samples, got %v (%v)", xs, ok)
	}
	for _, x := range xs {
		if math.Abs(x) > 16+1e-9 {
			t.Errorf("earth x %f outside its orbit", x)
		}
	}

	if _, ok := tr.Series("Pluto", "x"); ok {
		t.Error("unknown body should not resolve")
	}
	if _, ok := tr.Series("Earth", "y"); ok {
		t.Error("unknown field should not resolve")
	}
}

func TestTraceIgnoresTornDownScene(t *testing.T) {
	sc := buildScene(t)
	sc.Teardown()
	tr := &Trace{}
	tr.Record(1, sc)
	if tr.Len() != 0 {
		t.Error("torn-down scene should not be recorded")
	}
}

func TestParseTraceRejectsBadHeader(t *testing.T) {
	if _, err := parseTrace([][]string{{"time", "a"}}); err == nil {
		t.Error("expected error for malformed header")
	}
	tr, err := parseTrace([][]string{{"frame", "Earth.angle", "Earth.x", "Earth.z"}, {"1", "0.5", "x", "1"}, {"2", "0.6", "1", "2"}})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Len() != 1 || tr.Frames[0] != 2 {
		t.Errorf("bad rows should be skipped, got %+v", tr)
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	tr := recordTrace(t, 2)
	if err := ExportJSON(path, RunMetadata{ID: "abc"}, tr); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc ExportData
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.Run.ID != "abc" || doc.Trace.Len() != 2 {
		t.Errorf("unexpected export %+v", doc)
	}
}

func TestSpeedLog(t *testing.T) {
	tests := []struct {
		name   string
		speeds []float64
		mean   float64
		varied bool
	}{
		{"constant", []float64{2, 2, 2, 2}, 2, false},
		{"changed mid run", []float64{1, 1, 4, 4, 4, 4}, 3, true},
		{"paused", []float64{1, 0, 0, 0}, 0.25, true},
		{"paused throughout", []float64{0, 0}, 0, false},
	}

	for _, tt := range tests {
		var log SpeedLog
		for _, v := range tt.speeds {
			log.Observe(v)
		}
		meta := &RunMetadata{Speed: tt.speeds[0]}
		log.Apply(meta)
		if math.Abs(meta.MeanSpeed-tt.mean) > 1e-12 || meta.Varied != tt.varied {
			t.Errorf("%s: got mean %v varied %v, want %v %v", tt.name, meta.MeanSpeed, meta.Varied, tt.mean, tt.varied)
		}
		if got := meta.EffectiveSpeed(); math.Abs(got-tt.mean) > 1e-12 {
			t.Errorf("%s: effective speed %v, want %v", tt.name, got, tt.mean)
		}
	}

	var empty SpeedLog
	meta := &RunMetadata{Speed: 5}
	empty.Apply(meta)
	if meta.EffectiveSpeed() != 5 {
		t.Errorf("runs without a log fall back to the starting speed, got %v", meta.EffectiveSpeed())
	}
}
