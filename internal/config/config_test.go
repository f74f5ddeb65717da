package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Speed != 1 {
		t.Errorf("expected speed 1, got %f", cfg.Speed)
	}
	if cfg.FrameDt <= 0 {
		t.Error("frame_dt should be positive")
	}
	if !cfg.WrapAngles || !cfg.ShowLabels || !cfg.ShowOrbits {
		t.Error("wrap, labels and orbits should default on")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("frozen")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Speed != 0 {
		t.Errorf("expected speed 0, got %f", cfg.Speed)
	}
	if cfg.FrameDt != sim.DefaultFrameDt {
		t.Error("presets should keep unrelated defaults")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative speed", func(c *Config) { c.Speed = -1 }},
		{"NaN speed", func(c *Config) { c.Speed = math.NaN() }},
		{"infinite speed", func(c *Config) { c.Speed = math.Inf(1) }},
		{"speed above max", func(c *Config) { c.Speed = sim.MaxSpeed + 1 }},
		{"zero dt", func(c *Config) { c.FrameDt = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"coarse orbits", func(c *Config) { c.OrbitSegments = 8 }},
		{"negative stars", func(c *Config) { c.Stars.Count = -1 }},
		{"wide fov", func(c *Config) { c.Camera.FOV = 180 }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.01 }},
		{"damping above one", func(c *Config) { c.Camera.Damping = 2 }},
		{"max below min", func(c *Config) { c.Camera.MaxDistance = 1 }},
		{"unknown theme", func(c *Config) { c.Theme = "sepia" }},
		{"bad tile size", func(c *Config) { c.DeepZoom.TileSize = 0 }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	cfg := DefaultConfig()
	cfg.Speed = 3.5
	cfg.Seed = 42
	cfg.Stars.Count = 12
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Speed != 3.5 || got.Seed != 42 || got.Stars.Count != 12 {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	if err := os.WriteFile(path, []byte("speed: 2\ncamera:\n  fov: 60\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Speed != 2 || cfg.Camera.FOV != 60 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Camera.Far != camera.DefaultFar || cfg.FPS != DefaultFPS {
		t.Error("unspecified fields should keep defaults")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	if err := os.WriteFile(path, []byte("speed: -4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestBuilders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Speed = 4
	cfg.WrapAngles = false
	cfg.ShowOrbits = false

	if st := cfg.State(); st.Speed != 4 || st.ShowOrbits || !st.ShowLabels {
		t.Errorf("unexpected state %+v", st)
	}
	if clk := cfg.Clock(); clk.Wrap || clk.FrameDt != cfg.FrameDt {
		t.Errorf("unexpected clock %+v", clk)
	}

	cam := camera.New()
	ctl := camera.NewControls(cam)
	cfg.Camera.Damping = 0
	cfg.Camera.FOV = 50
	cfg.ApplyCamera(cam, ctl)
	if ctl.Damping || cam.FOV != 50 {
		t.Error("camera settings not applied")
	}

	if len(cfg.SceneOptions()) != 2 {
		t.Error("zero seed should not pin the scene seed")
	}
	cfg.Seed = 7
	if len(cfg.SceneOptions()) != 3 {
		t.Error("seed should be passed to the scene")
	}
}

func TestInfiniteSpeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inf.yaml")
	if err := os.WriteFile(path, []byte("speed: .inf\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestStateClampsSpeed(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1000, sim.MaxSpeed},
		{math.Inf(1), sim.MaxSpeed},
		{math.NaN(), 0},
		{-3, 0},
		{2.5, 2.5},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Speed = tt.in
		st := cfg.State()
		if st.Speed != tt.want {
			t.Errorf("State() speed for %v = %v, want %v", tt.in, st.Speed, tt.want)
		}

		body := &scene.OrbitingBody{Descriptor: &bodies.List()[1]}
		cfg.Clock().Step(body, st.Speed)
		if !(body.Angle >= 0 && body.Angle < 2*math.Pi) {
			t.Errorf("speed %v: angle %v out of [0, 2π)", tt.in, body.Angle)
		}
	}
}
