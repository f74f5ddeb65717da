package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/deepzoom"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/sim"
)

const (
	DefaultSpeed  = 1.0
	DefaultFPS    = 60
	DefaultFrames = 600
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Speed         float64        `yaml:"speed"`
	FrameDt       float64        `yaml:"frame_dt"`
	FPS           int            `yaml:"fps"`
	Frames        int            `yaml:"frames"`
	Seed          int64          `yaml:"seed"`
	WrapAngles    bool           `yaml:"wrap_angles"`
	ShowLabels    bool           `yaml:"show_labels"`
	ShowOrbits    bool           `yaml:"show_orbits"`
	OrbitSegments int            `yaml:"orbit_segments"`
	Theme         string         `yaml:"theme,omitempty"`
	Stars         StarsConfig    `yaml:"stars"`
	Camera        CameraConfig   `yaml:"camera"`
	DeepZoom      DeepZoomConfig `yaml:"deepzoom"`
}

type StarsConfig struct {
	Count  int     `yaml:"count"`
	Spread float64 `yaml:"spread"`
	Spin   float64 `yaml:"spin"`
}

type CameraConfig struct {
	FOV         float64 `yaml:"fov"`
	Near        float64 `yaml:"near"`
	Far         float64 `yaml:"far"`
	Damping     float64 `yaml:"damping"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
}

type DeepZoomConfig struct {
	URL      string `yaml:"url"`
	Format   string `yaml:"format"`
	Overlap  int    `yaml:"overlap"`
	TileSize int    `yaml:"tile_size"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
}

func DefaultConfig() *Config {
	src := deepzoom.Default()
	return &Config{
		Speed:         DefaultSpeed,
		FrameDt:       sim.DefaultFrameDt,
		FPS:           DefaultFPS,
		Frames:        DefaultFrames,
		WrapAngles:    true,
		ShowLabels:    true,
		ShowOrbits:    true,
		OrbitSegments: scene.DefaultOrbitSegments,
		Stars: StarsConfig{
			Count:  scene.DefaultStarCount,
			Spread: scene.DefaultStarSpread,
			Spin:   sim.DefaultStarSpin,
		},
		Camera: CameraConfig{
			FOV:         camera.DefaultFOV,
			Near:        camera.DefaultNear,
			Far:         camera.DefaultFar,
			Damping:     camera.DefaultDamping,
			MinDistance: camera.DefaultMinDistance,
			MaxDistance: camera.DefaultMaxDistance,
		},
		DeepZoom: DeepZoomConfig{
			URL:      src.URL,
			Format:   src.Format,
			Overlap:  src.Overlap,
			TileSize: src.TileSize,
			Width:    src.Width,
			Height:   src.Height,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first field that is out of range.
func (c *Config) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, field, v)
	}
	switch {
	case !(c.Speed >= 0 && c.Speed <= sim.MaxSpeed):
		return bad("speed", c.Speed)
	case !(c.FrameDt > 0):
		return bad("frame_dt", c.FrameDt)
	case c.FPS <= 0:
		return bad("fps", c.FPS)
	case c.Frames < 0:
		return bad("frames", c.Frames)
	case c.OrbitSegments < scene.MinOrbitSegments:
		return bad("orbit_segments", c.OrbitSegments)
	case c.Stars.Count < 0:
		return bad("stars.count", c.Stars.Count)
	case c.Stars.Spread < 0:
		return bad("stars.spread", c.Stars.Spread)
	case !(c.Camera.FOV > 0 && c.Camera.FOV < 180):
		return bad("camera.fov", c.Camera.FOV)
	case !(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near):
		return bad("camera.near/far", fmt.Sprintf("%v/%v", c.Camera.Near, c.Camera.Far))
	case c.Camera.Damping < 0 || c.Camera.Damping > 1:
		return bad("camera.damping", c.Camera.Damping)
	case !(c.Camera.MinDistance > 0 && c.Camera.MaxDistance >= c.Camera.MinDistance):
		return bad("camera.min/max_distance", fmt.Sprintf("%v/%v", c.Camera.MinDistance, c.Camera.MaxDistance))
	}
	if c.Theme != "" && c.Theme != "dark" && c.Theme != "light" {
		return bad("theme", c.Theme)
	}
	if _, err := c.TileSource(); err != nil {
		return fmt.Errorf("%w: deepzoom: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Clock builds the orbital clock described by the config.
func (c *Config) Clock() sim.Clock {
	clk := sim.NewClock()
	clk.FrameDt = c.FrameDt
	clk.StarSpin = c.Stars.Spin
	clk.Wrap = c.WrapAngles
	return clk
}

// State builds the initial simulation state.
func (c *Config) State() *sim.State {
	st := sim.NewState()
	st.Speed = sim.ClampSpeed(c.Speed)
	st.ShowLabels = c.ShowLabels
	st.ShowOrbits = c.ShowOrbits
	return st
}

// ApplyCamera copies projection and control limits onto a camera rig.
func (c *Config) ApplyCamera(cam *camera.Camera, ctl *camera.Controls) {
	cam.FOV, cam.Near, cam.Far = c.Camera.FOV, c.Camera.Near, c.Camera.Far
	ctl.DampingFactor = c.Camera.Damping
	ctl.Damping = c.Camera.Damping > 0
	ctl.MinDistance, ctl.MaxDistance = c.Camera.MinDistance, c.Camera.MaxDistance
}

// SceneOptions returns the build options for scene.Build. A zero seed
// leaves start phases random.
func (c *Config) SceneOptions() []scene.Option {
	opts := []scene.Option{
		scene.WithOrbitSegments(c.OrbitSegments),
		scene.WithStars(c.Stars.Count, c.Stars.Spread),
	}
	if c.Seed != 0 {
		opts = append(opts, scene.WithSeed(c.Seed))
	}
	return opts
}

// TileSource returns the configured deep-zoom image.
func (c *Config) TileSource() (deepzoom.TileSource, error) {
	src := deepzoom.TileSource{
		URL:      c.DeepZoom.URL,
		Format:   c.DeepZoom.Format,
		Overlap:  c.DeepZoom.Overlap,
		TileSize: c.DeepZoom.TileSize,
		Width:    c.DeepZoom.Width,
		Height:   c.DeepZoom.Height,
	}
	return src, src.Validate()
}
