package config

import "sort"

// Presets are partial configs layered over DefaultConfig by GetPreset.
var Presets = map[string]func(*Config){
	"realtime": func(c *Config) {
		c.Speed = 1
		c.FPS = 60
	},
	"fast": func(c *Config) {
		c.Speed = 10
		c.FPS = 60
		c.Frames = 3000
	},
	"frozen": func(c *Config) {
		c.Speed = 0
		c.Frames = 60
	},
	"overview": func(c *Config) {
		c.Speed = 2
		c.ShowLabels = false
		c.Stars.Count = 2000
		c.Camera.MaxDistance = 150
		c.Camera.MinDistance = 40
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
