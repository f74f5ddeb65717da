// Package prefs persists user preferences between sessions. Only the color
// theme is stored; simulation state is never written here.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/logging"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

var ErrUnknownTheme = errors.New("prefs: unknown theme")

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

type file struct {
	Theme Theme `yaml:"theme"`
}

// Store is a preference file on disk. A Store with an empty path lives in
// memory only.
type Store struct {
	path  string
	theme Theme
}

// Open reads the preferences at path. A missing file yields defaults; an
// unreadable or unknown value falls back to the light theme.
func Open(path string) (*Store, error) {
	s := &Store{path: path, theme: Light}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("prefs: parse %s: %w", path, err)
	}
	if t, err := ParseTheme(string(f.Theme)); err == nil {
		s.theme = t
	} else if f.Theme != "" {
		logging.L().Warn("ignoring stored theme", "theme", f.Theme)
	}
	return s, nil
}

// DefaultPath is prefs.yaml under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "orrery", "prefs.yaml")
}

func (s *Store) Theme() Theme { return s.theme }

func (s *Store) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	s.theme = t
	return s.save()
}

// Toggle flips between light and dark and persists the result.
func (s *Store) Toggle() (Theme, error) {
	next := s.theme.Toggled()
	if err := s.SetTheme(next); err != nil {
		return s.theme, err
	}
	return next, nil
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(file{Theme: s.theme})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
