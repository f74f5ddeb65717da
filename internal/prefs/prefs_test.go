package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Theme() != Light {
		t.Errorf("expected light default, got %s", s.Theme())
	}
}

func TestTogglePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Toggle()
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got != Dark {
		t.Errorf("expected dark after toggle, got %s", got)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Theme() != Dark {
		t.Errorf("expected persisted dark, got %s", reopened.Theme())
	}

	if got, _ := reopened.Toggle(); got != Light {
		t.Errorf("expected light after second toggle, got %s", got)
	}
}

func TestUnknownStoredTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("theme: sepia\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Theme() != Light {
		t.Errorf("expected fallback to light, got %s", s.Theme())
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"dark", Dark, false},
		{"light", Light, false},
		{"Dark", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTheme(%q) error = %v", tt.in, err)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownTheme) {
			t.Errorf("ParseTheme(%q) should wrap ErrUnknownTheme", tt.in)
		}
		if got != tt.want {
			t.Errorf("ParseTheme(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestInMemoryStore(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetTheme("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
	if err := s.SetTheme(Dark); err != nil || s.Theme() != Dark {
		t.Errorf("SetTheme(dark) = %v, theme %s", err, s.Theme())
	}
}
