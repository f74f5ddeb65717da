package bodies

import (
	"errors"
	"testing"
)

func TestListOrder(t *testing.T) {
	c := List()
	want := []string{"Sun", "Mercury", "Venus", "Earth", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune"}
	got := Names(c)
	if len(got) != len(want) {
		t.Fatalf("expected %d bodies, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestListIsCopy(t *testing.T) {
	a := List()
	a[3].Name = "Terra"
	a[3].Info[0].Value = "changed"

	b := List()
	if b[3].Name != "Earth" {
		t.Errorf("catalog mutated through List: %s", b[3].Name)
	}
	if b[3].Info[0].Value == "changed" {
		t.Error("info rows mutated through List")
	}
}

func TestCentralAndOrbiting(t *testing.T) {
	c := List()
	sun, ok := Central(c)
	if !ok || sun.Name != "Sun" {
		t.Fatalf("expected Sun as central body, got %v", sun)
	}
	orb := Orbiting(c)
	if len(orb) != 8 {
		t.Fatalf("expected 8 orbiting bodies, got %d", len(orb))
	}
	ringed := 0
	for _, d := range orb {
		if d.Ringed {
			ringed++
			if d.Name != "Saturn" {
				t.Errorf("unexpected ringed body %s", d.Name)
			}
		}
		if len(d.Info) != 5 {
			t.Errorf("%s: expected 5 info rows, got %d", d.Name, len(d.Info))
		}
	}
	if ringed != 1 {
		t.Errorf("expected one ringed body, got %d", ringed)
	}
}

func TestValidate(t *testing.T) {
	base := func() []Descriptor { return List() }

	tests := []struct {
		name   string
		mutate func([]Descriptor) []Descriptor
		want   error
	}{
		{"builtin", func(c []Descriptor) []Descriptor { return c }, nil},
		{"duplicate", func(c []Descriptor) []Descriptor { c[2].Name = "Mercury"; return c }, ErrDuplicateName},
		{"zero radius", func(c []Descriptor) []Descriptor { c[1].Radius = 0; return c }, ErrInvalidDescriptor},
		{"negative distance", func(c []Descriptor) []Descriptor { c[1].Distance = -1; return c }, ErrInvalidDescriptor},
		{"negative speed", func(c []Descriptor) []Descriptor { c[1].Speed = -0.1; return c }, ErrInvalidDescriptor},
		{"no central", func(c []Descriptor) []Descriptor { c[0].Central = false; return c }, ErrCentralBody},
		{"two central", func(c []Descriptor) []Descriptor { c[1].Central = true; return c }, ErrCentralBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.mutate(base()))
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCatalogErrorContext(t *testing.T) {
	c := List()
	c[4].Name = "Earth"
	err := Validate(c)

	var ce *CatalogError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CatalogError, got %T", err)
	}
	if ce.Index != 4 || ce.Name != "Earth" {
		t.Errorf("unexpected context: index %d name %s", ce.Index, ce.Name)
	}
}
