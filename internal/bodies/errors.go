package bodies

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDuplicateName indicates two descriptors share a name.
	ErrDuplicateName = errors.New("bodies: duplicate body name")

	// ErrInvalidDescriptor indicates a radius, distance or speed out of range.
	ErrInvalidDescriptor = errors.New("bodies: invalid descriptor")

	// ErrCentralBody indicates a catalog without exactly one central body.
	ErrCentralBody = errors.New("bodies: catalog needs exactly one central body")
)

// CatalogError ties a validation failure to the offending entry.
type CatalogError struct {
	Index int
	Name  string
	Err   error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog entry %d (%q): %v", e.Index, e.Name, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// Validate checks a catalog. It is called on the built-in catalog at
// package init, so a bad edit there fails at startup.
func Validate(c []Descriptor) error {
	seen := make(map[string]int, len(c))
	central := 0
	for i := range c {
		d := &c[i]
		if prev, ok := seen[d.Name]; ok {
			return &CatalogError{Index: i, Name: d.Name, Err: fmt.Errorf("%w (first at %d)", ErrDuplicateName, prev)}
		}
		seen[d.Name] = i

		switch {
		case d.Name == "":
			return &CatalogError{Index: i, Err: fmt.Errorf("%w: empty name", ErrInvalidDescriptor)}
		case !(d.Radius > 0) || math.IsInf(d.Radius, 0):
			return &CatalogError{Index: i, Name: d.Name, Err: fmt.Errorf("%w: radius %v", ErrInvalidDescriptor, d.Radius)}
		case !(d.Distance >= 0) || math.IsInf(d.Distance, 0):
			return &CatalogError{Index: i, Name: d.Name, Err: fmt.Errorf("%w: distance %v", ErrInvalidDescriptor, d.Distance)}
		case !(d.Speed >= 0) || math.IsInf(d.Speed, 0):
			return &CatalogError{Index: i, Name: d.Name, Err: fmt.Errorf("%w: speed %v", ErrInvalidDescriptor, d.Speed)}
		}
		if d.Central {
			central++
		}
	}
	if central != 1 {
		return fmt.Errorf("%w (found %d)", ErrCentralBody, central)
	}
	return nil
}
