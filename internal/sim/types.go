// Package sim holds the shared simulation state and the orbital clock that
// advances bodies frame by frame.
package sim

import (
	"math"

	"github.com/google/uuid"
)

// MaxSpeed caps the speed multiplier.
const MaxSpeed = 100.0

// ClampSpeed maps a requested multiplier into [0, MaxSpeed]. Negative and
// NaN values become 0 and +Inf becomes MaxSpeed.
func ClampSpeed(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > MaxSpeed:
		return MaxSpeed
	}
	return v
}

// Selection is a weak reference to a pickable entity: the scene it was
// picked from plus the entity's name. The zero value selects nothing.
type Selection struct {
	Scene uuid.UUID
	Name  string
}

func (s Selection) Empty() bool { return s.Name == "" }

// State is the simulation-wide settings shared between the interaction
// controller (writer) and the render loop and picker (readers).
type State struct {
	Speed      float64
	ShowLabels bool
	ShowOrbits bool
	Selected   Selection
}

func NewState() *State {
	return &State{
		Speed:      1,
		ShowLabels: true,
		ShowOrbits: true,
	}
}

// ClearSelection drops the current selection.
func (s *State) ClearSelection() { s.Selected = Selection{} }
