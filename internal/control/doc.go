// Package control turns user input into changes of the shared simulation
// state.
//
// A [Controller] owns the [sim.State], the current [scene.Scene], the camera
// controls and the info panel. Every operation is safe to repeat with the
// same input:
//
//   - [Controller.SetSpeedMultiplier]: global orbit speed, clamped to [0, MaxSpeed]
//   - [Controller.SetLabelsVisible], [Controller.SetOrbitsVisible]: render flags
//   - [Controller.ResetCamera]: back to the initial pose
//   - [Controller.SelectEntity], [Controller.Click]: select and show info
//   - [Controller.CloseInfoPanel]: clear the selection and hide the panel
//
// # Usage
//
//	ctl := control.New(state, sc, controls, panel)
//	ctl.SetSpeedMultiplier(2)
//	ctl.Click(x, y, surface.Viewport())
//
// A miss on Click leaves the selection alone; only CloseInfoPanel clears it.
package control
