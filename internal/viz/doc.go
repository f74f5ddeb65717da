// Package viz is the interactive terminal host for orrery.
//
// The package implements a TUI using the Bubble Tea framework:
//
//   - [App]: drives the render loop from tick messages and routes input
//   - [Terminal]: a display surface drawing onto a braille [Canvas]
//   - Dark and light themes following the stored preference
//
// # Key Bindings
//
//	click, tab   - Select a body and show its info panel
//	x, esc       - Close the info panel
//	+ / -        - Orbit speed up/down in 0.1x steps (0 pauses, 1 resets)
//	l / o        - Toggle labels / orbit paths
//	arrows, z/Z  - Orbit and zoom the camera; mouse wheel zooms too
//	r            - Reset the camera
//	t            - Toggle light/dark theme
//	q            - Quit
package viz
