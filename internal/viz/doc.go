// Package viz provides the terminal renderer for a running field.
//
// The live view is a Bubble Tea program that ticks the simulation on a
// fixed frame timer and rasterises every sample onto a braille [Canvas].
// Cells take the alpha-weighted mean of the sample colours that cross them
// and brighten with coverage, standing in for additive blending.
//
//   - [Model]: live view over a *sim.Simulation
//   - [Canvas]: braille canvas with per-cell colour accumulation
//   - [RunInteractive]: preset picker that launches the live view
//
// # Key Bindings
//
//	Space/S - Pause/Resume
//	+/-     - Zoom by a factor of 1.1
//	0       - Fit view
//	R       - Reseed the field
//	T       - Cycle themes
//	Q/Esc   - Quit
//	?       - Show help overlay
package viz
