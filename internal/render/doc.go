// Package render holds the renderer-independent half of drawing a field:
// rank colouring, per-sample geometry and the world-to-screen viewport
// shared by the terminal, window and SVG outputs.
package render
