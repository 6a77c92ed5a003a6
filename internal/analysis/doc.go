// Package analysis provides chaos diagnostics for a single seed
// trajectory.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via renormalised
//     trajectory separation
//   - [LyapunovSpectrum]: one estimate per perturbed phase coordinate
//   - [GeneratePhasePortrait]: projection of a trajectory onto two
//     coordinates
//   - [GeneratePoincareSection]: points recorded at upward crossings
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics, which is
// what makes the field stretch and need resampling:
//
//	lambda := analysis.LyapunovExponent(body, integ, x0, dt, duration, 1e-8)
//	if lambda > 0 {
//	    // neighbouring samples separate exponentially
//	}
package analysis
