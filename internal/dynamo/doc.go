// Package dynamo provides the core primitives shared by the simulation
// packages.
//
//   - [PhasePoint]: the (theta1, theta2, p1, p2) vector of one pendulum
//   - [System]: an autonomous ODE dX/dt = f(X)
//   - [Integrator]: a fixed-step stepper over a [System]
//   - [RandSource]: the injectable uniform source used by resampling
//
// PhasePoint is a value type; every arithmetic method returns a new point
// and never allocates.
//
// # Example
//
//	dp := physics.NewDoublePendulum()
//	x := dynamo.PhasePoint{3.1, 2.9, 0, 0}
//	x = integrators.NewRK4().Step(dp, x, 0.0125)
package dynamo
