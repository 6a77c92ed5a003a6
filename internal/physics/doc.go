// Package physics provides the pendulum model driven by the field.
//
// [DoublePendulum] implements [dynamo.System] with the classical two-rod
// Hamiltonian: both rods share length and mass, the state is
// (theta1, theta2, p1, p2) and the time derivative is
//
//	theta1dot = 6/(m L^2) * (2 p1 - 3 p2 cos(t1-t2)) / (16 - 9 cos^2(t1-t2))
//	theta2dot = 6/(m L^2) * (8 p2 - 3 p1 cos(t1-t2)) / (16 - 9 cos^2(t1-t2))
//	p1dot = -m L^2/2 * ( theta1dot theta2dot sin(t1-t2) + 3 g/L sin t1)
//	p2dot = -m L^2/2 * (-theta1dot theta2dot sin(t1-t2) +   g/L sin t2)
//
// The denominator never vanishes because cos^2 <= 1 < 16/9.
//
// It also implements [dynamo.Hamiltonian] for energy monitoring and
// [dynamo.Configurable] for runtime parameter adjustment.
package physics
