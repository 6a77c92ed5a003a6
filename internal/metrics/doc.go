// Package metrics provides observers that summarise the field each tick.
//
// Every type here satisfies sim.Metric: Observe is called after each
// completed tick and Value reports the accumulated figure.
package metrics
