// Package field holds the ordered ensemble of pendulum samples and the
// resampler that keeps neighbouring samples close.
//
// A [Field] is an intrusive doubly-linked list: samples keep stable
// pointers while the resampler inserts between neighbours and evicts at
// the ends, which is what lets a single left-to-right sweep mutate the
// sequence it is walking.
//
// # Resampling
//
// For every adjacent pair whose angle gap exceeds epsilon (0.01 with a
// small uniform jitter), [Resampler] inserts n-1 linearly interpolated
// samples, where n is gap/epsilon + 1 rounded stochastically. When the
// field outgrows its capacity it evicts from the end farther away from the
// pair being densified.
package field
