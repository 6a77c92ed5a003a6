// Package sim drives the field: it seeds the ensemble and runs ticks.
//
// A tick integrates every sample with the configured stepper, refreshes
// sample ranks, and sweeps the resampler over adjacent pairs:
//
//	s, _ := sim.Initialize(4096, sim.DefaultSeed())
//	for {
//	    if _, err := s.Tick(); err != nil {
//	        return err // fatal, the field is misconfigured
//	    }
//	    draw(s.Field())
//	}
//
// # Thread Safety
//
// Simulation is NOT thread-safe. Drivers call Tick from their frame loop
// and read the field between ticks.
package sim
