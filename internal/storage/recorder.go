package storage

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/smoothfield/internal/field"
	"github.com/san-kum/smoothfield/internal/metrics"
)

// TickRecord is one row of ticks.csv.
type TickRecord struct {
	Tick         int     `json:"tick"`
	Time         float64 `json:"time"`
	Len          int     `json:"len"`
	Pairs        int     `json:"pairs"`
	Subdivided   int     `json:"subdivided"`
	Inserted     int     `json:"inserted"`
	EvictedFront int     `json:"evicted_front"`
	EvictedBack  int     `json:"evicted_back"`
	MaxGap       float64 `json:"max_gap"`
	MeanEnergy   float64 `json:"mean_energy"`
}

// Recorder collects a TickRecord per completed tick. It satisfies
// sim.Observer.
type Recorder struct {
	dt      float64
	Records []TickRecord
}

func NewRecorder(dt float64) *Recorder {
	return &Recorder{dt: dt}
}

func (r *Recorder) OnTick(tick int, st field.Stats, f *field.Field) {
	mean := 0.0
	if f.Len() > 0 {
		mean = stat.Mean(metrics.Energies(f), nil)
	}
	r.Records = append(r.Records, TickRecord{
		Tick:         tick,
		Time:         float64(tick) * r.dt,
		Len:          f.Len(),
		Pairs:        st.Pairs,
		Subdivided:   st.Subdivided,
		Inserted:     st.Inserted,
		EvictedFront: st.EvictedFront,
		EvictedBack:  st.EvictedBack,
		MaxGap:       metrics.MaxGap(f),
		MeanEnergy:   mean,
	})
}

// Totals sums the resampling counters over every recorded tick.
func (r *Recorder) Totals() field.Stats {
	var total field.Stats
	for _, rec := range r.Records {
		total.Add(field.Stats{
			Pairs:        rec.Pairs,
			Subdivided:   rec.Subdivided,
			Inserted:     rec.Inserted,
			EvictedFront: rec.EvictedFront,
			EvictedBack:  rec.EvictedBack,
		})
	}
	return total
}
