package field

import (
	"fmt"
	"math"

	"github.com/san-kum/smoothfield/internal/dynamo"
)

const (
	DefaultEpsilon = 0.01
	DefaultJitter  = 1e-4
)

// Stats counts what a resampling pass did.
type Stats struct {
	Pairs        int
	Subdivided   int
	Inserted     int
	EvictedFront int
	EvictedBack  int
}

func (s Stats) Evicted() int { return s.EvictedFront + s.EvictedBack }

func (s *Stats) Add(other Stats) {
	s.Pairs += other.Pairs
	s.Subdivided += other.Subdivided
	s.Inserted += other.Inserted
	s.EvictedFront += other.EvictedFront
	s.EvictedBack += other.EvictedBack
}

// Resampler densifies adjacent samples whose angles drift apart by more
// than epsilon and trims the field back to capacity.
type Resampler struct {
	Epsilon float64
	Jitter  float64
	Rand    dynamo.RandSource
}

func NewResampler(src dynamo.RandSource) *Resampler {
	return &Resampler{
		Epsilon: DefaultEpsilon,
		Jitter:  DefaultJitter,
		Rand:    src,
	}
}

// epsilon draws the threshold for one pair, uniform in
// [Epsilon-Jitter, Epsilon+Jitter).
func (r *Resampler) epsilon() float64 {
	return r.Epsilon + r.Jitter*(2*r.Rand.Float64()-1)
}

// subdivisions rounds target stochastically so the expected count equals
// target. Non-finite or oversized targets are clamped to limit.
func (r *Resampler) subdivisions(target float64, limit int) int {
	if math.IsNaN(target) || target >= float64(limit) {
		return limit
	}
	n := math.Floor(target)
	if r.Rand.Float64() < target-n {
		n++
	}
	return int(n)
}

// Resample examines the pair (cur, cur.Next()) and, if it is too sparse,
// inserts interpolated samples between them and evicts down to capacity.
// Eviction takes from the front when cur sits in the back half of the
// field and from the back otherwise.
func (r *Resampler) Resample(f *Field, cur *Sample) (Stats, error) {
	var st Stats
	if f.Len() < MinSize {
		return st, fmt.Errorf("resample with %d samples: %w", f.Len(), dynamo.ErrFieldTooSmall)
	}

	eps := r.epsilon()
	next := cur.next
	if next == nil {
		return st, nil
	}
	st.Pairs = 1

	d1 := math.Abs(next.Phase[0] - cur.Phase[0])
	d2 := math.Abs(next.Phase[1] - cur.Phase[1])
	if d1 < eps && d2 < eps {
		return st, nil
	}

	maxDiff := cur.Phase.AngleGap(next.Phase)
	n := r.subdivisions(maxDiff/eps+1, f.Capacity())
	if n < 2 {
		return st, nil
	}

	st.Subdivided = 1
	for i := 1; i < n; i++ {
		alpha := float64(i) / float64(n)
		s := *cur
		s.Phase = dynamo.Lerp(cur.Phase, next.Phase, alpha)
		f.InsertBefore(s, next)
	}
	st.Inserted = n - 1

	if f.Len() > f.Capacity() {
		if cur.Index > f.Len()/2 {
			for f.Len() > f.Capacity() {
				f.PopFront()
				st.EvictedFront++
			}
		} else {
			for f.Len() > f.Capacity() {
				f.PopBack()
				st.EvictedBack++
			}
		}
	}
	return st, nil
}

// Sweep resamples every adjacent pair of f once, left to right. Only the
// pairs present when the sweep reaches them are visited: samples inserted
// between cur and its neighbour are not re-examined in the same sweep.
func (r *Resampler) Sweep(f *Field) (Stats, error) {
	var total Stats
	if f.Len() < MinSize {
		return total, fmt.Errorf("sweep with %d samples: %w", f.Len(), dynamo.ErrFieldTooSmall)
	}

	cur := f.Front()
	for cur != nil {
		next := cur.next
		st, err := r.Resample(f, cur)
		total.Add(st)
		if err != nil {
			return total, err
		}

		switch {
		case next == nil:
			cur = nil
		case f.Contains(next):
			cur = next
		case st.EvictedFront > 0:
			// only reachable when f started over capacity: everything up
			// to and including next went, and what remains is unvisited
			cur = f.Front()
		default:
			cur = nil
		}
	}
	return total, nil
}
