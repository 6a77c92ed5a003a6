package field

import (
	"fmt"

	"github.com/san-kum/smoothfield/internal/dynamo"
	"github.com/san-kum/smoothfield/internal/physics"
)

// MinSize is the smallest field the resampler will operate on.
const MinSize = 5

// Color is an RGBA display colour with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Sample is one trajectory of the ensemble at the current time.
type Sample struct {
	Body  physics.DoublePendulum
	Phase dynamo.PhasePoint
	X, Y  float64
	Color Color
	// Index is the rank within the field as of the last Reindex.
	Index int

	prev, next *Sample
	owner      *Field
}

// Next returns the following sample, or nil at the back or once s has
// been removed.
func (s *Sample) Next() *Sample { return s.next }

// Prev returns the preceding sample, or nil at the front or once s has
// been removed.
func (s *Sample) Prev() *Sample { return s.prev }

// Joints returns the anchor, hinge and tip of the sample.
func (s *Sample) Joints() (x0, y0, x1, y1, x2, y2 float64) {
	x1, y1, x2, y2 = s.Body.Joints(s.X, s.Y, s.Phase)
	return s.X, s.Y, x1, y1, x2, y2
}

// Field is the ordered ensemble: a doubly-linked list of samples with a
// capacity bound. Samples keep their identity while neighbours are
// inserted or removed, so a walk can hold a pointer across mutations.
// The bound is enforced by the resampler, not by PushBack.
type Field struct {
	front, back *Sample
	len         int
	capacity    int
}

// New returns an empty field. Capacities below MinSize are rejected with
// dynamo.ErrCapacity.
func New(capacity int) (*Field, error) {
	if capacity < MinSize {
		return nil, fmt.Errorf("capacity %d below minimum %d: %w", capacity, MinSize, dynamo.ErrCapacity)
	}
	return &Field{capacity: capacity}, nil
}

// Len is the number of samples currently held.
func (f *Field) Len() int { return f.len }

// Capacity is the size the resampler evicts back down to.
func (f *Field) Capacity() int { return f.capacity }

func (f *Field) Front() *Sample { return f.front }
func (f *Field) Back() *Sample  { return f.back }

// Contains reports whether s is still linked into f.
func (f *Field) Contains(s *Sample) bool { return s != nil && s.owner == f }

// PushBack appends a copy of s and returns the stored sample.
func (f *Field) PushBack(s Sample) *Sample {
	n := &s
	n.owner = f
	n.next = nil
	n.prev = f.back
	if f.back != nil {
		f.back.next = n
	} else {
		f.front = n
	}
	f.back = n
	f.len++
	return n
}

// InsertBefore inserts a copy of s immediately before mark.
func (f *Field) InsertBefore(s Sample, mark *Sample) *Sample {
	if !f.Contains(mark) {
		panic("field: InsertBefore mark is not in this field")
	}
	n := &s
	n.owner = f
	n.next = mark
	n.prev = mark.prev
	if mark.prev != nil {
		mark.prev.next = n
	} else {
		f.front = n
	}
	mark.prev = n
	f.len++
	return n
}

// PopFront unlinks and returns the first sample, or nil when empty.
func (f *Field) PopFront() *Sample {
	s := f.front
	if s == nil {
		return nil
	}
	f.remove(s)
	return s
}

// PopBack unlinks and returns the last sample, or nil when empty.
func (f *Field) PopBack() *Sample {
	s := f.back
	if s == nil {
		return nil
	}
	f.remove(s)
	return s
}

func (f *Field) remove(s *Sample) {
	if s.prev != nil {
		s.prev.next = s.next
	} else {
		f.front = s.next
	}
	if s.next != nil {
		s.next.prev = s.prev
	} else {
		f.back = s.prev
	}
	s.prev, s.next, s.owner = nil, nil, nil
	f.len--
}

// Reindex sets every sample's Index to its current rank.
func (f *Field) Reindex() {
	i := 0
	for s := f.front; s != nil; s = s.next {
		s.Index = i
		i++
	}
}

func (f *Field) Each(fn func(s *Sample)) {
	for s := f.front; s != nil; s = s.next {
		fn(s)
	}
}

// Snapshot copies the samples in order. The copies are detached from the
// field and safe to keep across ticks.
func (f *Field) Snapshot() []Sample {
	out := make([]Sample, 0, f.len)
	for s := f.front; s != nil; s = s.next {
		c := *s
		c.prev, c.next, c.owner = nil, nil, nil
		out = append(out, c)
	}
	return out
}
