package metric

import (
	"math"
	"sync/atomic"
	"time"
)

// Kind identifies a sampled metric.
type Kind string

const (
	// KindLoad is the 1-minute load average.
	KindLoad Kind = "load"
	// KindConnectivity is 1 when the ping target answered, 0 otherwise.
	KindConnectivity Kind = "connectivity"
)

// Slot holds the latest value of one metric. It has exactly one writer (the
// kind's sampler) and any number of readers; reads never block and never
// observe an uninitialized value because every slot starts at a default.
type Slot struct {
	kind    Kind
	bits    atomic.Uint64
	updated atomic.Int64 // unix nanos, 0 until the first sample
}

// NewSlot creates a slot holding initial.
func NewSlot(kind Kind, initial float64) *Slot {
	s := &Slot{kind: kind}
	s.bits.Store(math.Float64bits(initial))
	return s
}

// Kind returns the metric this slot carries.
func (s *Slot) Kind() Kind { return s.kind }

// Value returns the latest published value.
func (s *Slot) Value() float64 {
	return math.Float64frombits(s.bits.Load())
}

// Bool interprets the value as a flag.
func (s *Slot) Bool() bool {
	return s.Value() >= 0.5
}

// Updated returns when the value was last published, or the zero time if the
// slot still holds its default.
func (s *Slot) Updated() time.Time {
	n := s.updated.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Store publishes v. Last write wins.
func (s *Slot) Store(v float64) {
	s.bits.Store(math.Float64bits(v))
	s.updated.Store(time.Now().UnixNano())
}

// StoreBool publishes a flag as 1 or 0.
func (s *Slot) StoreBool(b bool) {
	if b {
		s.Store(1)
		return
	}
	s.Store(0)
}
