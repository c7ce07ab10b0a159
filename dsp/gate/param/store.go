package param

import (
	"math"
	"sync/atomic"
)

// Store holds the live parameter values. Set may be called from any
// goroutine; Load never blocks and is safe on the audio goroutine.
type Store struct {
	bits [Count]atomic.Uint64
}

// NewStore returns a store initialized to the defaults.
func NewStore() *Store {
	s := &Store{}
	s.Replace(Defaults())
	return s
}

// Set writes the sanitized value of id.
func (s *Store) Set(id ID, v float64) {
	if id < 0 || int(id) >= Count {
		return
	}
	s.bits[id].Store(math.Float64bits(Sanitize(id, v)))
}

// SetNormalized writes id from a [0, 1] control position using its skewed range.
func (s *Store) SetNormalized(id ID, p float64) {
	spec, ok := Lookup(id)
	if !ok {
		return
	}
	s.Set(id, spec.Range.Denormalize(p))
}

// Get returns the current value of id.
func (s *Store) Get(id ID) float64 {
	if id < 0 || int(id) >= Count {
		return 0
	}
	return math.Float64frombits(s.bits[id].Load())
}

// Load returns a snapshot of all values. Each field is read atomically;
// the snapshot as a whole is not.
func (s *Store) Load() Values {
	var v Values
	for i := 0; i < Count; i++ {
		id := ID(i)
		v = v.With(id, s.Get(id))
	}
	return v
}

// Replace writes every field of v.
func (s *Store) Replace(v Values) {
	for i := 0; i < Count; i++ {
		id := ID(i)
		s.Set(id, v.Get(id))
	}
}
