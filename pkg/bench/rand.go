package bench

import "math/rand"

// Stream is the single seeded pseudo-random source behind every
// generation decision in a run. Two streams seeded identically and
// driven with the same call sequence produce identical outputs, which
// is the reproducibility backbone: no other component may read system
// entropy.
type Stream struct {
	seed int64
	rng  *rand.Rand
}

// NewStream returns a stream seeded from the given value.
func NewStream(seed int64) *Stream {
	return &Stream{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Float64 draws from [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// Intn draws a uniform int from [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	return s.rng.Intn(n)
}

// Int63n draws a uniform int64 from [0, n). n must be positive.
func (s *Stream) Int63n(n int64) int64 {
	return s.rng.Int63n(n)
}

// IntRange draws a uniform int from [lo, hi], inclusive on both ends.
func (s *Stream) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Choice picks uniformly from options. Duplicate entries weight the
// selection, which is how configs express operation mixes.
func Choice[T any](s *Stream, options []T) T {
	return options[s.Intn(len(options))]
}

const letterAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Letters draws n lowercase letters.
func (s *Stream) Letters(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letterAlphabet[s.Intn(len(letterAlphabet))]
	}
	return string(b)
}

// Digits draws n decimal digits.
func (s *Stream) Digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + s.Intn(10))
	}
	return string(b)
}
