// Package rng provides the deterministic random stream that drives every
// chance roll in the game. A stream is seeded from the calendar date plus the
// in-game day, so a given day replays identically across reloads.
package rng

import "time"

// Source yields floats in [0,1).
type Source interface {
	Float64() float64
}

// Mulberry32 is a small 32-bit hash-based generator.
type Mulberry32 struct {
	state uint32
}

// New returns a mulberry32 stream for seed.
func New(seed int) *Mulberry32 {
	return &Mulberry32{state: uint32(int32(seed))}
}

func (m *Mulberry32) Float64() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t += (t ^ t>>7) * (t | 61)
	return float64(t^t>>14) / 4294967296.0
}

// DailySeed folds a calendar date into year*10000 + month*100 + day.
func DailySeed(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Seed is the seed for in-game day on calendar date t.
func Seed(t time.Time, day int) int {
	return DailySeed(t) + day
}

// Intn returns an integer in [0,n). n must be positive.
func Intn(src Source, n int) int {
	v := int(src.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Spread returns an integer uniformly in [base-variance, base+variance].
func Spread(src Source, base, variance int) int {
	return Intn(src, 2*variance+1) + base - variance
}

// Chance reports whether a draw falls under p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Fixed replays a fixed list of values, repeating the last one forever.
// It is meant for tests that need to force a branch.
type Fixed struct {
	Values []float64
	pos    int
}

func (f *Fixed) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	if f.pos >= len(f.Values) {
		return f.Values[len(f.Values)-1]
	}
	v := f.Values[f.pos]
	f.pos++
	return v
}
