package util

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
)

// NewSource returns a deterministic source seeded with seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

// TimeSource returns a source seeded from the wall clock.
func TimeSource() rand.Source {
	return rand.NewSource(uint64(time.Now().UnixNano()))
}

// Seeds derives n independent worker seeds from src.
func Seeds(src rand.Source, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = src.Uint64()
	}
	return out
}

// uniform returns a draw in the open interval (0, 1).
func uniform(r *rand.Rand) float64 {
	for {
		u := r.Float64()
		if u > 0 {
			return u
		}
	}
}

// NormalPair draws two independent standard normals with the Box-Muller
// transform from two uniforms.
func NormalPair(r *rand.Rand) (float64, float64) {
	u1, u2 := uniform(r), uniform(r)
	rad := math.Sqrt(-2 * math.Log(u1))
	return rad * math.Cos(2*math.Pi*u2), rad * math.Sin(2*math.Pi*u2)
}

// Normals is a stream of standard normal variates. Box-Muller produces
// values in pairs; the second of each pair is held for the next call so
// both are consumed and neither is handed out twice.
type Normals struct {
	rng     *rand.Rand
	spare   float64
	hasNext bool
}

// NewNormals wraps src in a normal stream.
func NewNormals(src rand.Source) *Normals {
	return &Normals{rng: rand.New(src)}
}

// Next returns the next standard normal.
func (n *Normals) Next() float64 {
	if n.hasNext {
		n.hasNext = false
		return n.spare
	}
	z1, z2 := NormalPair(n.rng)
	n.spare, n.hasNext = z2, true
	return z1
}

// Uniform returns a uniform draw on (0, 1) from the same generator.
func (n *Normals) Uniform() float64 {
	return uniform(n.rng)
}
