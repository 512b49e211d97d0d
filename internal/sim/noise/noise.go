// Package noise implements seeded 2D gradient noise for terrain scatter.
// Sampling is a pure function of (seed, x, y): two fields seeded alike
// agree at every coordinate.
package noise

import (
	"math/rand"

	"sprout.farm/internal/sim/mathx"
)

const tableSize = 256

// Field is a seeded gradient-noise field. Zero value is unusable; call
// New or Seed first.
type Field struct {
	perm [tableSize * 2]int
}

func New(seed int64) *Field {
	f := &Field{}
	f.Seed(seed)
	return f
}

// Seed reinitializes the permutation table deterministically from seed.
func (f *Field) Seed(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	var p [tableSize]int
	for i := range p {
		p[i] = i
	}
	rng.Shuffle(tableSize, func(i, j int) { p[i], p[j] = p[j], p[i] })
	for i := 0; i < tableSize; i++ {
		f.perm[i] = p[i]
		f.perm[i+tableSize] = p[i]
	}
}

// Sample returns a smooth value in [-1, 1]. Out-of-range coordinates are
// valid: lattice indices wrap modulo the permutation table.
func (f *Field) Sample(x, y float64) float64 {
	xi := floorInt(x)
	yi := floorInt(y)
	xf := x - float64(xi)
	yf := y - float64(yi)

	xw := mathx.Mod(xi, tableSize)
	yw := mathx.Mod(yi, tableSize)

	aa := f.perm[f.perm[xw]+yw]
	ab := f.perm[f.perm[xw]+yw+1]
	ba := f.perm[f.perm[xw+1]+yw]
	bb := f.perm[f.perm[xw+1]+yw+1]

	u := fade(xf)
	v := fade(yf)

	x1 := lerp(grad(aa, xf, yf), grad(ba, xf-1, yf), u)
	x2 := lerp(grad(ab, xf, yf-1), grad(bb, xf-1, yf-1), u)
	return lerp(x1, x2, v)
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// grad projects (x, y) onto one of eight lattice gradients.
func grad(h int, x, y float64) float64 {
	switch h & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}

func floorInt(v float64) int {
	i := int(v)
	if v < float64(i) {
		i--
	}
	return i
}
