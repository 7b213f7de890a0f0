package solver

import (
	"math"

	"github.com/san-kum/phonsim/internal/lattice"
)

// IonicGradient holds one Cartesian vector per atom, grouped by species.
type IonicGradient [][]lattice.Vec3

func NewIonicGradient(species []*Species) IonicGradient {
	g := make(IonicGradient, len(species))
	for sp, s := range species {
		g[sp] = make([]lattice.Vec3, len(s.AtPos))
	}
	return g
}

func (g IonicGradient) Clone() IonicGradient {
	c := make(IonicGradient, len(g))
	for sp := range g {
		c[sp] = append([]lattice.Vec3(nil), g[sp]...)
	}
	return c
}

// Combine returns a new gradient with fn applied to corresponding atoms of g and o.
func (g IonicGradient) Combine(o IonicGradient, fn func(a, b lattice.Vec3) lattice.Vec3) IonicGradient {
	out := make(IonicGradient, len(g))
	for sp := range g {
		out[sp] = make([]lattice.Vec3, len(g[sp]))
		for at := range g[sp] {
			out[sp][at] = fn(g[sp][at], o[sp][at])
		}
	}
	return out
}

// Scale multiplies g in place and returns it.
func (g IonicGradient) Scale(f float64) IonicGradient {
	for sp := range g {
		for at := range g[sp] {
			g[sp][at] = g[sp][at].Scale(f)
		}
	}
	return g
}

func (g IonicGradient) Dot(o IonicGradient) float64 {
	sum := 0.0
	for sp := range g {
		for at := range g[sp] {
			sum += g[sp][at].Dot(o[sp][at])
		}
	}
	return sum
}

// Flatten appends all components to dst, species-major.
func (g IonicGradient) Flatten(dst []float64) []float64 {
	for sp := range g {
		for _, v := range g[sp] {
			dst = append(dst, v[0], v[1], v[2])
		}
	}
	return dst
}

// Unflatten overwrites g from a buffer produced by Flatten.
func (g IonicGradient) Unflatten(src []float64) {
	i := 0
	for sp := range g {
		for at := range g[sp] {
			g[sp][at] = lattice.Vec3{src[i], src[i+1], src[i+2]}
			i += 3
		}
	}
}

// AddScaled accumulates f·o into g.
func (g IonicGradient) AddScaled(o IonicGradient, f float64) {
	for sp := range g {
		for at := range g[sp] {
			g[sp][at] = g[sp][at].Add(o[sp][at].Scale(f))
		}
	}
}

// RMS is the root-mean-square atom vector length.
func (g IonicGradient) RMS() float64 {
	n := 0
	for sp := range g {
		n += len(g[sp])
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(g.Dot(g) / float64(n))
}
