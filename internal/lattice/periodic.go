package lattice

import "math"

// DefaultLookupTolerance bounds the metric distance at which two points are
// considered the same periodic point.
const DefaultLookupTolerance = 1e-6

// PeriodicLookup finds points of a fixed list that coincide with a query point
// modulo integer lattice translations, with distances measured in a metric.
type PeriodicLookup struct {
	points []Vec3
	metric Mat3
	tol2   float64
}

func NewPeriodicLookup(points []Vec3, metric Mat3) *PeriodicLookup {
	return &PeriodicLookup{
		points: points,
		metric: metric,
		tol2:   DefaultLookupTolerance * DefaultLookupTolerance,
	}
}

// Find returns the index of the first point equal to x modulo the lattice for
// which accept (if non-nil) also holds.
func (p *PeriodicLookup) Find(x Vec3, accept func(i int) bool) (int, bool) {
	for i, pt := range p.points {
		d := x.Sub(pt)
		for j := 0; j < 3; j++ {
			d[j] -= math.Round(d[j])
		}
		if d.Dot(p.metric.MulVec(d)) > p.tol2 {
			continue
		}
		if accept != nil && !accept(i) {
			continue
		}
		return i, true
	}
	return -1, false
}
