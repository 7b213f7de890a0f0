package lattice

import "math"

// Vec3 is a real triple: fractional or Cartesian positions, k-points.
type Vec3 [3]float64

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Sub returns v − o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

// Scale returns f·v.
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v[0] * f, v[1] * f, v[2] * f} }

// Dot is the Euclidean inner product.
func (v Vec3) Dot(o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

// Norm2 is the squared length.
func (v Vec3) Norm2() float64 { return v.Dot(v) }

// Norm is the Euclidean length.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Norm2()) }

// Round returns the nearest integer vector.
func (v Vec3) Round() IVec3 {
	return IVec3{int(math.Round(v[0])), int(math.Round(v[1])), int(math.Round(v[2]))}
}

// IVec3 is an integer triple: lattice offsets, plane-wave indices, replication counts.
type IVec3 [3]int

// Add returns v + o.
func (v IVec3) Add(o IVec3) IVec3 { return IVec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Neg returns −v.
func (v IVec3) Neg() IVec3 { return IVec3{-v[0], -v[1], -v[2]} }

// IsZero reports whether every component is zero.
func (v IVec3) IsZero() bool { return v[0] == 0 && v[1] == 0 && v[2] == 0 }

// Prod is the product of the components, the cell count of a replication.
func (v IVec3) Prod() int { return v[0] * v[1] * v[2] }

// Float converts to a real vector.
func (v IVec3) Float() Vec3 { return Vec3{float64(v[0]), float64(v[1]), float64(v[2])} }

// Mul multiplies elementwise, i.e. applies diag(v) to o.
func (v IVec3) Mul(o IVec3) IVec3 { return IVec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]} }

// Dot is the integer inner product.
func (v IVec3) Dot(o IVec3) int { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

// Less orders vectors lexicographically.
func (v IVec3) Less(o IVec3) bool {
	for i := 0; i < 3; i++ {
		if v[i] != o[i] {
			return v[i] < o[i]
		}
	}
	return false
}

// Mod reduces each component into [0, n[i]).
func (v IVec3) Mod(n IVec3) IVec3 {
	return IVec3{PositiveRemainder(v[0], n[0]), PositiveRemainder(v[1], n[1]), PositiveRemainder(v[2], n[2])}
}

// PositiveRemainder returns x mod n in [0, n) for positive n.
func PositiveRemainder(x, n int) int {
	r := x % n
	if r < 0 {
		r += n
	}
	return r
}
