package lattice

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var ErrSingular = errors.New("lattice: singular matrix")

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

// Identity returns the 3x3 identity.
func Identity() Mat3 { return Diag(Vec3{1, 1, 1}) }

// Diag returns the diagonal matrix with entries v.
func Diag(v Vec3) Mat3 {
	return Mat3{{v[0], 0, 0}, {0, v[1], 0}, {0, 0, v[2]}}
}

// FromColumns builds a lattice matrix whose columns are a, b, c.
func FromColumns(a, b, c Vec3) Mat3 {
	return Mat3{{a[0], b[0], c[0]}, {a[1], b[1], c[1]}, {a[2], b[2], c[2]}}
}

// Column returns column j, the j-th lattice vector of a lattice matrix.
func (m Mat3) Column(j int) Vec3 { return Vec3{m[0][j], m[1][j], m[2][j]} }

// T returns the transpose.
func (m Mat3) T() Mat3 {
	var t Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = m[j][i]
		}
	}
	return t
}

// Mul returns the matrix product m·o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

// MulVec returns m·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Scale returns f·m.
func (m Mat3) Scale(f float64) Mat3 {
	for i := range m {
		for j := range m[i] {
			m[i][j] *= f
		}
	}
	return m
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return mat.Det(m.dense())
}

// Inverse returns m⁻¹, or ErrSingular.
func (m Mat3) Inverse() (Mat3, error) {
	var inv mat.Dense
	if err := inv.Inverse(m.dense()); err != nil {
		return Mat3{}, ErrSingular
	}
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = inv.At(i, j)
		}
	}
	return r, nil
}

func (m Mat3) dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
}

// Reciprocal returns G = 2π·R⁻¹ and the reciprocal metric GGT = G·Gᵀ.
func Reciprocal(R Mat3) (G, GGT Mat3, err error) {
	inv, err := R.Inverse()
	if err != nil {
		return Mat3{}, Mat3{}, err
	}
	G = inv.Scale(2 * math.Pi)
	return G, G.Mul(G.T()), nil
}

// Volume is the unit-cell volume |det R|.
func Volume(R Mat3) float64 { return math.Abs(R.Det()) }
