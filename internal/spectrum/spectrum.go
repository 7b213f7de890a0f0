// Package spectrum evaluates a real-space dynamical matrix at arbitrary
// wavevectors.
package spectrum

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/linalg"
)

var ErrMismatch = errors.New("spectrum: cell map and block count differ")

// AtQ returns D(q) = Σ_R M(R)·exp(2πi q·R) for q in reciprocal lattice
// coordinates. Blocks already carry their cell weights.
func AtQ(cells lattice.CellMap, blocks []*mat.Dense, q lattice.Vec3) (*mat.CDense, error) {
	if len(cells) != len(blocks) || len(blocks) == 0 {
		return nil, ErrMismatch
	}
	n, _ := blocks[0].Dims()
	d := mat.NewCDense(n, n, nil)
	for c, cell := range cells {
		phase := cmplx.Exp(complex(0, 2*math.Pi*q.Dot(cell.Offset.Float())))
		b := blocks[c]
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				d.Set(i, j, d.At(i, j)+phase*complex(b.At(i, j), 0))
			}
		}
	}
	return d, nil
}

// Frequencies returns the eigenvalues of the Hermitian D as signed
// frequencies sign(λ)·sqrt(|λ|), ascending. Imaginary modes come out negative.
func Frequencies(d *mat.CDense) ([]float64, error) {
	n, _ := d.Dims()
	vals, _, err := linalg.EigenHermitian(d, n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Copysign(math.Sqrt(math.Abs(v)), v)
	}
	return out, nil
}

// Path samples n points on each straight segment between consecutive
// vertices, including the final vertex.
func Path(vertices []lattice.Vec3, n int) []lattice.Vec3 {
	if len(vertices) == 0 {
		return nil
	}
	var out []lattice.Vec3
	for s := 0; s+1 < len(vertices); s++ {
		a, b := vertices[s], vertices[s+1]
		for i := 0; i < n; i++ {
			t := float64(i) / float64(n)
			out = append(out, a.Add(b.Sub(a).Scale(t)))
		}
	}
	return append(out, vertices[len(vertices)-1])
}

// Bands returns the frequencies along path, one slice per branch.
func Bands(cells lattice.CellMap, blocks []*mat.Dense, path []lattice.Vec3) ([][]float64, error) {
	var branches [][]float64
	for _, q := range path {
		d, err := AtQ(cells, blocks, q)
		if err != nil {
			return nil, err
		}
		freqs, err := Frequencies(d)
		if err != nil {
			return nil, err
		}
		if branches == nil {
			branches = make([][]float64, len(freqs))
		}
		for b, f := range freqs {
			branches[b] = append(branches[b], f)
		}
	}
	return branches, nil
}
