// Package linalg adds the complex Hermitian eigensolver missing from gonum's
// mat package, built on the real symmetric solver.
package linalg

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

var ErrNoConvergence = errors.New("linalg: eigendecomposition did not converge")

// EigenHermitian diagonalizes the Hermitian matrix h and returns its n lowest
// eigenvalues in ascending order together with orthonormal eigenvectors as
// the columns of an r×n matrix.
//
// h = A + iB is embedded as the real symmetric [[A, −B], [B, A]], whose
// spectrum is that of h with every eigenvalue doubled. Complex eigenvectors
// are recovered by Gram-Schmidt over the embedded eigenvectors in ascending
// order, which discards the partner of each doubled pair.
func EigenHermitian(h *mat.CDense, n int) ([]float64, *mat.CDense, error) {
	r, _ := h.Dims()
	if n > r {
		n = r
	}
	emb := mat.NewSymDense(2*r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			v := h.At(i, j)
			if i == j {
				v = complex(real(v), 0)
			}
			a, b := real(v), imag(v)
			emb.SetSym(i, j, a)
			emb.SetSym(i+r, j+r, a)
			emb.SetSym(i+r, j, b)
			emb.SetSym(j+r, i, -b)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(emb, true); !ok {
		return nil, nil, ErrNoConvergence
	}
	vals := es.Values(nil)
	var ev mat.Dense
	es.VectorsTo(&ev)

	outVals := make([]float64, 0, n)
	accepted := make([][]complex128, 0, n)
	for j := 0; j < 2*r && len(accepted) < n; j++ {
		v := make([]complex128, r)
		for i := 0; i < r; i++ {
			v[i] = complex(ev.At(i, j), ev.At(i+r, j))
		}
		for _, u := range accepted {
			var p complex128
			for i := range u {
				p += cmplx.Conj(u[i]) * v[i]
			}
			for i := range v {
				v[i] -= p * u[i]
			}
		}
		norm := 0.0
		for _, x := range v {
			norm += real(x)*real(x) + imag(x)*imag(x)
		}
		norm = math.Sqrt(norm)
		if norm < 0.5 {
			continue
		}
		for i := range v {
			v[i] /= complex(norm, 0)
		}
		accepted = append(accepted, v)
		outVals = append(outVals, vals[j])
	}

	vecs := mat.NewCDense(r, len(accepted), nil)
	for j, v := range accepted {
		for i, x := range v {
			vecs.Set(i, j, x)
		}
	}
	return outVals, vecs, nil
}
