package linalg

import (
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestEigenHermitian(t *testing.T) {
	// [[2, i], [-i, 2]] has eigenvalues 1 and 3.
	h := mat.NewCDense(2, 2, []complex128{2, 1i, -1i, 2})
	vals, vecs, err := EigenHermitian(h, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 3}
	for i := range want {
		if math.Abs(vals[i]-want[i]) > 1e-12 {
			t.Errorf("eigenvalue %d = %g, want %g", i, vals[i], want[i])
		}
	}
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			var hv complex128
			for k := 0; k < 2; k++ {
				hv += h.At(i, k) * vecs.At(k, j)
			}
			if cmplx.Abs(hv-complex(vals[j], 0)*vecs.At(i, j)) > 1e-10 {
				t.Errorf("H·v ≠ λ·v for eigenpair %d", j)
			}
		}
	}
}

func TestEigenHermitianDegenerate(t *testing.T) {
	// 3x3 identity-like block with a doubly degenerate eigenvalue.
	h := mat.NewCDense(3, 3, []complex128{
		1, 0, 0,
		0, 1, 0,
		0, 0, 5,
	})
	vals, vecs, err := EigenHermitian(h, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 3 {
		t.Fatalf("expected 3 eigenvalues, got %d", len(vals))
	}
	if math.Abs(vals[0]-1) > 1e-12 || math.Abs(vals[1]-1) > 1e-12 || math.Abs(vals[2]-5) > 1e-12 {
		t.Errorf("eigenvalues = %v, want [1 1 5]", vals)
	}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			var dot complex128
			for i := 0; i < 3; i++ {
				dot += cmplx.Conj(vecs.At(i, a)) * vecs.At(i, b)
			}
			want := complex(0, 0)
			if a == b {
				want = 1
			}
			if cmplx.Abs(dot-want) > 1e-10 {
				t.Errorf("eigenvectors %d,%d not orthonormal: %v", a, b, dot)
			}
		}
	}
}
