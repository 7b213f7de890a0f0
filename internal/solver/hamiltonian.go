package solver

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/lattice"
)

// localPotential returns V(iG) for a reciprocal-lattice difference iG:
// −(Z/Ω)·exp(−½|g|²σ²)·Σ_a exp(−2πi iG·x_a), summed over species.
func (s *System) localPotential(iG lattice.IVec3) complex128 {
	g := iG.Float()
	g2 := g.Dot(s.GGT.MulVec(g))
	invVol := 1 / s.Volume()
	var v complex128
	for _, sp := range s.Species {
		if sp.Z == 0 {
			continue
		}
		amp := -sp.Z * invVol * math.Exp(-0.5*g2*sp.Width*sp.Width)
		var sf complex128
		for _, x := range sp.AtPos {
			sf += cmplx.Exp(complex(0, -2*math.Pi*g.Dot(x)))
		}
		v += complex(amp, 0) * sf
	}
	return v
}

// Hamiltonian assembles the dense plane-wave Hamiltonian of state q.
func (s *System) Hamiltonian(q int) *mat.CDense {
	basis := s.Basis[q]
	n := basis.NBasis()
	h := mat.NewCDense(n, n, nil)
	cache := make(map[lattice.IVec3]complex128)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := basis.IGArr[i].Add(basis.IGArr[j].Neg())
			v, ok := cache[d]
			if !ok {
				v = s.localPotential(d)
				cache[d] = v
			}
			if i == j {
				v += complex(basis.KineticEnergy(i), 0)
			}
			h.Set(i, j, v)
			h.Set(j, i, cmplx.Conj(v))
		}
	}
	return h
}

// SubspaceHamiltonian returns Ω·C†HC for an owned state q.
func (s *System) SubspaceHamiltonian(q int) (*mat.CDense, error) {
	C := s.C[q]
	if C == nil {
		return nil, fmt.Errorf("%w: state %d", ErrMissingData, q)
	}
	h := s.Hamiltonian(q)
	nb, n := C.NBands, C.NBasis
	hc := make([]complex128, nb*n)
	for b := 0; b < nb; b++ {
		cb := C.Band(b)
		for i := 0; i < n; i++ {
			var sum complex128
			for j := 0; j < n; j++ {
				sum += h.At(i, j) * cb[j]
			}
			hc[b*n+i] = sum
		}
	}
	vol := complex(s.Volume(), 0)
	hsub := mat.NewCDense(nb, nb, nil)
	for a := 0; a < nb; a++ {
		ca := C.Band(a)
		for b := 0; b < nb; b++ {
			var sum complex128
			for i := 0; i < n; i++ {
				sum += cmplx.Conj(ca[i]) * hc[b*n+i]
			}
			hsub.Set(a, b, vol*sum)
		}
	}
	return hsub, nil
}
