package solver

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/elec"
	"github.com/san-kum/phonsim/internal/linalg"
)

// Solve diagonalizes every owned state, shares eigenvalues with all ranks and
// sets fillings, the aux Hamiltonian and fillings energies.
func (s *System) Solve() error {
	nb := s.Elec.NBands
	for q := s.Elec.QStart(); q < s.Elec.QStop(); q++ {
		n := s.Basis[q].NBasis()
		if n < nb {
			return fmt.Errorf("%w: state %d has %d plane waves for %d bands", ErrNoBasis, q, n, nb)
		}
		vals, vecs, err := linalg.EigenHermitian(s.Hamiltonian(q), nb)
		if err != nil {
			return fmt.Errorf("state %d: %w", q, err)
		}
		C := s.C[q]
		norm := complex(1/math.Sqrt(s.Volume()), 0)
		for b := 0; b < nb; b++ {
			s.Eigs[q][b] = vals[b]
			for i := 0; i < n; i++ {
				C.Data[C.Index(b, i)] = norm * vecs.At(i, b)
			}
		}
		s.Project(q)
	}

	for q := 0; q < s.Elec.NStates(); q++ {
		if s.Eigs[q] == nil {
			s.Eigs[q] = make([]float64, nb)
		}
		if err := s.Comm.BcastFloat(s.Eigs[q], s.Elec.Whose(q)); err != nil {
			return err
		}
	}

	var F [][]float64
	var err error
	if s.Elec.Fillings.IsFermi() {
		s.Mu, F, err = elec.Fermi(s.Eigs, s.Elec.QNums, s.Elec.NElectrons, s.Elec.Smearing)
	} else {
		F, err = elec.Constant(s.Elec.NStates(), nb, s.Elec.NElectrons)
	}
	if err != nil {
		return err
	}
	for q := s.Elec.QStart(); q < s.Elec.QStop(); q++ {
		copy(s.F[q], F[q])
		if s.Elec.Fillings == elec.FermiFillingsAux {
			s.B[q] = mat.NewCDense(nb, nb, nil)
			for b := 0; b < nb; b++ {
				s.B[q].Set(b, b, complex(s.Eigs[q][b], 0))
			}
		}
	}
	s.HauxInitialized = s.Elec.Fillings == elec.FermiFillingsAux

	if err := s.UpdateFillingsEnergies(); err != nil {
		return err
	}
	s.Log.Debug("electronic state solved", zap.String("cell", s.Name), zap.Float64("mu", s.Mu))
	return nil
}
