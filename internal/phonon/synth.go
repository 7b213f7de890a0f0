package phonon

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/compute"
	"github.com/san-kum/phonsim/internal/elec"
	"github.com/san-kum/phonsim/internal/solver"
)

// shareUnitStates broadcasts every unit-cell state from its owner so that all
// ranks hold the full unit-cell electronic state.
func (p *Phonon) shareUnitStates() error {
	u := p.Unit
	aux := u.Elec.Fillings == elec.FermiFillingsAux
	for q := 0; q < u.Elec.NStates(); q++ {
		owner := u.Elec.Whose(q)
		if u.C[q] == nil {
			eigs := u.Eigs[q]
			u.Alloc(q)
			if eigs != nil {
				u.Eigs[q] = eigs
			}
		}
		if err := p.Comm.BcastComplex(u.C[q].Data, owner); err != nil {
			return fail(KindTransport, "share unit states", err)
		}
		if err := p.Comm.BcastFloat(u.F[q], owner); err != nil {
			return fail(KindTransport, "share unit states", err)
		}
		if aux {
			if err := p.Comm.BcastComplex(u.B[q].RawCMatrix().Data, owner); err != nil {
				return fail(KindTransport, "share unit states", err)
			}
		}
		if !u.Elec.IsMine(q) {
			u.Project(q)
		}
	}
	return nil
}

// synthesize rebuilds every owned supercell state from the unit-cell states.
// Each unit-cell state occupies its own block of nBands supercell bands.
func (p *Phonon) synthesize() error {
	u, s := p.Unit, p.Super
	nb := u.Elec.NBands
	aux := s.Elec.Fillings == elec.FermiFillingsAux
	scale := 1 / math.Sqrt(float64(p.prodSup))

	for q := s.Elec.QStart(); q < s.Elec.QStop(); q++ {
		s.C[q].Zero()
		if aux {
			s.B[q] = mat.NewCDense(s.Elec.NBands, s.Elec.NBands, nil)
		}
	}
	for q, m := range p.StateMap {
		if !s.Elec.IsMine(m.QSup) {
			continue
		}
		src := u.C[q]
		if src == nil {
			return fail(KindTransport, "synthesize supercell state",
				fmt.Errorf("%w: unit-cell state %d", solver.ErrMissingData, q))
		}
		dst := s.C[m.QSup]
		off := m.NqPrev * nb
		compute.ScatterBands(nb, m.Index, scale, src.Band, func(b int) []complex128 {
			return dst.Band(b + off)
		})
		copy(s.F[m.QSup][off:off+nb], u.F[q])
		copy(s.Eigs[m.QSup][off:off+nb], u.Eigs[q])
		if aux {
			for a := 0; a < nb; a++ {
				for b := 0; b < nb; b++ {
					s.B[m.QSup].Set(off+a, off+b, u.B[q].At(a, b))
				}
			}
		}
	}
	for q := s.Elec.QStart(); q < s.Elec.QStop(); q++ {
		s.Project(q)
	}
	s.Mu = u.Mu
	s.HauxInitialized = aux
	if err := s.UpdateFillingsEnergies(); err != nil {
		return fail(KindTransport, "synthesize supercell state", err)
	}
	return nil
}

// subspaceHamiltonians returns the Γ-point subspace Hamiltonian of each spin
// channel of the supercell, broadcast from its owner.
func (p *Phonon) subspaceHamiltonians() ([]*mat.CDense, error) {
	s := p.Super
	nSpins := s.Elec.NSpins()
	nb := s.Elec.NBands
	out := make([]*mat.CDense, nSpins)
	for spin := 0; spin < nSpins; spin++ {
		qSup := spin * (s.Elec.NStates() / nSpins)
		var h *mat.CDense
		if s.Elec.IsMine(qSup) {
			var err error
			if h, err = s.SubspaceHamiltonian(qSup); err != nil {
				return nil, fail(KindEvaluate, "subspace hamiltonian", err)
			}
		} else {
			h = mat.NewCDense(nb, nb, nil)
		}
		if err := p.Comm.BcastComplex(h.RawCMatrix().Data, s.Elec.Whose(qSup)); err != nil {
			return nil, fail(KindTransport, "subspace hamiltonian", err)
		}
		out[spin] = h
	}
	return out, nil
}
