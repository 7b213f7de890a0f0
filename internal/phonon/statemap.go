package phonon

import (
	"fmt"

	"github.com/san-kum/phonsim/internal/elec"
	"github.com/san-kum/phonsim/internal/lattice"
)

// StateMapEntry records where unit-cell state q lands in the supercell.
type StateMapEntry struct {
	// QSup indexes the supercell state that q folds into.
	QSup int
	// IG is the residual reciprocal lattice vector of q after folding.
	IG lattice.IVec3
	// NqPrev counts the states mapped to QSup before this one.
	NqPrev int
	// Index maps unit-cell plane waves of q to supercell plane waves of QSup.
	// It is only built when QSup is owned locally.
	Index []int
}

func (p *Phonon) mapStates() error {
	u, s := p.Unit, p.Super
	sup := p.Sup.Float()

	points := make([]lattice.Vec3, s.Elec.NStates())
	for q, qn := range s.Elec.QNums {
		points[q] = qn.K
	}
	lookup := lattice.NewPeriodicLookup(points, s.GGT)

	nqPrev := make([]int, s.Elec.NStates())
	p.StateMap = make([]StateMapEntry, u.Elec.NStates())
	for q, qn := range u.Elec.QNums {
		var kSup lattice.Vec3
		for j := 0; j < 3; j++ {
			kSup[j] = qn.K[j] * sup[j]
		}
		qSup, ok := lookup.Find(kSup, func(i int) bool {
			return elec.SpinEqual(qn, s.Elec.QNums[i])
		})
		if !ok {
			return fail(KindLookup, "map states", fmt.Errorf("%w: state %d at k=%v", ErrStateLookup, q, qn.K))
		}
		p.StateMap[q] = StateMapEntry{
			QSup:   qSup,
			IG:     kSup.Sub(s.Elec.QNums[qSup].K).Round(),
			NqPrev: nqPrev[qSup],
		}
		nqPrev[qSup]++
	}
	for qSup, n := range nqPrev {
		if n != p.prodSup {
			return fail(KindCompleteness, "map states",
				fmt.Errorf("%w: state %d has %d, want %d", ErrIncompleteMap, qSup, n, p.prodSup))
		}
	}
	return nil
}

// indexTable maps plane waves within a bounding box to basis indices.
type indexTable struct {
	box   lattice.IVec3
	pitch lattice.IVec3
	index []int
}

func newIndexTable(box lattice.IVec3, basis elec.Basis) *indexTable {
	t := &indexTable{box: box}
	t.pitch[2] = 1
	t.pitch[1] = 2*box[2] + 1
	t.pitch[0] = t.pitch[1] * (2*box[1] + 1)
	t.index = make([]int, t.pitch[0]*(2*box[0]+1))
	for i := range t.index {
		t.index[i] = -1
	}
	for n, iG := range basis.IGArr {
		if off, ok := t.offset(iG); ok {
			t.index[off] = n
		}
	}
	return t
}

func (t *indexTable) offset(iG lattice.IVec3) (int, bool) {
	off := 0
	for j := 0; j < 3; j++ {
		if iG[j] < -t.box[j] || iG[j] > t.box[j] {
			return 0, false
		}
		off += (iG[j] + t.box[j]) * t.pitch[j]
	}
	return off, true
}

func (t *indexTable) lookup(iG lattice.IVec3) int {
	off, ok := t.offset(iG)
	if !ok {
		return -1
	}
	return t.index[off]
}

// buildRemap fills StateMapEntry.Index for every unit-cell state folding into
// a locally owned supercell state.
func (p *Phonon) buildRemap() error {
	u, s := p.Unit, p.Super
	box := elec.IGBox(s.R, s.Cntrl.Ecut)
	for qSup := s.Elec.QStart(); qSup < s.Elec.QStop(); qSup++ {
		table := newIndexTable(box, s.Basis[qSup])
		for q := range p.StateMap {
			m := &p.StateMap[q]
			if m.QSup != qSup {
				continue
			}
			unitBasis := u.Basis[q]
			m.Index = make([]int, unitBasis.NBasis())
			for n, iG := range unitBasis.IGArr {
				iGSup := p.Sup.Mul(iG).Add(m.IG)
				idx := table.lookup(iGSup)
				if idx < 0 {
					return fail(KindRemap, "build basis remap",
						fmt.Errorf("%w: state %d plane wave %v -> %v", ErrBasisRemap, q, iG, iGSup))
				}
				m.Index[n] = idx
			}
		}
	}
	return nil
}
