package solver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/comm"
	"github.com/san-kum/phonsim/internal/elec"
	"github.com/san-kum/phonsim/internal/lattice"
)

var (
	ErrNoSpecies   = errors.New("solver: no species defined")
	ErrNoBasis     = errors.New("solver: basis smaller than band count")
	ErrBadMass     = errors.New("solver: species mass must be positive")
	ErrMissingData = errors.New("solver: state not available on this rank")
)

type Control struct {
	Ecut              float64
	DragWavefunctions bool
}

// Files lists initial-state inputs. A supercell derived from a unit cell
// cannot reuse them and clears them.
type Files struct {
	Wavefunctions string
	Haux          string
	Eigenvalues   string
	Fillings      string
}

func (f *Files) Clear() { *f = Files{} }

type Energies struct {
	Pair    float64
	Band    float64
	MinusTS float64
}

// E is the energy without the smearing entropy.
func (e Energies) E() float64 { return e.Pair + e.Band }

// F is the free energy.
func (e Energies) F() float64 { return e.E() + e.MinusTS }

// System is one periodic cell with its ions and electronic state.
type System struct {
	Name    string
	R       lattice.Mat3
	Grid    lattice.IVec3
	Species []*Species
	Elec    elec.Info
	Cntrl   Control
	Files   Files
	Pair    PairPotential
	Comm    comm.Comm
	Log     *zap.Logger

	G, GGT lattice.Mat3
	Basis  []elec.Basis

	// Per-state electronic variables; entries are nil for states neither
	// owned by nor broadcast to this rank.
	C       []*elec.ColumnBundle
	Y       []*elec.ColumnBundle
	Overlap []*mat.CDense
	F       [][]float64
	B       []*mat.CDense
	Eigs    [][]float64

	HauxInitialized bool
	Mu              float64
	Ener            Energies
}

// Setup derives reciprocal quantities, the k mesh and distribution, and
// allocates owned states.
func (s *System) Setup() error {
	if len(s.Species) == 0 {
		return ErrNoSpecies
	}
	for _, sp := range s.Species {
		if sp.Mass <= 0 {
			return fmt.Errorf("%w: %s", ErrBadMass, sp.Name)
		}
	}
	if s.Comm == nil {
		s.Comm = comm.Single{}
	}
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	var err error
	s.G, s.GGT, err = lattice.Reciprocal(s.R)
	if err != nil {
		return fmt.Errorf("%s lattice: %w", s.Name, err)
	}
	s.Elec.Setup(s.Comm.Size(), s.Comm.Rank())

	n := s.Elec.NStates()
	s.Basis = make([]elec.Basis, n)
	s.C = make([]*elec.ColumnBundle, n)
	s.Y = make([]*elec.ColumnBundle, n)
	s.Overlap = make([]*mat.CDense, n)
	s.F = make([][]float64, n)
	s.B = make([]*mat.CDense, n)
	s.Eigs = make([][]float64, n)
	for q := 0; q < n; q++ {
		s.Basis[q] = elec.NewBasis(s.R, s.GGT, s.Elec.QNums[q].K, s.Cntrl.Ecut)
		if s.Elec.IsMine(q) {
			s.Alloc(q)
		}
	}
	s.Log.Info("cell initialized",
		zap.String("cell", s.Name),
		zap.Int("atoms", s.NAtoms()),
		zap.Int("states", n),
		zap.Int("bands", s.Elec.NBands),
		zap.Int("basis0", s.Basis[0].NBasis()))
	return nil
}

// Alloc allocates zeroed storage for state q.
func (s *System) Alloc(q int) {
	nb := s.Elec.NBands
	s.C[q] = elec.NewColumnBundle(nb, s.Basis[q].NBasis())
	s.F[q] = make([]float64, nb)
	s.Eigs[q] = make([]float64, nb)
	if s.Elec.Fillings == elec.FermiFillingsAux {
		s.B[q] = mat.NewCDense(nb, nb, nil)
	}
}

func (s *System) NAtoms() int {
	n := 0
	for _, sp := range s.Species {
		n += len(sp.AtPos)
	}
	return n
}

func (s *System) Volume() float64 { return lattice.Volume(s.R) }

// Project refreshes the quantities derived from the orbitals of state q.
// Orbitals are normalized over the cell volume, so Overlap is Ω·C†C.
func (s *System) Project(q int) {
	s.Y[q] = s.C[q].Clone()
	o := s.C[q].Overlap()
	vol := complex(s.Volume(), 0)
	n, _ := o.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			o.Set(i, j, vol*o.At(i, j))
		}
	}
	s.Overlap[q] = o
}

// RelevantFreeEnergy is F for smeared fillings and E otherwise.
func (s *System) RelevantFreeEnergy() float64 {
	if s.Elec.Fillings.IsFermi() {
		return s.Ener.F()
	}
	return s.Ener.E()
}
