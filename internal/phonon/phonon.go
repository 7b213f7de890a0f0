package phonon

import (
	"go.uber.org/zap"

	"github.com/san-kum/phonsim/internal/comm"
	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/solver"
)

// DefaultDr is the default finite-difference displacement in bohrs.
const DefaultDr = 0.01

// Minimizer moves the ions of the supercell and evaluates the energy
// gradient there.
type Minimizer interface {
	Step(dir solver.IonicGradient, alpha float64) error
	Compute(grad *solver.IonicGradient) error
}

// Phonon holds a unit cell, the supercell derived from it and the state map
// between the two.
type Phonon struct {
	Sup lattice.IVec3
	Dr  float64

	// KPoints is the k-point list the unit mesh is folded from. It must be
	// exactly Γ.
	KPoints    []lattice.Vec3
	Symmetries bool

	Unit  *solver.System
	Super *solver.System

	// Minimizer drives the supercell; nil selects a solver.IonicMinimizer.
	Minimizer Minimizer

	Comm comm.Comm
	Log  *zap.Logger

	StateMap []StateMapEntry
	prodSup  int
}

// New returns a Phonon for unit with the default displacement and a Γ-only
// k-point list.
func New(unit *solver.System, sup lattice.IVec3) *Phonon {
	return &Phonon{
		Sup:     sup,
		Dr:      DefaultDr,
		KPoints: []lattice.Vec3{{0, 0, 0}},
		Unit:    unit,
	}
}

func (p *Phonon) head() bool { return comm.IsHead(p.Comm) }
