package phonon

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/phonsim/internal/comm"
	"github.com/san-kum/phonsim/internal/elec"
	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/solver"
)

// Setup validates the run, initializes the unit cell, builds the supercell and
// maps states between them.
func (p *Phonon) Setup() error {
	if p.Comm == nil {
		p.Comm = comm.Single{}
	}
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	if p.Dr == 0 {
		p.Dr = DefaultDr
	}
	if err := p.checkConfig(); err != nil {
		return err
	}
	if p.Unit.Grid.IsZero() {
		p.Log.Warn("no grid given; sampling grid will not scale with the supercell")
	}

	p.Unit.Comm, p.Unit.Log = p.Comm, p.Log
	if p.head() {
		p.Log.Info("initializing for unit cell")
	}
	if err := p.Unit.Setup(); err != nil {
		return fail(KindConfig, "setup unit cell", err)
	}

	p.Super = p.buildSupercell()
	if p.head() {
		p.Log.Info("initializing for supercell", zap.Ints("sup", p.Sup[:]))
	}
	if err := p.Super.Setup(); err != nil {
		return fail(KindConfig, "setup supercell", err)
	}

	if err := p.mapStates(); err != nil {
		return err
	}
	return p.buildRemap()
}

func (p *Phonon) checkConfig() error {
	const op = "check configuration"
	for j := 0; j < 3; j++ {
		if p.Sup[j] <= 0 {
			return fail(KindConfig, op, fmt.Errorf("%w: %v", ErrNoSupercell, p.Sup))
		}
	}
	if p.Symmetries {
		return fail(KindConfig, op, ErrSymmetries)
	}
	if len(p.KPoints) != 1 {
		return fail(KindConfig, op, fmt.Errorf("%w: got %d", ErrKMesh, len(p.KPoints)))
	}
	if p.KPoints[0].Norm2() != 0 {
		return fail(KindConfig, op, fmt.Errorf("%w: got %v", ErrNotGamma, p.KPoints[0]))
	}
	kfold := p.Unit.Elec.KFold
	for j := 0; j < 3; j++ {
		if kfold[j]%p.Sup[j] != 0 {
			return fail(KindConfig, op, fmt.Errorf("%w: kfold[%d]=%d, sup[%d]=%d", ErrFolding, j, kfold[j], j, p.Sup[j]))
		}
	}
	p.prodSup = p.Sup.Prod()
	return nil
}

// buildSupercell replicates the unit cell. Atoms are ordered cell-major
// (last direction fastest) within each species.
func (p *Phonon) buildSupercell() *solver.System {
	u := p.Unit
	sup := p.Sup
	supDiag := lattice.Diag(sup.Float())
	invSup := lattice.Diag(lattice.Vec3{1 / float64(sup[0]), 1 / float64(sup[1]), 1 / float64(sup[2])})

	species := solver.CloneSpecies(u.Species)
	for _, sp := range species {
		atpos := make([]lattice.Vec3, 0, len(sp.AtPos)*p.prodSup)
		var iR lattice.IVec3
		for iR[0] = 0; iR[0] < sup[0]; iR[0]++ {
			for iR[1] = 0; iR[1] < sup[1]; iR[1]++ {
				for iR[2] = 0; iR[2] < sup[2]; iR[2]++ {
					for _, x := range sp.AtPos {
						atpos = append(atpos, invSup.MulVec(x.Add(iR.Float())))
					}
				}
			}
		}
		sp.AtPos = atpos
	}

	var kfold lattice.IVec3
	for j := 0; j < 3; j++ {
		kfold[j] = u.Elec.KFold[j] / sup[j]
	}

	s := &solver.System{
		Name:    "supercell",
		R:       u.R.Mul(supDiag),
		Grid:    sup.Mul(u.Grid),
		Species: species,
		Elec: elec.Info{
			NBands:        u.Elec.NBands * p.prodSup,
			KFold:         kfold,
			SpinPolarized: u.Elec.SpinPolarized,
			Fillings:      u.Elec.Fillings,
			Smearing:      u.Elec.Smearing,
			NElectrons:    u.Elec.NElectrons * float64(p.prodSup),
		},
		Cntrl: u.Cntrl,
		Files: u.Files,
		Pair:  u.Pair,
		Comm:  p.Comm,
		Log:   p.Log,
	}
	// Initial-state files describe the unit cell only.
	s.Files.Clear()
	return s
}
