package phonon

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/metrics"
	"github.com/san-kum/phonsim/internal/solver"
)

// Mode is the displacement of one unit-cell atom along one Cartesian axis.
type Mode struct {
	Sp, At, Dir int
}

// Result holds the finite-difference derivatives of one run, indexed like
// Modes.
type Result struct {
	Modes []Mode
	E0    float64
	// DGrad[i] is the energy-gradient derivative of every supercell atom
	// with respect to mode i.
	DGrad []solver.IonicGradient
	// DHsub[i][spin] is the derivative of the Γ subspace Hamiltonian.
	DHsub [][]*mat.CDense
}

// Modes lists the displacements ordered by species, atom, then direction.
func (p *Phonon) Modes() []Mode {
	var modes []Mode
	for sp, spec := range p.Unit.Species {
		for at := range spec.AtPos {
			for dir := 0; dir < 3; dir++ {
				modes = append(modes, Mode{Sp: sp, At: at, Dir: dir})
			}
		}
	}
	return modes
}

// Run solves the unit cell and differences forces and subspace Hamiltonians
// over every mode. Displacements are applied to the first replica of each
// atom. Any failed evaluation aborts the run.
func (p *Phonon) Run(observers ...metrics.Metric) (*Result, error) {
	u, s := p.Unit, p.Super
	if err := u.Solve(); err != nil {
		return nil, fail(KindEvaluate, "solve unit cell", err)
	}
	if _, err := u.Evaluate(); err != nil {
		return nil, fail(KindEvaluate, "evaluate unit cell", err)
	}
	if err := p.shareUnitStates(); err != nil {
		return nil, err
	}

	imin := p.Minimizer
	if imin == nil {
		imin = solver.NewIonicMinimizer(s)
	}
	nCells := float64(p.prodSup)

	if err := p.synthesize(); err != nil {
		return nil, err
	}
	var grad0 solver.IonicGradient
	if err := imin.Compute(&grad0); err != nil {
		return nil, fail(KindEvaluate, "unperturbed supercell", err)
	}
	res := &Result{Modes: p.Modes(), E0: s.RelevantFreeEnergy()}
	if p.head() {
		p.Log.Info("unperturbed supercell",
			zap.Float64("energy", res.E0),
			zap.Float64("discrepancy_per_cell", res.E0/nCells-u.RelevantFreeEnergy()),
			zap.Float64("rms_force", grad0.RMS()))
	}

	if err := p.synthesize(); err != nil {
		return nil, err
	}
	hsub0, err := p.subspaceHamiltonians()
	if err != nil {
		return nil, err
	}

	for i, mode := range res.Modes {
		if p.head() {
			p.Log.Info("perturbed supercell calculation",
				zap.Int("mode", i+1), zap.Int("of", len(res.Modes)))
		}
		dir := solver.NewIonicGradient(s.Species)
		dir[mode.Sp][mode.At][mode.Dir] = 1

		if err := imin.Step(dir, p.Dr); err != nil {
			return nil, fail(KindEvaluate, fmt.Sprintf("displace mode %d", i), err)
		}
		var grad solver.IonicGradient
		if err := imin.Compute(&grad); err != nil {
			return nil, fail(KindEvaluate, fmt.Sprintf("evaluate mode %d", i), err)
		}
		res.DGrad = append(res.DGrad, grad.Combine(grad0, func(a, b lattice.Vec3) lattice.Vec3 {
			return a.Sub(b).Scale(1 / p.Dr)
		}))

		sample := metrics.Sample{
			Mode:         i,
			EnergyChange: (s.RelevantFreeEnergy() - res.E0) / nCells,
			RMSForce:     grad.RMS(),
		}
		for _, m := range observers {
			m.Observe(sample)
		}
		if p.head() {
			p.Log.Info("perturbed supercell",
				zap.Float64("energy_change_per_cell", sample.EnergyChange),
				zap.Float64("rms_force", sample.RMSForce))
		}

		if err := p.synthesize(); err != nil {
			return nil, err
		}
		hsub, err := p.subspaceHamiltonians()
		if err != nil {
			return nil, err
		}
		dh := make([]*mat.CDense, len(hsub))
		for spin := range hsub {
			dh[spin] = differenceCDense(hsub[spin], hsub0[spin], p.Dr)
		}
		res.DHsub = append(res.DHsub, dh)

		drag := s.Cntrl.DragWavefunctions
		s.Cntrl.DragWavefunctions = false
		err = imin.Step(dir, -p.Dr)
		s.Cntrl.DragWavefunctions = drag
		if err != nil {
			return nil, fail(KindEvaluate, fmt.Sprintf("restore mode %d", i), err)
		}
	}
	return res, nil
}

// differenceCDense returns (a − b)/h.
func differenceCDense(a, b *mat.CDense, h float64) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(r, c, nil)
	inv := complex(1/h, 0)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (a.At(i, j)-b.At(i, j))*inv)
		}
	}
	return out
}
