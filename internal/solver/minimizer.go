package solver

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/phonsim/internal/lattice"
)

// IonicMinimizer moves the ions of a System and evaluates forces there.
// It carries no line search; callers choose every step.
type IonicMinimizer struct {
	sys *System
}

func NewIonicMinimizer(sys *System) *IonicMinimizer {
	return &IonicMinimizer{sys: sys}
}

func (m *IonicMinimizer) System() *System { return m.sys }

// Step displaces every atom by alpha·dir (Cartesian). With wavefunction drag
// enabled, owned orbitals follow the mean displacement.
func (m *IonicMinimizer) Step(dir IonicGradient, alpha float64) error {
	s := m.sys
	invR, err := s.R.Inverse()
	if err != nil {
		return err
	}
	var mean lattice.Vec3
	n := 0
	for sp, species := range s.Species {
		for at := range species.AtPos {
			d := dir[sp][at].Scale(alpha)
			species.AtPos[at] = species.AtPos[at].Add(invR.MulVec(d))
			mean = mean.Add(d)
			n++
		}
	}
	if s.Cntrl.DragWavefunctions && n > 0 {
		s.drag(invR.MulVec(mean.Scale(1 / float64(n))))
	}
	return nil
}

// Compute relaxes the electronic state at the current geometry and stores the
// energy gradient (minus the forces) in grad.
func (m *IonicMinimizer) Compute(grad *IonicGradient) error {
	if err := m.sys.Solve(); err != nil {
		return err
	}
	forces, err := m.sys.Evaluate()
	if err != nil {
		return err
	}
	*grad = forces.Scale(-1)
	return nil
}

// drag translates owned orbitals by the fractional displacement d.
func (s *System) drag(d lattice.Vec3) {
	for q := s.Elec.QStart(); q < s.Elec.QStop(); q++ {
		C := s.C[q]
		if C == nil {
			continue
		}
		k := s.Elec.QNums[q].K
		for i, iG := range s.Basis[q].IGArr {
			phase := cmplx.Exp(complex(0, -2*math.Pi*k.Add(iG.Float()).Dot(d)))
			for b := 0; b < C.NBands; b++ {
				C.Data[C.Index(b, i)] *= phase
			}
		}
		s.Project(q)
	}
}
