package phonon

import (
	"github.com/san-kum/phonsim/internal/elec"
	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/solver"
)

// simpleCubic has one atom per cell, a nearest-neighbour Morse bond at
// equilibrium and one filled band per k-point.
func simpleCubic(kfold lattice.IVec3) *solver.System {
	return &solver.System{
		Name: "unit",
		R:    lattice.Diag(lattice.Vec3{5, 5, 5}),
		Grid: lattice.IVec3{12, 12, 12},
		Species: []*solver.Species{{
			Name: "X", Mass: 2, Z: 0.5, Width: 1,
			AtPos: []lattice.Vec3{{0, 0, 0}},
		}},
		Elec: elec.Info{
			NBands:     1,
			KFold:      kfold,
			Fillings:   elec.ConstantFillings,
			NElectrons: 2,
		},
		Cntrl: solver.Control{Ecut: 1.5},
		Pair:  solver.Morse{D: 0.05, A: 1, R0: 5, Rc: 8},
	}
}

// cesiumChloride has two species of different mass on interpenetrating
// cubic lattices.
func cesiumChloride(kfold lattice.IVec3) *solver.System {
	sys := simpleCubic(kfold)
	sys.Species = []*solver.Species{
		{Name: "A", Mass: 2, Z: 0.5, Width: 1, AtPos: []lattice.Vec3{{0, 0, 0}}},
		{Name: "B", Mass: 5, Z: 0.3, Width: 0.8, AtPos: []lattice.Vec3{{0.5, 0.5, 0.5}}},
	}
	sys.Pair = solver.Morse{D: 0.05, A: 1, R0: 4.5, Rc: 7}
	return sys
}

func newPhonon(unit *solver.System, sup lattice.IVec3) *Phonon {
	p := New(unit, sup)
	return p
}
