package solver

import "github.com/san-kum/phonsim/internal/lattice"

// Amu is the atomic mass unit in electron masses.
const Amu = 1822.888486

type Species struct {
	Name string
	// Mass in amu.
	Mass float64
	// Z and Width define the Gaussian local pseudopotential.
	Z     float64
	Width float64
	// AtPos holds fractional coordinates.
	AtPos []lattice.Vec3
}

func (s *Species) Clone() *Species {
	c := *s
	c.AtPos = append([]lattice.Vec3(nil), s.AtPos...)
	return &c
}

func CloneSpecies(in []*Species) []*Species {
	out := make([]*Species, len(in))
	for i, sp := range in {
		out[i] = sp.Clone()
	}
	return out
}
