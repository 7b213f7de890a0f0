package phonon

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/metrics"
	"github.com/san-kum/phonsim/internal/solver"
)

// Matrix is the dynamical matrix in real space: one block per cell of Cells,
// in units of frequency squared.
type Matrix struct {
	R      lattice.Mat3
	Sup    lattice.IVec3
	Cells  lattice.CellMap
	Blocks []*mat.Dense
	Modes  []Mode

	SpeciesNames []string
	// Masses in amu, per species.
	Masses []float64
	// Drift is the norm of the sum-rule correction that was removed.
	Drift float64
}

func (m *Matrix) NModes() int { return len(m.Modes) }

// Assemble mass-weights the force derivatives, maps them onto the cell map
// and enforces Hermiticity and the acoustic sum rule.
func (p *Phonon) Assemble(res *Result, observers ...metrics.Metric) (*Matrix, error) {
	u := p.Unit
	if err := checkModeOrder(res.Modes, u.Species); err != nil {
		return nil, err
	}
	if len(res.DGrad) != len(res.Modes) {
		return nil, fail(KindEvaluate, "assemble", fmt.Errorf("%d force derivatives for %d modes", len(res.DGrad), len(res.Modes)))
	}

	out := &Matrix{R: u.R, Sup: p.Sup, Modes: res.Modes}
	invSqrtM := make([]float64, len(u.Species))
	for sp, species := range u.Species {
		out.SpeciesNames = append(out.SpeciesNames, species.Name)
		out.Masses = append(out.Masses, species.Mass)
		invSqrtM[sp] = 1 / math.Sqrt(species.Mass*solver.Amu)
	}

	weighted := make([]solver.IonicGradient, len(res.Modes))
	for i, mode := range res.Modes {
		g := res.DGrad[i].Clone()
		for sp := range g {
			for at := range g[sp] {
				g[sp][at] = g[sp][at].Scale(invSqrtM[mode.Sp] * invSqrtM[sp])
			}
		}
		weighted[i] = g
	}

	cells, err := lattice.NewCellMap(u.R, p.Super.R)
	if err != nil {
		return nil, fail(KindConfig, "cell map", err)
	}
	out.Cells = cells
	nModes := len(res.Modes)
	for _, cell := range cells {
		c := cell.Offset.Mod(p.Sup)
		cellIndex := (c[0]*p.Sup[1]+c[1])*p.Sup[2] + c[2]
		block := mat.NewDense(nModes, nModes, nil)
		for i := range res.Modes {
			for j, mj := range res.Modes {
				nAt := len(u.Species[mj.Sp].AtPos)
				block.Set(i, j, cell.Weight*weighted[i][mj.Sp][mj.At+cellIndex*nAt][mj.Dir])
			}
		}
		out.Blocks = append(out.Blocks, block)
	}

	if err := hermitize(out.Cells, out.Blocks); err != nil {
		return nil, err
	}
	out.Drift = enforceSumRule(out, p.prodSup)
	for _, m := range observers {
		m.Observe(metrics.Sample{Mode: -1, Drift: out.Drift})
	}
	return out, nil
}

// checkModeOrder requires modes to come in consecutive x, y, z triples per
// atom, atoms ordered within species. The sum rule depends on it.
func checkModeOrder(modes []Mode, species []*solver.Species) error {
	k := 0
	for sp, s := range species {
		for at := range s.AtPos {
			for dir := 0; dir < 3; dir++ {
				want := Mode{Sp: sp, At: at, Dir: dir}
				if k >= len(modes) || modes[k] != want {
					return fail(KindConfig, "assemble", fmt.Errorf("%w: position %d should be %+v", ErrModeOrder, k, want))
				}
				k++
			}
		}
	}
	if k != len(modes) {
		return fail(KindConfig, "assemble", fmt.Errorf("%w: %d extra modes", ErrModeOrder, len(modes)-k))
	}
	return nil
}

// hermitize replaces each pair M(R), M(−R) with their symmetrized average.
// Every cell must take part in exactly one pair.
func hermitize(cells lattice.CellMap, blocks []*mat.Dense) error {
	touched := 0
	for i1 := range cells {
		for i2 := i1; i2 < len(cells); i2++ {
			if !cells[i1].Offset.Add(cells[i2].Offset).IsZero() {
				continue
			}
			var avg mat.Dense
			avg.Add(blocks[i1], blocks[i2].T())
			avg.Scale(0.5, &avg)
			blocks[i1].Copy(&avg)
			blocks[i2].Copy(avg.T())
			if i1 == i2 {
				touched++
			} else {
				touched += 2
			}
		}
	}
	if touched != len(cells) {
		return fail(KindHermiticity, "hermitize", fmt.Errorf("%w: paired %d of %d cells", ErrHermitianPairs, touched, len(cells)))
	}
	return nil
}

// enforceSumRule removes the mass-weighted mean of the atomic self-blocks of
// the summed matrix, distributed over cells by weight. It returns the norm
// of the removed drift.
func enforceSumRule(m *Matrix, prodSup int) float64 {
	n := m.NModes()
	nAtoms := n / 3
	mass := make([]float64, nAtoms)
	for k := range mass {
		mass[k] = m.Masses[m.Modes[3*k].Sp]
	}

	sum := mat.NewDense(n, n, nil)
	for _, b := range m.Blocks {
		sum.Add(sum, b)
	}
	fmean := mat.NewDense(3, 3, nil)
	for k := 0; k < nAtoms; k++ {
		var self mat.Dense
		self.Scale(mass[k], sum.Slice(3*k, 3*k+3, 3*k, 3*k+3))
		fmean.Add(fmean, &self)
	}
	fmean.Scale(1/float64(nAtoms*prodSup), fmean)
	// Keep the pairing M(R) = M(−R)ᵀ exact under the correction.
	var sym mat.Dense
	sym.Add(fmean, fmean.T())
	fmean.Scale(0.5, &sym)

	for c, cell := range m.Cells {
		for k := 0; k < nAtoms; k++ {
			self := m.Blocks[c].Slice(3*k, 3*k+3, 3*k, 3*k+3).(*mat.Dense)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					self.Set(i, j, self.At(i, j)-cell.Weight*fmean.At(i, j)/mass[k])
				}
			}
		}
	}
	return mat.Norm(fmean, 2)
}
