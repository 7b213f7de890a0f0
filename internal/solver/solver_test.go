package solver

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/phonsim/internal/elec"
	"github.com/san-kum/phonsim/internal/lattice"
)

func newDimer(t *testing.T, fillings elec.FillingsMode) *System {
	t.Helper()
	sys := &System{
		Name: "dimer",
		R:    lattice.Diag(lattice.Vec3{6, 6.5, 7}),
		Species: []*Species{{
			Name: "X", Mass: 2, Z: 1, Width: 0.8,
			AtPos: []lattice.Vec3{{0, 0, 0}, {0.42, 0.07, 0.03}},
		}},
		Elec: elec.Info{
			NBands:     2,
			KFold:      lattice.IVec3{1, 1, 1},
			Fillings:   fillings,
			Smearing:   0.01,
			NElectrons: 2,
		},
		Cntrl: Control{Ecut: 2.5},
		Pair:  Morse{D: 0.1, A: 1, R0: 3, Rc: 8},
	}
	require.NoError(t, sys.Setup())
	require.NoError(t, sys.Solve())
	return sys
}

func TestPairPotentialDerivative(t *testing.T) {
	for _, name := range ListPotentials() {
		p, err := NewPairPotential(name, nil)
		require.NoError(t, err)
		for _, r := range []float64{3.2, 4.1, 6.5} {
			_, de := p.Eval(r)
			const h = 1e-6
			ep, _ := p.Eval(r + h)
			em, _ := p.Eval(r - h)
			assert.InDelta(t, (ep-em)/(2*h), de, 1e-7, "%s at r=%g", name, r)
		}
		e, de := p.Eval(p.Cutoff())
		assert.Zero(t, e)
		assert.Zero(t, de)
	}

	_, err := NewPairPotential("buckingham", nil)
	assert.ErrorIs(t, err, ErrUnknownPotential)
}

func TestSetupRejectsBadInput(t *testing.T) {
	sys := &System{R: lattice.Identity()}
	assert.ErrorIs(t, sys.Setup(), ErrNoSpecies)

	sys.Species = []*Species{{Name: "X", Mass: 0, AtPos: []lattice.Vec3{{}}}}
	assert.ErrorIs(t, sys.Setup(), ErrBadMass)
}

func TestSolveOrthonormal(t *testing.T) {
	sys := newDimer(t, elec.ConstantFillings)

	o := sys.Overlap[0]
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, cmplx.Abs(o.At(i, j)), 1e-10)
		}
	}
	assert.LessOrEqual(t, sys.Eigs[0][0], sys.Eigs[0][1])

	hsub, err := sys.SubspaceHamiltonian(0)
	require.NoError(t, err)
	for b := 0; b < 2; b++ {
		assert.InDelta(t, sys.Eigs[0][b], real(hsub.At(b, b)), 1e-9)
	}
	assert.InDelta(t, 0, cmplx.Abs(hsub.At(0, 1)), 1e-9)
	assert.Equal(t, []float64{1, 0}, sys.F[0])
}

func TestSolveAuxFillings(t *testing.T) {
	sys := newDimer(t, elec.FermiFillingsAux)
	require.True(t, sys.HauxInitialized)
	require.NotNil(t, sys.B[0])
	for b := 0; b < 2; b++ {
		assert.Equal(t, complex(sys.Eigs[0][b], 0), sys.B[0].At(b, b))
	}
	sum := sys.F[0][0] + sys.F[0][1]
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.LessOrEqual(t, sys.Ener.MinusTS, 0.0)
}

// Forces at fixed orbitals are the exact negative derivative of the energy.
func TestForcesMatchEnergyDifferences(t *testing.T) {
	sys := newDimer(t, elec.ConstantFillings)
	m := NewIonicMinimizer(sys)

	var grad IonicGradient
	require.NoError(t, m.Compute(&grad))

	const h = 1e-4
	for dir := 0; dir < 3; dir++ {
		step := NewIonicGradient(sys.Species)
		step[0][1][dir] = 1

		require.NoError(t, m.Step(step, h))
		_, err := sys.Evaluate()
		require.NoError(t, err)
		ep := sys.Ener.E()

		require.NoError(t, m.Step(step, -2*h))
		_, err = sys.Evaluate()
		require.NoError(t, err)
		em := sys.Ener.E()

		require.NoError(t, m.Step(step, h))
		assert.InDelta(t, (ep-em)/(2*h), grad[0][1][dir], 1e-6, "direction %d", dir)
	}
}

func TestStepRestoresPositions(t *testing.T) {
	sys := newDimer(t, elec.ConstantFillings)
	sys.Cntrl.DragWavefunctions = true
	m := NewIonicMinimizer(sys)

	before := append([]lattice.Vec3(nil), sys.Species[0].AtPos...)
	orbitals := sys.C[0].Clone()

	for _, dr := range []float64{0.01, 0.3, 1e-5} {
		dir := NewIonicGradient(sys.Species)
		dir[0][0] = lattice.Vec3{0.6, 0, 0.8}
		require.NoError(t, m.Step(dir, dr))
		assert.NotEqual(t, before[0], sys.Species[0].AtPos[0])
		require.NoError(t, m.Step(dir, -dr))
	}
	for at, x := range sys.Species[0].AtPos {
		for i := 0; i < 3; i++ {
			assert.InDelta(t, before[at][i], x[i], 1e-14)
		}
	}
	for i, c := range sys.C[0].Data {
		assert.InDelta(t, 0, cmplx.Abs(c-orbitals.Data[i]), 1e-12)
	}
}

func TestGradientCombinators(t *testing.T) {
	species := []*Species{{AtPos: make([]lattice.Vec3, 2)}, {AtPos: make([]lattice.Vec3, 1)}}
	a := NewIonicGradient(species)
	a[0][1] = lattice.Vec3{1, 2, 3}
	a[1][0] = lattice.Vec3{0, 0, 4}
	b := a.Clone().Scale(2)

	diff := b.Combine(a, lattice.Vec3.Sub)
	assert.Equal(t, a, diff)
	assert.Equal(t, lattice.Vec3{2, 4, 6}, b[0][1])

	a.AddScaled(b, -0.5)
	assert.Zero(t, a.Dot(a))

	buf := diff.Flatten(nil)
	require.Len(t, buf, 9)
	back := NewIonicGradient(species)
	back.Unflatten(buf)
	assert.Equal(t, diff, back)
	assert.InDelta(t, math.Sqrt((14.0+16)/3), diff.RMS(), 1e-12)
}
