package elec

import "github.com/san-kum/phonsim/internal/lattice"

// QuantumNumber labels one electronic state: a Bloch vector in reciprocal
// lattice coordinates, a spin channel and its Brillouin-zone weight.
type QuantumNumber struct {
	K      lattice.Vec3
	Spin   int
	Weight float64
}

// SpinEqual is the auxiliary predicate used when matching states across cells.
func SpinEqual(a, b QuantumNumber) bool { return a.Spin == b.Spin }

// KMesh returns the Γ-centred uniform mesh for the folding kfold. States are
// ordered spin-major, then by k index with the last direction fastest, so the
// Γ point is the first state of each spin channel. Weights include the spin
// degeneracy factor and add up to 2.
func KMesh(kfold lattice.IVec3, spinPolarized bool) []QuantumNumber {
	nSpins := 1
	if spinPolarized {
		nSpins = 2
	}
	nk := kfold.Prod()
	w := 2.0 / float64(nk*nSpins)
	qnums := make([]QuantumNumber, 0, nk*nSpins)
	for s := 0; s < nSpins; s++ {
		var i lattice.IVec3
		for i[0] = 0; i[0] < kfold[0]; i[0]++ {
			for i[1] = 0; i[1] < kfold[1]; i[1]++ {
				for i[2] = 0; i[2] < kfold[2]; i[2]++ {
					var k lattice.Vec3
					for j := 0; j < 3; j++ {
						k[j] = float64(i[j]) / float64(kfold[j])
					}
					qnums = append(qnums, QuantumNumber{K: k, Spin: s, Weight: w})
				}
			}
		}
	}
	return qnums
}
