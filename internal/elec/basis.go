package elec

import (
	"math"

	"github.com/san-kum/phonsim/internal/lattice"
)

// Basis is the plane-wave basis of one Bloch vector: every reciprocal lattice
// vector iG with ½|k+iG|² ≤ Ecut.
type Basis struct {
	K     lattice.Vec3
	IGArr []lattice.IVec3
	GGT   lattice.Mat3
}

// IGBox bounds |iG[i]| for any basis of lattice R at cutoff ecut.
func IGBox(R lattice.Mat3, ecut float64) lattice.IVec3 {
	var box lattice.IVec3
	for i := 0; i < 3; i++ {
		box[i] = 1 + int(math.Sqrt(2*ecut)*R.Column(i).Norm()/(2*math.Pi))
	}
	return box
}

func NewBasis(R, GGT lattice.Mat3, k lattice.Vec3, ecut float64) Basis {
	box := IGBox(R, ecut)
	b := Basis{K: k, GGT: GGT}
	var iG lattice.IVec3
	for iG[0] = -box[0]; iG[0] <= box[0]; iG[0]++ {
		for iG[1] = -box[1]; iG[1] <= box[1]; iG[1]++ {
			for iG[2] = -box[2]; iG[2] <= box[2]; iG[2]++ {
				kG := k.Add(iG.Float())
				if 0.5*kG.Dot(GGT.MulVec(kG)) <= ecut {
					b.IGArr = append(b.IGArr, iG)
				}
			}
		}
	}
	return b
}

func (b Basis) NBasis() int { return len(b.IGArr) }

// KineticEnergy is ½|k+G|² of plane wave n.
func (b Basis) KineticEnergy(n int) float64 {
	kG := b.K.Add(b.IGArr[n].Float())
	return 0.5 * kG.Dot(b.GGT.MulVec(kG))
}
