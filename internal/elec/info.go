package elec

import "github.com/san-kum/phonsim/internal/lattice"

// Info describes the electronic states of one calculation.
type Info struct {
	NBands        int
	KFold         lattice.IVec3
	SpinPolarized bool
	Fillings      FillingsMode
	Smearing      float64
	NElectrons    float64

	QNums []QuantumNumber
	Dist  Distribution
}

// Setup builds the k mesh and distributes its states over size ranks.
func (e *Info) Setup(size, rank int) {
	e.QNums = KMesh(e.KFold, e.SpinPolarized)
	e.Dist = NewDistribution(len(e.QNums), size, rank)
}

func (e *Info) NStates() int { return len(e.QNums) }

func (e *Info) NSpins() int {
	if e.SpinPolarized {
		return 2
	}
	return 1
}

func (e *Info) IsMine(q int) bool { return e.Dist.IsMine(q) }
func (e *Info) Whose(q int) int   { return e.Dist.Whose(q) }
func (e *Info) QStart() int       { return e.Dist.QStart() }
func (e *Info) QStop() int        { return e.Dist.QStop() }
