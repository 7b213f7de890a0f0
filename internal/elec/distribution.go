package elec

// Distribution assigns each rank a contiguous, fixed block of states.
type Distribution struct {
	NStates int
	Size    int
	Rank    int
}

func NewDistribution(nStates, size, rank int) Distribution {
	if size < 1 {
		size = 1
	}
	return Distribution{NStates: nStates, Size: size, Rank: rank}
}

func (d Distribution) start(rank int) int { return d.NStates * rank / d.Size }

func (d Distribution) QStart() int { return d.start(d.Rank) }
func (d Distribution) QStop() int  { return d.start(d.Rank + 1) }

func (d Distribution) IsMine(q int) bool { return q >= d.QStart() && q < d.QStop() }

// Whose returns the rank owning state q.
func (d Distribution) Whose(q int) int {
	for r := 0; r < d.Size; r++ {
		if q < d.start(r+1) {
			return r
		}
	}
	return d.Size - 1
}
