package elec

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ColumnBundle stores nBands orbitals of nBasis plane-wave coefficients each,
// band-major.
type ColumnBundle struct {
	NBands int
	NBasis int
	Data   []complex128
}

func NewColumnBundle(nBands, nBasis int) *ColumnBundle {
	return &ColumnBundle{NBands: nBands, NBasis: nBasis, Data: make([]complex128, nBands*nBasis)}
}

func (c *ColumnBundle) Index(b, n int) int { return b*c.NBasis + n }

// Band returns the coefficients of band b, aliasing the bundle's storage.
func (c *ColumnBundle) Band(b int) []complex128 {
	return c.Data[b*c.NBasis : (b+1)*c.NBasis]
}

func (c *ColumnBundle) Zero() {
	for i := range c.Data {
		c.Data[i] = 0
	}
}

func (c *ColumnBundle) Clone() *ColumnBundle {
	out := NewColumnBundle(c.NBands, c.NBasis)
	copy(out.Data, c.Data)
	return out
}

func (c *ColumnBundle) BandNorm(b int) float64 {
	sum := 0.0
	for _, v := range c.Band(b) {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}

// Overlap returns C†C.
func (c *ColumnBundle) Overlap() *mat.CDense {
	o := mat.NewCDense(c.NBands, c.NBands, nil)
	for i := 0; i < c.NBands; i++ {
		bi := c.Band(i)
		for j := i; j < c.NBands; j++ {
			bj := c.Band(j)
			var s complex128
			for n := range bi {
				s += cmplx.Conj(bi[n]) * bj[n]
			}
			o.Set(i, j, s)
			o.Set(j, i, cmplx.Conj(s))
		}
	}
	return o
}
