package phonon

import (
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/spectrum"
)

var _ = Describe("simple cubic crystal doubled along x", Ordered, func() {
	var (
		p *Phonon
		m *Matrix
	)

	BeforeAll(func() {
		p = New(simpleCubic(lattice.IVec3{2, 1, 1}), lattice.IVec3{2, 1, 1})
		Expect(p.Setup()).To(Succeed())
		res, err := p.Run()
		Expect(err).NotTo(HaveOccurred())
		m, err = p.Assemble(res)
		Expect(err).NotTo(HaveOccurred())
	})

	It("folds the k mesh to Γ only", func() {
		Expect(p.Super.Elec.KFold).To(Equal(lattice.IVec3{1, 1, 1}))
		Expect(p.Super.Elec.NStates()).To(Equal(1))
		Expect(p.StateMap).To(HaveLen(2))
		Expect(p.StateMap[1].IG).To(Equal(lattice.IVec3{1, 0, 0}))
	})

	It("displaces along three modes", func() {
		Expect(m.Modes).To(HaveLen(3))
		Expect(m.Blocks).To(HaveEach(WithTransform(func(b *mat.Dense) int {
			r, _ := b.Dims()
			return r
		}, Equal(3))))
	})

	It("maps the home cell and both x neighbours", func() {
		for _, off := range []lattice.IVec3{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}} {
			_, ok := m.Cells.Find(off)
			Expect(ok).To(BeTrue(), "offset %v", off)
		}
		Expect(m.Cells.TotalWeight()).To(BeNumerically("~", 2, 1e-12))
	})

	It("is symmetric under R → −R", func() {
		for c, cell := range m.Cells {
			partner, ok := m.Cells.Find(cell.Offset.Neg())
			Expect(ok).To(BeTrue())
			Expect(mat.Equal(m.Blocks[c], m.Blocks[partner].T())).To(BeTrue())
		}
	})

	It("has a single zero in the longitudinal branch", func() {
		dGamma, err := spectrum.AtQ(m.Cells, m.Blocks, lattice.Vec3{0, 0, 0})
		Expect(err).NotTo(HaveOccurred())
		dX, err := spectrum.AtQ(m.Cells, m.Blocks, lattice.Vec3{0.5, 0, 0})
		Expect(err).NotTo(HaveOccurred())

		// Uniform translation costs nothing.
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				Expect(cmplx.Abs(dGamma.At(i, j))).To(BeNumerically("<", 1e-12))
			}
		}

		zeros := 0
		for _, d := range []*mat.CDense{dGamma, dX} {
			Expect(math.Abs(imag(d.At(0, 0)))).To(BeNumerically("<", 1e-12))
			if math.Abs(real(d.At(0, 0))) < 1e-10 {
				zeros++
			}
		}
		Expect(zeros).To(Equal(1))
		Expect(real(dX.At(0, 0))).To(BeNumerically(">", 1e-8))
	})

	It("reports the removed sum-rule drift", func() {
		Expect(m.Drift).To(BeNumerically(">=", 0))
		Expect(m.Drift).To(BeNumerically("<", 1e-3))
	})
})
