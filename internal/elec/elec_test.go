package elec

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/phonsim/internal/lattice"
)

func TestKMesh(t *testing.T) {
	tests := []struct {
		name  string
		kfold lattice.IVec3
		spin  bool
		want  int
	}{
		{"gamma", lattice.IVec3{1, 1, 1}, false, 1},
		{"2x1x1", lattice.IVec3{2, 1, 1}, false, 2},
		{"2x2x2 polarized", lattice.IVec3{2, 2, 2}, true, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qnums := KMesh(tt.kfold, tt.spin)
			if len(qnums) != tt.want {
				t.Fatalf("expected %d states, got %d", tt.want, len(qnums))
			}
			wsum := 0.0
			for _, q := range qnums {
				wsum += q.Weight
			}
			if math.Abs(wsum-2) > 1e-12 {
				t.Errorf("weights sum to %g, want 2", wsum)
			}
			nPerSpin := tt.kfold.Prod()
			for s := 0; s*nPerSpin < len(qnums); s++ {
				q := qnums[s*nPerSpin]
				if q.K.Norm2() != 0 || q.Spin != s {
					t.Errorf("state %d should be Γ of spin %d, got %+v", s*nPerSpin, s, q)
				}
			}
		})
	}
}

func TestDistribution(t *testing.T) {
	for size := 1; size <= 5; size++ {
		owned := make([]int, 7)
		for rank := 0; rank < size; rank++ {
			d := NewDistribution(7, size, rank)
			for q := d.QStart(); q < d.QStop(); q++ {
				owned[q]++
				if !d.IsMine(q) {
					t.Errorf("size %d rank %d: IsMine(%d) false inside own range", size, rank, q)
				}
				if d.Whose(q) != rank {
					t.Errorf("size %d: Whose(%d) = %d, want %d", size, q, d.Whose(q), rank)
				}
			}
		}
		for q, n := range owned {
			if n != 1 {
				t.Errorf("size %d: state %d owned %d times", size, q, n)
			}
		}
	}
}

func TestBasisCutoff(t *testing.T) {
	R := lattice.Diag(lattice.Vec3{4, 4, 4})
	_, GGT, _ := lattice.Reciprocal(R)
	ecut := 3.0
	b := NewBasis(R, GGT, lattice.Vec3{0.5, 0, 0}, ecut)
	if b.NBasis() == 0 {
		t.Fatal("empty basis")
	}
	box := IGBox(R, ecut)
	for n, iG := range b.IGArr {
		if b.KineticEnergy(n) > ecut {
			t.Errorf("plane wave %v above cutoff", iG)
		}
		for i := 0; i < 3; i++ {
			if iG[i] < -box[i] || iG[i] > box[i] {
				t.Errorf("plane wave %v outside box %v", iG, box)
			}
		}
	}
}

func TestColumnBundleOverlap(t *testing.T) {
	c := NewColumnBundle(2, 3)
	c.Data[c.Index(0, 0)] = complex(1/math.Sqrt2, 0)
	c.Data[c.Index(0, 1)] = complex(0, 1/math.Sqrt2)
	c.Data[c.Index(1, 2)] = 1
	o := c.Overlap()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := complex(0, 0)
			if i == j {
				want = 1
			}
			if d := o.At(i, j) - want; math.Hypot(real(d), imag(d)) > 1e-12 {
				t.Errorf("overlap[%d][%d] = %v, want %v", i, j, o.At(i, j), want)
			}
		}
	}
	if n := c.BandNorm(0); math.Abs(n-1) > 1e-12 {
		t.Errorf("band norm = %g, want 1", n)
	}
}

func TestConstantFillings(t *testing.T) {
	F, err := Constant(2, 3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 0.5, 0}
	for b, f := range F[1] {
		if f != want[b] {
			t.Errorf("F[1][%d] = %g, want %g", b, f, want[b])
		}
	}
	if _, err := Constant(1, 1, 4); !errors.Is(err, ErrTooFewBands) {
		t.Errorf("expected ErrTooFewBands, got %v", err)
	}
}

func TestFermiElectronCount(t *testing.T) {
	qnums := KMesh(lattice.IVec3{2, 1, 1}, false)
	eigs := [][]float64{{-1, 0.1, 0.5}, {-0.8, 0.2, 0.9}}
	_, F, err := Fermi(eigs, qnums, 3, 0.01)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := 0.0
	for q := range F {
		for _, f := range F[q] {
			n += qnums[q].Weight * f
		}
	}
	if math.Abs(n-3) > 1e-9 {
		t.Errorf("electron count = %g, want 3", n)
	}
	if _, _, err := Fermi(eigs, qnums, 3, 0); !errors.Is(err, ErrBadSmearing) {
		t.Errorf("expected ErrBadSmearing, got %v", err)
	}
}

func TestParseFillingsMode(t *testing.T) {
	if m, err := ParseFillingsMode(""); err != nil || m != ConstantFillings {
		t.Errorf("empty mode = %q, %v", m, err)
	}
	if m, _ := ParseFillingsMode("fermi-aux"); !m.IsFermi() {
		t.Error("fermi-aux should be a fermi mode")
	}
	if _, err := ParseFillingsMode("magic"); !errors.Is(err, ErrFillingsMode) {
		t.Errorf("expected ErrFillingsMode, got %v", err)
	}
}
