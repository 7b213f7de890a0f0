package lattice

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func cubic(a float64) Mat3 { return Diag(Vec3{a, a, a}) }

func TestPositiveRemainder(t *testing.T) {
	tests := []struct {
		x, n, want int
	}{
		{0, 2, 0},
		{1, 2, 1},
		{-1, 2, 1},
		{-4, 3, 2},
		{5, 1, 0},
	}
	for _, tt := range tests {
		if got := PositiveRemainder(tt.x, tt.n); got != tt.want {
			t.Errorf("PositiveRemainder(%d, %d) = %d, want %d", tt.x, tt.n, got, tt.want)
		}
	}
}

func TestMat3Inverse(t *testing.T) {
	m := FromColumns(Vec3{1, 0, 0}, Vec3{0.5, 2, 0}, Vec3{0, 0.3, 3})
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("inverse failed: %v", err)
	}
	id := m.Mul(inv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(id[i][j]-want) > 1e-12 {
				t.Errorf("m·m⁻¹[%d][%d] = %g, want %g", i, j, id[i][j], want)
			}
		}
	}

	if _, err := (Mat3{}).Inverse(); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
}

func TestReciprocal(t *testing.T) {
	R := cubic(4)
	G, GGT, err := Reciprocal(R)
	if err != nil {
		t.Fatalf("reciprocal failed: %v", err)
	}
	prod := G.Mul(R)
	if math.Abs(prod[0][0]-2*math.Pi) > 1e-12 || math.Abs(prod[0][1]) > 1e-12 {
		t.Errorf("G·R should be 2π·I, got %v", prod)
	}
	want := math.Pow(2*math.Pi/4, 2)
	if math.Abs(GGT[1][1]-want) > 1e-12 {
		t.Errorf("GGT[1][1] = %g, want %g", GGT[1][1], want)
	}
	if v := Volume(R); math.Abs(v-64) > 1e-12 {
		t.Errorf("volume = %g, want 64", v)
	}
}

func TestPeriodicLookup(t *testing.T) {
	points := []Vec3{{0, 0, 0}, {0.5, 0, 0}, {0.5, 0, 0}}
	_, GGT, _ := Reciprocal(cubic(2))
	plook := NewPeriodicLookup(points, GGT)

	if i, ok := plook.Find(Vec3{1, 0, 0}, nil); !ok || i != 0 {
		t.Errorf("Find(1,0,0) = %d,%v, want 0,true", i, ok)
	}
	if i, ok := plook.Find(Vec3{-0.5, 2, 0}, nil); !ok || i != 1 {
		t.Errorf("Find(-0.5,2,0) = %d,%v, want 1,true", i, ok)
	}
	if i, ok := plook.Find(Vec3{0.5, 0, 0}, func(i int) bool { return i == 2 }); !ok || i != 2 {
		t.Errorf("Find with predicate = %d,%v, want 2,true", i, ok)
	}
	if _, ok := plook.Find(Vec3{0.25, 0, 0}, nil); ok {
		t.Error("expected no match for 0.25")
	}
}

func TestSupercellCounts(t *testing.T) {
	R := cubic(3)
	sup, err := SupercellCounts(R, R.Mul(Diag(Vec3{2, 1, 3})))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sup != (IVec3{2, 1, 3}) {
		t.Errorf("sup = %v, want [2 1 3]", sup)
	}

	if _, err := SupercellCounts(R, R.Mul(Diag(Vec3{1.5, 1, 1}))); !errors.Is(err, ErrNotSupercell) {
		t.Errorf("expected ErrNotSupercell for fractional count, got %v", err)
	}
}

func TestCellMapCubic211(t *testing.T) {
	R := cubic(4)
	cm, err := NewCellMap(R, R.Mul(Diag(Vec3{2, 1, 1})))
	if err != nil {
		t.Fatalf("cell map failed: %v", err)
	}
	want := CellMap{
		{Offset: IVec3{-1, 0, 0}, Weight: 0.5},
		{Offset: IVec3{0, 0, 0}, Weight: 1},
		{Offset: IVec3{1, 0, 0}, Weight: 0.5},
	}
	if diff := cmp.Diff(want, cm); diff != "" {
		t.Errorf("cell map mismatch (-want +got):\n%s", diff)
	}
}

func TestCellMapSkewedLattice(t *testing.T) {
	// The shortest images of offset (1,0,0) lie six supercell translations away.
	R := FromColumns(Vec3{1, 0, 0}, Vec3{5.5, 0.1, 0}, Vec3{0, 0, 1})
	cm, err := NewCellMap(R, R.Mul(Diag(Vec3{2, 1, 1})))
	if err != nil {
		t.Fatalf("cell map failed: %v", err)
	}
	want := CellMap{
		{Offset: IVec3{-11, 2, 0}, Weight: 0.5},
		{Offset: IVec3{0, 0, 0}, Weight: 1},
		{Offset: IVec3{11, -2, 0}, Weight: 0.5},
	}
	if diff := cmp.Diff(want, cm); diff != "" {
		t.Errorf("cell map mismatch (-want +got):\n%s", diff)
	}
}

func TestCellMapInvariants(t *testing.T) {
	tests := []struct {
		name string
		R    Mat3
		sup  Vec3
	}{
		{"cubic 2x2x2", cubic(5), Vec3{2, 2, 2}},
		{"cubic 3x1x1", cubic(5), Vec3{3, 1, 1}},
		{"orthorhombic 2x3x1", Diag(Vec3{3, 4, 5}), Vec3{2, 3, 1}},
		{"hexagonal 2x2x1", FromColumns(Vec3{3, 0, 0}, Vec3{-1.5, 3 * math.Sqrt(3) / 2, 0}, Vec3{0, 0, 5}), Vec3{2, 2, 1}},
		{"skewed 2x1x1", FromColumns(Vec3{1, 0, 0}, Vec3{5.5, 0.1, 0}, Vec3{0, 0, 1}), Vec3{2, 1, 1}},
		{"skewed 3x2x1", FromColumns(Vec3{2, 0, 0}, Vec3{7.3, 0.4, 0}, Vec3{0.6, 0, 2}), Vec3{3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := NewCellMap(tt.R, tt.R.Mul(Diag(tt.sup)))
			if err != nil {
				t.Fatalf("cell map failed: %v", err)
			}
			prodSup := tt.sup[0] * tt.sup[1] * tt.sup[2]
			if w := cm.TotalWeight(); math.Abs(w-prodSup) > 1e-12 {
				t.Errorf("total weight = %g, want %g", w, prodSup)
			}
			for _, c := range cm {
				j, ok := cm.Find(c.Offset.Neg())
				if !ok {
					t.Errorf("offset %v present but %v missing", c.Offset, c.Offset.Neg())
					continue
				}
				if cm[j].Weight != c.Weight {
					t.Errorf("weights of %v and its negative differ", c.Offset)
				}
			}
			for i := 1; i < len(cm); i++ {
				if !cm[i-1].Offset.Less(cm[i].Offset) {
					t.Errorf("cell map not sorted at %d", i)
				}
			}
		})
	}
}
