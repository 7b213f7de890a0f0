package lattice

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrNotSupercell = errors.New("lattice: supercell is not a diagonal integer multiple of the unit cell")

// Cell is one lattice offset of the cell map with its share of the weight.
type Cell struct {
	Offset IVec3
	Weight float64
}

// CellMap lists the unit-cell lattice offsets lying in the Wigner-Seitz cell of
// the supercell. Offsets on the boundary are shared between their equivalent
// images with equal weights, so the weights of each supercell-equivalence class
// add up to one. Entries are sorted lexicographically by offset.
type CellMap []Cell

// NewCellMap derives the cell map from the unit lattice R and supercell lattice Rsup.
func NewCellMap(R, Rsup Mat3) (CellMap, error) {
	sup, err := SupercellCounts(R, Rsup)
	if err != nil {
		return nil, err
	}

	scale := 0.0
	for j := 0; j < 3; j++ {
		scale = math.Max(scale, Rsup.Column(j).Norm())
	}
	tol := 1e-8 * scale
	invSup, err := Rsup.Inverse()
	if err != nil {
		return nil, err
	}

	var cells CellMap
	var c IVec3
	for c[0] = 0; c[0] < sup[0]; c[0]++ {
		for c[1] = 0; c[1] < sup[1]; c[1]++ {
			for c[2] = 0; c[2] < sup[2]; c[2]++ {
				images := minimalImages(R, invSup, sup, c, tol)
				w := 1.0 / float64(len(images))
				for _, iR := range images {
					cells = append(cells, Cell{Offset: iR, Weight: w})
				}
			}
		}
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Offset.Less(cells[j].Offset) })
	return cells, nil
}

// minimalImages returns the shortest vectors R·(c + sup∘n) over integer n.
// The search box along i is bounded by |R·c|·|row i of Rsup⁻¹| + 1, which
// contains every image no longer than the n = 0 one, however skewed R is.
func minimalImages(R, invSup Mat3, sup, c IVec3, tol float64) []IVec3 {
	type image struct {
		iR  IVec3
		len float64
	}
	bound := R.MulVec(c.Float()).Norm() + tol
	var span IVec3
	for i := 0; i < 3; i++ {
		span[i] = int(math.Ceil(bound*Vec3(invSup[i]).Norm())) + 1
	}

	var all []image
	minLen := math.Inf(1)
	var n IVec3
	for n[0] = -span[0]; n[0] <= span[0]; n[0]++ {
		for n[1] = -span[1]; n[1] <= span[1]; n[1]++ {
			for n[2] = -span[2]; n[2] <= span[2]; n[2]++ {
				iR := c.Add(sup.Mul(n))
				l := R.MulVec(iR.Float()).Norm()
				all = append(all, image{iR, l})
				minLen = math.Min(minLen, l)
			}
		}
	}
	var out []IVec3
	for _, im := range all {
		if im.len <= minLen+tol {
			out = append(out, im.iR)
		}
	}
	return out
}

// SupercellCounts recovers the replication counts from the two lattices.
func SupercellCounts(R, Rsup Mat3) (IVec3, error) {
	invR, err := R.Inverse()
	if err != nil {
		return IVec3{}, err
	}
	m := invR.Mul(Rsup)
	var sup IVec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := math.Round(m[i][j])
			if math.Abs(m[i][j]-v) > 1e-6 {
				return IVec3{}, fmt.Errorf("%w: element (%d,%d) = %g", ErrNotSupercell, i, j, m[i][j])
			}
			if i != j && v != 0 {
				return IVec3{}, fmt.Errorf("%w: off-diagonal element (%d,%d) = %g", ErrNotSupercell, i, j, v)
			}
			if i == j {
				if v < 1 {
					return IVec3{}, fmt.Errorf("%w: count %g along direction %d", ErrNotSupercell, v, i)
				}
				sup[i] = int(v)
			}
		}
	}
	return sup, nil
}

// Find returns the index of offset in the map.
func (m CellMap) Find(offset IVec3) (int, bool) {
	for i, c := range m {
		if c.Offset == offset {
			return i, true
		}
	}
	return -1, false
}

// TotalWeight sums the weights; it equals the number of unit cells in the
// supercell.
func (m CellMap) TotalWeight() float64 {
	sum := 0.0
	for _, c := range m {
		sum += c.Weight
	}
	return sum
}
