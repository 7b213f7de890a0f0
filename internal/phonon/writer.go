package phonon

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/solver"
)

// WriteOmegaSq writes the blocks in cell-map order as row-major little-endian
// float64.
func (m *Matrix) WriteOmegaSq(w io.Writer) error {
	bw := bufio.NewWriter(w)
	n := m.NModes()
	row := make([]float64, n)
	for _, b := range m.Blocks {
		for i := 0; i < n; i++ {
			mat.Row(row, i, b)
			if err := binary.Write(bw, binary.LittleEndian, row); err != nil {
				return fail(KindIO, "write omegaSq", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fail(KindIO, "write omegaSq", err)
	}
	return nil
}

// ReadOmegaSq reads nCells square blocks of size nModes written by WriteOmegaSq.
func ReadOmegaSq(r io.Reader, nCells, nModes int) ([]*mat.Dense, error) {
	br := bufio.NewReader(r)
	blocks := make([]*mat.Dense, nCells)
	for c := range blocks {
		data := make([]float64, nModes*nModes)
		if err := binary.Read(br, binary.LittleEndian, data); err != nil {
			return nil, fail(KindIO, "read omegaSq", fmt.Errorf("cell %d: %w", c, err))
		}
		blocks[c] = mat.NewDense(nModes, nModes, data)
	}
	return blocks, nil
}

// WriteBasis writes one line per mode with the displacement that converts
// eigenvectors of the mass-weighted matrix back to Cartesian amplitudes.
func (m *Matrix) WriteBasis(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#species atom dx dy dz [bohrs]")
	for _, mode := range m.Modes {
		var d lattice.Vec3
		d[mode.Dir] = 1 / math.Sqrt(m.Masses[mode.Sp]*solver.Amu)
		fmt.Fprintf(bw, "%s %d  %+f %+f %+f\n", m.SpeciesNames[mode.Sp], mode.At, d[0], d[1], d[2])
	}
	if err := bw.Flush(); err != nil {
		return fail(KindIO, "write basis", err)
	}
	return nil
}

// WriteCellMap writes the integer offset, Cartesian offset and weight of each
// cell.
func (m *Matrix) WriteCellMap(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#i0 i1 i2  x y z  weight")
	for _, c := range m.Cells {
		x := m.R.MulVec(c.Offset.Float())
		fmt.Fprintf(bw, "%d %d %d  %.6f %.6f %.6f  %.12g\n", c.Offset[0], c.Offset[1], c.Offset[2], x[0], x[1], x[2], c.Weight)
	}
	if err := bw.Flush(); err != nil {
		return fail(KindIO, "write cell map", err)
	}
	return nil
}

// ReadCellMap parses the output of WriteCellMap.
func ReadCellMap(r io.Reader) (lattice.CellMap, error) {
	var cells lattice.CellMap
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var c lattice.Cell
		var x, y, z float64
		if _, err := fmt.Sscan(text, &c.Offset[0], &c.Offset[1], &c.Offset[2], &x, &y, &z, &c.Weight); err != nil {
			return nil, fail(KindIO, "read cell map", fmt.Errorf("line %d: %w", line, err))
		}
		cells = append(cells, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fail(KindIO, "read cell map", err)
	}
	return cells, nil
}
