package storage

import (
	"encoding/json"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/phonon"
)

type ExportCell struct {
	Offset lattice.IVec3 `json:"offset"`
	Weight float64       `json:"weight"`
	Block  [][]float64   `json:"block"`
}

type ExportData struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Sup     lattice.IVec3      `json:"sup"`
	Modes   []phonon.Mode      `json:"modes"`
	Species []string           `json:"species"`
	Masses  []float64          `json:"masses"`
	Cells   []ExportCell       `json:"cells"`
	Metrics map[string]float64 `json:"metrics"`
}

func newExportData(meta *RunMetadata, m *phonon.Matrix) ExportData {
	data := ExportData{
		ID:      meta.ID,
		Name:    meta.Name,
		Sup:     m.Sup,
		Modes:   m.Modes,
		Species: m.SpeciesNames,
		Masses:  m.Masses,
		Cells:   make([]ExportCell, len(m.Cells)),
		Metrics: meta.Metrics,
	}
	for c, cell := range m.Cells {
		data.Cells[c] = ExportCell{Offset: cell.Offset, Weight: cell.Weight, Block: rows(m.Blocks[c])}
	}
	return data
}

func rows(b *mat.Dense) [][]float64 {
	r, _ := b.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, b)
	}
	return out
}

func encode(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, meta *RunMetadata, m *phonon.Matrix) error {
	return writeFile(path, func(f *os.File) error {
		return encode(f, newExportData(meta, m))
	})
}

func ExportJSONStdout(meta *RunMetadata, m *phonon.Matrix) error {
	return encode(os.Stdout, newExportData(meta, m))
}
