package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phonsim/internal/config"
	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/phonon"
)

const (
	MetadataFile = "metadata.json"
	OmegaSqFile  = "phononOmegaSq"
	BasisFile    = "phononBasis"
	CellMapFile  = "phononCellMap"
)

var ErrCorrupt = errors.New("storage: run files disagree with metadata")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Timestamp    time.Time          `json:"timestamp"`
	Elapsed      float64            `json:"elapsed_seconds"`
	Sup          lattice.IVec3      `json:"sup"`
	R            lattice.Mat3       `json:"lattice"`
	Modes        []phonon.Mode      `json:"modes"`
	NCells       int                `json:"n_cells"`
	SpeciesNames []string           `json:"species"`
	Masses       []float64          `json:"masses"`
	Drift        float64            `json:"sum_rule_drift"`
	Metrics      map[string]float64 `json:"metrics"`
	Config       *config.Config     `json:"config"`
}

// Save writes a run directory with the metadata and the three phonon output
// files, and returns the run id.
func (s *Store) Save(cfg *config.Config, m *phonon.Matrix, metrics map[string]float64, elapsed time.Duration) (string, error) {
	runID := fmt.Sprintf("%s_%s", cfg.Name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Name:         cfg.Name,
		Timestamp:    time.Now(),
		Elapsed:      elapsed.Seconds(),
		Sup:          m.Sup,
		R:            m.R,
		Modes:        m.Modes,
		NCells:       len(m.Cells),
		SpeciesNames: m.SpeciesNames,
		Masses:       m.Masses,
		Drift:        m.Drift,
		Metrics:      metrics,
		Config:       cfg,
	}

	if err := writeJSON(filepath.Join(runDir, MetadataFile), meta); err != nil {
		return "", err
	}
	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{OmegaSqFile, func(f *os.File) error { return m.WriteOmegaSq(f) }},
		{BasisFile, func(f *os.File) error { return m.WriteBasis(f) }},
		{CellMapFile, func(f *os.File) error { return m.WriteCellMap(f) }},
	}
	for _, w := range writers {
		if err := writeFile(filepath.Join(runDir, w.name), w.write); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	return writeFile(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, MetadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadCellMap(runID string) (lattice.CellMap, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, CellMapFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return phonon.ReadCellMap(f)
}

func (s *Store) LoadOmegaSq(runID string, nCells, nModes int) ([]*mat.Dense, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, OmegaSqFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return phonon.ReadOmegaSq(f, nCells, nModes)
}

// LoadMatrix reassembles the dynamical matrix of a saved run.
func (s *Store) LoadMatrix(runID string) (*phonon.Matrix, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	cells, err := s.LoadCellMap(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(cells) != meta.NCells {
		return nil, nil, fmt.Errorf("%w: %d cells in map, %d in metadata", ErrCorrupt, len(cells), meta.NCells)
	}
	blocks, err := s.LoadOmegaSq(runID, len(cells), len(meta.Modes))
	if err != nil {
		return nil, nil, err
	}
	return &phonon.Matrix{
		R:            meta.R,
		Sup:          meta.Sup,
		Cells:        cells,
		Blocks:       blocks,
		Modes:        meta.Modes,
		SpeciesNames: meta.SpeciesNames,
		Masses:       meta.Masses,
		Drift:        meta.Drift,
	}, meta, nil
}
