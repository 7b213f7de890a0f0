package config

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/phonsim/internal/elec"
	"github.com/san-kum/phonsim/internal/lattice"
	"github.com/san-kum/phonsim/internal/phonon"
	"github.com/san-kum/phonsim/internal/solver"
)

const (
	DefaultDr       = phonon.DefaultDr
	DefaultEcut     = 1.5
	DefaultSmearing = 0.01
	DefaultRanks    = 1
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Name       string           `yaml:"name"`
	Lattice    [3][3]float64    `yaml:"lattice"`
	Grid       [3]int           `yaml:"grid"`
	Species    []SpeciesConfig  `yaml:"species"`
	Electronic ElectronicConfig `yaml:"electronic"`
	Phonon     PhononConfig     `yaml:"phonon"`
	Pair       PairConfig       `yaml:"pair"`
	Parallel   ParallelConfig   `yaml:"parallel"`
}

// SpeciesConfig describes one ion type. Positions are fractional.
type SpeciesConfig struct {
	Name      string       `yaml:"name"`
	Mass      float64      `yaml:"mass"`
	Z         float64      `yaml:"z"`
	Width     float64      `yaml:"width"`
	Positions [][3]float64 `yaml:"positions"`
}

type ElectronicConfig struct {
	KFold         [3]int       `yaml:"kfold"`
	KPoints       [][3]float64 `yaml:"kpoints"`
	NBands        int          `yaml:"nbands"`
	NElectrons    float64      `yaml:"nelectrons"`
	SpinPolarized bool         `yaml:"spin_polarized"`
	Fillings      string       `yaml:"fillings"`
	Smearing      float64      `yaml:"smearing"`
	Ecut          float64      `yaml:"ecut"`
	Drag          bool         `yaml:"drag_wavefunctions"`
}

type PhononConfig struct {
	Sup        [3]int  `yaml:"sup"`
	Dr         float64 `yaml:"dr"`
	Symmetries bool    `yaml:"symmetries"`
}

type PairConfig struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params"`
}

type ParallelConfig struct {
	Ranks    int  `yaml:"ranks"`
	Threaded bool `yaml:"threaded"`
}

// DefaultConfig is a simple cubic crystal doubled along x.
func DefaultConfig() *Config {
	return &Config{
		Name:    "cubic",
		Lattice: [3][3]float64{{5, 0, 0}, {0, 5, 0}, {0, 0, 5}},
		Grid:    [3]int{12, 12, 12},
		Species: []SpeciesConfig{
			{Name: "X", Mass: 2, Z: 0.5, Width: 1, Positions: [][3]float64{{0, 0, 0}}},
		},
		Electronic: ElectronicConfig{
			KFold:      [3]int{2, 1, 1},
			KPoints:    [][3]float64{{0, 0, 0}},
			NBands:     1,
			NElectrons: 2,
			Fillings:   string(elec.ConstantFillings),
			Smearing:   DefaultSmearing,
			Ecut:       DefaultEcut,
		},
		Phonon: PhononConfig{
			Sup: [3]int{2, 1, 1},
			Dr:  DefaultDr,
		},
		Pair: PairConfig{
			Name:   "morse",
			Params: map[string]float64{"d": 0.05, "a": 1, "r0": 5, "rc": 8},
		},
		Parallel: ParallelConfig{Ranks: DefaultRanks, Threaded: true},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	// yaml.v3 merges into existing maps; a pair section replaces the default whole.
	defaults := cfg.Pair
	cfg.Pair = PairConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Pair.Name == "" && cfg.Pair.Params == nil {
		cfg.Pair = defaults
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Species = make([]SpeciesConfig, len(c.Species))
	for i, sp := range c.Species {
		sp.Positions = append([][3]float64(nil), sp.Positions...)
		out.Species[i] = sp
	}
	out.Electronic.KPoints = append([][3]float64(nil), c.Electronic.KPoints...)
	out.Pair.Params = maps.Clone(c.Pair.Params)
	return &out
}

// Validate checks the values the solver cannot default.
func (c *Config) Validate() error {
	if len(c.Species) == 0 {
		return fmt.Errorf("%w: no species", ErrInvalid)
	}
	if c.Electronic.NBands <= 0 {
		return fmt.Errorf("%w: nbands must be positive", ErrInvalid)
	}
	if c.Electronic.Ecut <= 0 {
		return fmt.Errorf("%w: ecut must be positive", ErrInvalid)
	}
	if c.Parallel.Ranks <= 0 {
		return fmt.Errorf("%w: ranks must be positive", ErrInvalid)
	}
	if _, err := elec.ParseFillingsMode(c.Electronic.Fillings); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// UnitCell builds a fresh unit-cell system. Every rank needs its own.
func (c *Config) UnitCell() (*solver.System, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	fillings, _ := elec.ParseFillingsMode(c.Electronic.Fillings)

	var pair solver.PairPotential
	if c.Pair.Name != "" {
		var err error
		if pair, err = solver.NewPairPotential(c.Pair.Name, c.Pair.Params); err != nil {
			return nil, err
		}
	}

	species := make([]*solver.Species, len(c.Species))
	for i, sc := range c.Species {
		sp := &solver.Species{Name: sc.Name, Mass: sc.Mass, Z: sc.Z, Width: sc.Width}
		for _, x := range sc.Positions {
			sp.AtPos = append(sp.AtPos, lattice.Vec3(x))
		}
		species[i] = sp
	}

	return &solver.System{
		Name:    c.Name,
		R:       lattice.FromColumns(c.Lattice[0], c.Lattice[1], c.Lattice[2]),
		Grid:    lattice.IVec3(c.Grid),
		Species: species,
		Elec: elec.Info{
			NBands:        c.Electronic.NBands,
			KFold:         lattice.IVec3(c.Electronic.KFold),
			SpinPolarized: c.Electronic.SpinPolarized,
			Fillings:      fillings,
			Smearing:      c.Electronic.Smearing,
			NElectrons:    c.Electronic.NElectrons,
		},
		Cntrl: solver.Control{Ecut: c.Electronic.Ecut, DragWavefunctions: c.Electronic.Drag},
		Pair:  pair,
	}, nil
}

// NewPhonon builds the phonon calculation for a fresh unit cell.
func (c *Config) NewPhonon() (*phonon.Phonon, error) {
	unit, err := c.UnitCell()
	if err != nil {
		return nil, err
	}
	p := phonon.New(unit, lattice.IVec3(c.Phonon.Sup))
	if c.Phonon.Dr != 0 {
		p.Dr = c.Phonon.Dr
	}
	p.Symmetries = c.Phonon.Symmetries
	p.KPoints = make([]lattice.Vec3, len(c.Electronic.KPoints))
	for i, k := range c.Electronic.KPoints {
		p.KPoints[i] = lattice.Vec3(k)
	}
	return p, nil
}
