package config

import "sort"

func cubic(sup, kfold [3]int, ecut float64) *Config {
	cfg := DefaultConfig()
	cfg.Phonon.Sup = sup
	cfg.Electronic.KFold = kfold
	cfg.Electronic.Ecut = ecut
	return cfg
}

func cesiumChloride(sup, kfold [3]int) *Config {
	cfg := DefaultConfig()
	cfg.Name = "cscl"
	cfg.Species = []SpeciesConfig{
		{Name: "A", Mass: 2, Z: 0.5, Width: 1, Positions: [][3]float64{{0, 0, 0}}},
		{Name: "B", Mass: 5, Z: 0.3, Width: 0.8, Positions: [][3]float64{{0.5, 0.5, 0.5}}},
	}
	cfg.Phonon.Sup = sup
	cfg.Electronic.KFold = kfold
	cfg.Pair.Params = map[string]float64{"d": 0.05, "a": 1, "r0": 4.5, "rc": 7}
	return cfg
}

func argon() *Config {
	cfg := DefaultConfig()
	cfg.Name = "argon"
	a := 10.0
	cfg.Lattice = [3][3]float64{{0, a / 2, a / 2}, {a / 2, 0, a / 2}, {a / 2, a / 2, 0}}
	cfg.Species = []SpeciesConfig{
		{Name: "Ar", Mass: 39.948, Z: 0.2, Width: 1.2, Positions: [][3]float64{{0, 0, 0}}},
	}
	cfg.Electronic.KFold = [3]int{2, 2, 2}
	cfg.Electronic.Ecut = 1.0
	cfg.Electronic.Fillings = "fermi"
	cfg.Phonon.Sup = [3]int{2, 2, 2}
	cfg.Pair = PairConfig{Name: "lj", Params: map[string]float64{"epsilon": 3.8e-4, "sigma": 6.4, "rc": 12}}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"cubic": {
		"chain": cubic([3]int{2, 1, 1}, [3]int{2, 1, 1}, DefaultEcut),
		"plane": cubic([3]int{2, 2, 1}, [3]int{2, 2, 1}, DefaultEcut),
		"bulk":  cubic([3]int{2, 2, 2}, [3]int{2, 2, 2}, 1.2),
	},
	"cscl": {
		"chain": cesiumChloride([3]int{2, 1, 1}, [3]int{2, 1, 1}),
		"dense": cesiumChloride([3]int{2, 1, 1}, [3]int{4, 2, 2}),
	},
	"argon": {
		"fcc": argon(),
	},
}

// GetPreset returns the named preset or nil. Callers Clone it before
// changing anything.
func GetPreset(crystal, preset string) *Config {
	crystalPresets, ok := Presets[crystal]
	if !ok {
		return nil
	}
	cfg, ok := crystalPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(crystal string) []string {
	crystalPresets, ok := Presets[crystal]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(crystalPresets))
	for name := range crystalPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListCrystals() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
