package metrics

// Sample is one observation from a phonon run. Displacement samples carry the
// mode index; the final assembly sample has Mode -1 and only Drift set.
type Sample struct {
	Mode int
	// EnergyChange is the energy change per unit cell relative to the
	// unperturbed supercell.
	EnergyChange float64
	RMSForce     float64
	// Drift is the Frobenius norm of the acoustic sum-rule correction.
	Drift float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Default returns the metrics recorded for every run.
func Default() []Metric {
	return []Metric{NewRMSForce(), NewEnergyChange(), NewSumRuleDrift()}
}

// Values collects metric values by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
