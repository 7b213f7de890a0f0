package metrics

import "math"

// EnergyChange is the largest energy change per unit cell caused by a single
// displacement. It grows as dr², so large values mean dr is too big for the
// harmonic regime.
type EnergyChange struct {
	name    string
	max     float64
	samples int
}

func NewEnergyChange() *EnergyChange {
	return &EnergyChange{
		name: "energy_change_max",
	}
}

func (e *EnergyChange) Name() string { return e.name }

func (e *EnergyChange) Observe(s Sample) {
	if s.Mode < 0 {
		return
	}
	e.max = math.Max(e.max, math.Abs(s.EnergyChange))
	e.samples++
}

func (e *EnergyChange) Value() float64 {
	return e.max
}

func (e *EnergyChange) Reset() {
	e.max = 0
	e.samples = 0
}

// SumRuleDrift records the size of the acoustic sum-rule correction.
type SumRuleDrift struct {
	name  string
	drift float64
}

func NewSumRuleDrift() *SumRuleDrift {
	return &SumRuleDrift{
		name: "sum_rule_drift",
	}
}

func (d *SumRuleDrift) Name() string { return d.name }

func (d *SumRuleDrift) Observe(s Sample) {
	if s.Mode >= 0 {
		return
	}
	d.drift = s.Drift
}

func (d *SumRuleDrift) Value() float64 { return d.drift }

func (d *SumRuleDrift) Reset() { d.drift = 0 }
