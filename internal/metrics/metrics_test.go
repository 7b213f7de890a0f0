package metrics

import (
	"math"
	"testing"
)

func TestDisplacementMetrics(t *testing.T) {
	ms := Default()
	samples := []Sample{
		{Mode: 0, EnergyChange: 1e-5, RMSForce: 0.002},
		{Mode: 1, EnergyChange: -3e-5, RMSForce: 0.001},
		{Mode: -1, Drift: 0.25, RMSForce: 7},
	}
	for _, s := range samples {
		for _, m := range ms {
			m.Observe(s)
		}
	}

	got := Values(ms)
	want := map[string]float64{
		"rms_force_max":     0.002,
		"energy_change_max": 3e-5,
		"sum_rule_drift":    0.25,
	}
	for name, v := range want {
		if math.Abs(got[name]-v) > 1e-15 {
			t.Errorf("%s: expected %g, got %g", name, v, got[name])
		}
	}
}

func TestMetricReset(t *testing.T) {
	for _, m := range Default() {
		m.Observe(Sample{Mode: 0, EnergyChange: 1, RMSForce: 1})
		m.Observe(Sample{Mode: -1, Drift: 1})
		if m.Value() == 0 {
			t.Errorf("%s: expected non-zero value", m.Name())
		}
		m.Reset()
		if m.Value() != 0 {
			t.Errorf("%s: expected zero after reset", m.Name())
		}
	}
}
