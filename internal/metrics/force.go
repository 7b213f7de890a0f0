package metrics

import "math"

// RMSForce tracks the largest RMS force seen at any displaced geometry.
type RMSForce struct {
	name string
	max  float64
}

func NewRMSForce() *RMSForce {
	return &RMSForce{
		name: "rms_force_max",
	}
}

func (r *RMSForce) Name() string {
	return r.name
}

func (r *RMSForce) Observe(s Sample) {
	if s.Mode < 0 {
		return
	}
	r.max = math.Max(r.max, s.RMSForce)
}

func (r *RMSForce) Value() float64 {
	return r.max
}

func (r *RMSForce) Reset() {
	r.max = 0
}
