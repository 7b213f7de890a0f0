package solver

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrUnknownPotential = errors.New("solver: unknown pair potential")

// PairPotential is a radial ion-ion interaction truncated at Cutoff. Eval
// returns the energy and its radial derivative at separation r.
type PairPotential interface {
	Name() string
	Eval(r float64) (e, dedr float64)
	Cutoff() float64
}

// Morse is D·(1 − exp(−A·(r − R0)))², shifted to vanish at the cutoff.
type Morse struct {
	D, A, R0, Rc float64
}

func (m Morse) Name() string    { return "morse" }
func (m Morse) Cutoff() float64 { return m.Rc }

func (m Morse) raw(r float64) (float64, float64) {
	x := math.Exp(-m.A * (r - m.R0))
	return m.D * (1 - x) * (1 - x), 2 * m.D * m.A * x * (1 - x)
}

func (m Morse) Eval(r float64) (float64, float64) {
	if r >= m.Rc {
		return 0, 0
	}
	e, de := m.raw(r)
	ec, _ := m.raw(m.Rc)
	return e - ec, de
}

// LennardJones is 4ε((σ/r)¹² − (σ/r)⁶), shifted to vanish at the cutoff.
type LennardJones struct {
	Epsilon, Sigma, Rc float64
}

func (l LennardJones) Name() string    { return "lj" }
func (l LennardJones) Cutoff() float64 { return l.Rc }

func (l LennardJones) raw(r float64) (float64, float64) {
	s6 := math.Pow(l.Sigma/r, 6)
	return 4 * l.Epsilon * (s6*s6 - s6), 4 * l.Epsilon * (-12*s6*s6 + 6*s6) / r
}

func (l LennardJones) Eval(r float64) (float64, float64) {
	if r >= l.Rc {
		return 0, 0
	}
	e, de := l.raw(r)
	ec, _ := l.raw(l.Rc)
	return e - ec, de
}

// potentials maps names to constructors taking named parameters.
var potentials = map[string]func(p map[string]float64) PairPotential{
	"morse": func(p map[string]float64) PairPotential {
		return Morse{D: param(p, "d", 0.1), A: param(p, "a", 1.0), R0: param(p, "r0", 4.0), Rc: param(p, "rc", 10.0)}
	},
	"lj": func(p map[string]float64) PairPotential {
		return LennardJones{Epsilon: param(p, "epsilon", 0.01), Sigma: param(p, "sigma", 3.5), Rc: param(p, "rc", 10.0)}
	},
}

func param(p map[string]float64, name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

func NewPairPotential(name string, params map[string]float64) (PairPotential, error) {
	fn, ok := potentials[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPotential, name)
	}
	return fn(params), nil
}

func ListPotentials() []string {
	names := make([]string, 0, len(potentials))
	for name := range potentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
