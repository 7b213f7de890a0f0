package elec

import (
	"errors"
	"fmt"
	"math"
)

type FillingsMode string

const (
	ConstantFillings FillingsMode = "constant"
	FermiFillings    FillingsMode = "fermi"
	FermiFillingsAux FillingsMode = "fermi-aux"
)

var (
	ErrFillingsMode  = errors.New("elec: unknown fillings mode")
	ErrTooFewBands   = errors.New("elec: not enough bands for the electron count")
	ErrBadSmearing   = errors.New("elec: fermi fillings need a positive smearing temperature")
	maxBisectionIter = 200
)

func ParseFillingsMode(s string) (FillingsMode, error) {
	switch m := FillingsMode(s); m {
	case ConstantFillings, FermiFillings, FermiFillingsAux:
		return m, nil
	case "":
		return ConstantFillings, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFillingsMode, s)
}

func (m FillingsMode) IsFermi() bool { return m == FermiFillings || m == FermiFillingsAux }

// Constant fills the lowest bands of every state with nElectrons/2 electrons
// per spin-weighted state; the last band may be fractionally occupied.
func Constant(nStates, nBands int, nElectrons float64) ([][]float64, error) {
	perState := nElectrons / 2
	if perState > float64(nBands) {
		return nil, fmt.Errorf("%w: need %g, have %d", ErrTooFewBands, perState, nBands)
	}
	F := make([][]float64, nStates)
	for q := range F {
		F[q] = make([]float64, nBands)
		remaining := perState
		for b := 0; b < nBands && remaining > 0; b++ {
			F[q][b] = math.Min(1, remaining)
			remaining -= F[q][b]
		}
	}
	return F, nil
}

func fermi(eps, mu, T float64) float64 {
	x := (eps - mu) / T
	if x > 40 {
		return 0
	}
	if x < -40 {
		return 1
	}
	return 1 / (1 + math.Exp(x))
}

// Fermi finds the chemical potential at which the weighted Fermi occupations of
// eigs hold nElectrons, by bisection, and returns it with the fillings.
func Fermi(eigs [][]float64, qnums []QuantumNumber, nElectrons, T float64) (float64, [][]float64, error) {
	if T <= 0 {
		return 0, nil, ErrBadSmearing
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	capacity := 0.0
	for q, e := range eigs {
		capacity += qnums[q].Weight * float64(len(e))
		for _, v := range e {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if nElectrons > capacity {
		return 0, nil, fmt.Errorf("%w: need %g, capacity %g", ErrTooFewBands, nElectrons, capacity)
	}
	lo -= 40 * T
	hi += 40 * T
	count := func(mu float64) float64 {
		n := 0.0
		for q, e := range eigs {
			for _, v := range e {
				n += qnums[q].Weight * fermi(v, mu, T)
			}
		}
		return n
	}
	mu := 0.5 * (lo + hi)
	for i := 0; i < maxBisectionIter; i++ {
		mu = 0.5 * (lo + hi)
		if count(mu) > nElectrons {
			hi = mu
		} else {
			lo = mu
		}
	}
	F := make([][]float64, len(eigs))
	for q, e := range eigs {
		F[q] = make([]float64, len(e))
		for b, v := range e {
			F[q][b] = fermi(v, mu, T)
		}
	}
	return mu, F, nil
}

// MinusTS is the smearing contribution −T·S of one state's fillings, weighted.
func MinusTS(F []float64, weight, T float64) float64 {
	sum := 0.0
	for _, f := range F {
		if f > 0 && f < 1 {
			sum += f*math.Log(f) + (1-f)*math.Log(1-f)
		}
	}
	return weight * T * sum
}
