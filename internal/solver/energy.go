package solver

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/phonsim/internal/elec"
	"github.com/san-kum/phonsim/internal/lattice"
)

// UpdateFillingsEnergies recomputes the smearing term from the owned fillings.
func (s *System) UpdateFillingsEnergies() error {
	local := 0.0
	if s.Elec.Fillings.IsFermi() {
		for q := s.Elec.QStart(); q < s.Elec.QStop(); q++ {
			local += elec.MinusTS(s.F[q], s.Elec.QNums[q].Weight, s.Elec.Smearing)
		}
	}
	buf := []float64{local}
	if err := s.Comm.AllReduceSumFloat(buf); err != nil {
		return err
	}
	s.Ener.MinusTS = buf[0]
	return nil
}

// Evaluate computes the energy and the forces at the current geometry and
// fixed electronic state. Every rank returns identical forces.
func (s *System) Evaluate() (IonicGradient, error) {
	pairE, forces := s.pairForces()

	bandForces := NewIonicGradient(s.Species)
	band := 0.0
	for q := s.Elec.QStart(); q < s.Elec.QStop(); q++ {
		if s.C[q] == nil {
			return nil, fmt.Errorf("%w: state %d", ErrMissingData, q)
		}
		band += s.bandTerms(q, bandForces)
	}
	buf := bandForces.Flatten([]float64{band})
	if err := s.Comm.AllReduceSumFloat(buf); err != nil {
		return nil, err
	}
	bandForces.Unflatten(buf[1:])

	s.Ener.Pair = pairE
	s.Ener.Band = buf[0]
	return forces.Combine(bandForces, lattice.Vec3.Add), nil
}

func (s *System) pairForces() (float64, IonicGradient) {
	forces := NewIonicGradient(s.Species)
	if s.Pair == nil {
		return 0, forces
	}
	rc := s.Pair.Cutoff()
	var nmax lattice.IVec3
	for i := 0; i < 3; i++ {
		nmax[i] = int(math.Ceil(rc*lattice.Vec3(s.G[i]).Norm()/(2*math.Pi))) + 1
	}

	type atom struct {
		sp, at int
		x      lattice.Vec3
	}
	var atoms []atom
	for sp, species := range s.Species {
		for at, x := range species.AtPos {
			atoms = append(atoms, atom{sp, at, x})
		}
	}

	energy := 0.0
	for _, ai := range atoms {
		for _, aj := range atoms {
			var n lattice.IVec3
			for n[0] = -nmax[0]; n[0] <= nmax[0]; n[0]++ {
				for n[1] = -nmax[1]; n[1] <= nmax[1]; n[1]++ {
					for n[2] = -nmax[2]; n[2] <= nmax[2]; n[2]++ {
						if ai == aj && n.IsZero() {
							continue
						}
						r := s.R.MulVec(aj.x.Add(n.Float()).Sub(ai.x))
						d := r.Norm()
						if d >= rc {
							continue
						}
						e, de := s.Pair.Eval(d)
						energy += 0.5 * e
						forces[ai.sp][ai.at] = forces[ai.sp][ai.at].Add(r.Scale(de / d))
					}
				}
			}
		}
	}
	return energy, forces
}

// bandTerms adds state q's Hellmann-Feynman forces to f and returns its band
// energy Σ w·f_b·⟨b|H|b⟩.
func (s *System) bandTerms(q int, f IonicGradient) float64 {
	C := s.C[q]
	basis := s.Basis[q]
	n := basis.NBasis()
	w := s.Elec.QNums[q].Weight * s.Volume()

	rho := make([]complex128, n*n)
	for b := 0; b < C.NBands; b++ {
		fb := s.F[q][b]
		if fb == 0 {
			continue
		}
		cb := C.Band(b)
		for i := 0; i < n; i++ {
			ci := cmplx.Conj(cb[i]) * complex(w*fb, 0)
			for j := 0; j < n; j++ {
				rho[i*n+j] += ci * cb[j]
			}
		}
	}

	invVol := 1 / s.Volume()
	invRT, _ := s.R.Inverse()
	invRT = invRT.T()
	grad := NewIonicGradient(s.Species)
	energy := 0.0
	for i := 0; i < n; i++ {
		energy += real(rho[i*n+i]) * basis.KineticEnergy(i)
		for j := 0; j < n; j++ {
			r := rho[i*n+j]
			if r == 0 {
				continue
			}
			d := basis.IGArr[i].Add(basis.IGArr[j].Neg()).Float()
			g2 := d.Dot(s.GGT.MulVec(d))
			for sp, species := range s.Species {
				if species.Z == 0 {
					continue
				}
				amp := -species.Z * invVol * math.Exp(-0.5*g2*species.Width*species.Width)
				for at, x := range species.AtPos {
					phase := cmplx.Exp(complex(0, -2*math.Pi*d.Dot(x)))
					term := r * complex(amp, 0) * phase
					energy += real(term)
					// d/dx of exp(−2πi d·x) brings down −2πi d.
					dterm := real(term * complex(0, -2*math.Pi))
					grad[sp][at] = grad[sp][at].Add(d.Scale(dterm))
				}
			}
		}
	}
	for sp := range grad {
		for at := range grad[sp] {
			f[sp][at] = f[sp][at].Sub(invRT.MulVec(grad[sp][at]))
		}
	}
	return energy
}
