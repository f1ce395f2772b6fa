package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateParams is returned when a parameter set would make cost or energy
// non-finite for some feasible strategy.
var ErrDegenerateParams = errors.New("degenerate parameters")

// Validate rejects parameter sets the equilibrium loop cannot run on.
//
// Cost is linear in b and energy is affine in both b and PoF, so checking the
// corners b in {0, bn} x PoF in {0, 1} bounds every feasible value.
func (p *Params) Validate() error {
	n := len(p.bn)
	if n == 0 {
		return fmt.Errorf("%w: no users", ErrDegenerateParams)
	}
	for _, f := range []struct {
		name string
		s    []float64
	}{{"dn", p.dn}, {"en", p.en}, {"c", p.c}, {"an", p.an}, {"kn", p.kn}} {
		if len(f.s) != n {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrDegenerateParams, f.name, len(f.s), n)
		}
	}
	if len(p.tn) != 0 && len(p.tn) != n {
		return fmt.Errorf("%w: tn has %d entries, want %d", ErrDegenerateParams, len(p.tn), n)
	}
	if !finite(p.transmRate) || p.transmRate <= 0 {
		return fmt.Errorf("%w: transmission rate must be positive, got %g", ErrDegenerateParams, p.transmRate)
	}
	if !finite(p.transmPower) || p.transmPower < 0 {
		return fmt.Errorf("%w: transmission power must be >= 0, got %g", ErrDegenerateParams, p.transmPower)
	}
	if !finite(p.decayK) || p.decayK <= 0 {
		return fmt.Errorf("%w: decay constant must be positive, got %g", ErrDegenerateParams, p.decayK)
	}

	for i := 0; i < n; i++ {
		if !finite(p.bn[i]) || p.bn[i] <= 0 {
			return fmt.Errorf("%w: user %d: bn must be positive, got %g", ErrDegenerateParams, i, p.bn[i])
		}
		for _, v := range []float64{p.dn[i], p.en[i], p.c[i], p.an[i], p.kn[i]} {
			if !finite(v) {
				return fmt.Errorf("%w: user %d has a non-finite constant", ErrDegenerateParams, i)
			}
		}
		for _, f := range []struct {
			name string
			v    float64
		}{{"dn", p.dn[i]}, {"en", p.en[i]}, {"an", p.an[i]}, {"kn", p.kn[i]}} {
			if f.v < 0 {
				return fmt.Errorf("%w: user %d: %s must be >= 0, got %g", ErrDegenerateParams, i, f.name, f.v)
			}
		}
		for _, bi := range []float64{0, p.bn[i]} {
			if !finite(Cost(bi, p.bn[i], p.dn[i], p.c[i])) {
				return fmt.Errorf("%w: user %d: cost is not finite at b=%g", ErrDegenerateParams, i, bi)
			}
			for _, pof := range []float64{0, 1} {
				e := Energy(bi, pof, p.bn[i], p.en[i], p.transmRate, p.transmPower)
				if !finite(e) {
					return fmt.Errorf("%w: user %d: energy is not finite at b=%g, PoF=%g", ErrDegenerateParams, i, bi, pof)
				}
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
