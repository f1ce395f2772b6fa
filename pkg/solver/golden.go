package solver

import (
	"fmt"
	"math"
)

var invPhi = (math.Sqrt(5) - 1) / 2

// GoldenSection is a bounded golden-section minimizer. It assumes the objective
// is unimodal on the interval; otherwise it returns a local minimum.
type GoldenSection struct {
	Tolerance      float64
	MaxEvaluations int
}

var _ Minimizer = &GoldenSection{}

// Minimize implements Minimizer.
func (m *GoldenSection) Minimize(f func(float64) float64, lower, upper float64) (Result, error) {
	if err := checkInterval(lower, upper); err != nil {
		return Result{}, err
	}
	if lower == upper {
		return degenerate(f, lower)
	}
	tol := m.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	maxfun := m.MaxEvaluations
	if maxfun <= 0 {
		maxfun = DefaultMaxEvaluations
	}

	a, b := lower, upper
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)
	num := 2
	converged := true

	for math.Abs(b-a) > tol+sqrtEps*math.Abs(0.5*(a+b)) {
		if num >= maxfun {
			converged = false
			break
		}
		// NaN on either side loses the comparison and is discarded
		if fc < fd || math.IsNaN(fd) {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
		num++
	}

	x, fx := c, fc
	if fd < fc || math.IsNaN(fc) {
		x, fx = d, fd
	}
	res := Result{X: clamp(x, lower, upper), F: fx, Evaluations: num, Converged: converged}
	if !finite(fx) {
		return res, fmt.Errorf("%w at x=%g", ErrNonFiniteObjective, x)
	}
	return res, nil
}
