package solver

import (
	"fmt"
	"math"
)

var (
	sqrtEps    = math.Sqrt(2.2e-16)
	goldenMean = 0.5 * (3 - math.Sqrt(5))
)

// Brent is a bounded Brent minimizer: golden-section steps accelerated by
// parabolic interpolation whenever the parabola stays well inside the bracket.
// The endpoints themselves are never evaluated.
type Brent struct {
	// Tolerance is the absolute tolerance on the argument.
	Tolerance float64
	// MaxEvaluations caps objective evaluations.
	MaxEvaluations int
}

var _ Minimizer = &Brent{}

// Minimize implements Minimizer.
func (m *Brent) Minimize(f func(float64) float64, lower, upper float64) (Result, error) {
	if err := checkInterval(lower, upper); err != nil {
		return Result{}, err
	}
	if lower == upper {
		return degenerate(f, lower)
	}
	xatol := m.Tolerance
	if xatol <= 0 {
		xatol = DefaultTolerance
	}
	maxfun := m.MaxEvaluations
	if maxfun <= 0 {
		maxfun = DefaultMaxEvaluations
	}

	a, b := lower, upper
	fulc := a + goldenMean*(b-a)
	nfc, xf := fulc, fulc
	var rat, e float64
	x := xf
	fx := f(x)
	num := 1
	ffulc, fnfc := fx, fx
	xm := 0.5 * (a + b)
	tol1 := sqrtEps*math.Abs(xf) + xatol/3
	tol2 := 2 * tol1
	converged := true

	for math.Abs(xf-xm) > tol2-0.5*(b-a) {
		golden := true
		if math.Abs(e) > tol1 {
			// try a parabolic step
			golden = false
			r := (xf - nfc) * (fx - ffulc)
			q := (xf - fulc) * (fx - fnfc)
			p := (xf-fulc)*q - (xf-nfc)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			r = e
			e = rat

			if math.Abs(p) < math.Abs(0.5*q*r) && p > q*(a-xf) && p < q*(b-xf) {
				rat = p / q
				x = xf + rat
				if x-a < tol2 || b-x < tol2 {
					rat = tol1 * signOrOne(xm-xf)
				}
			} else {
				golden = true
			}
		}
		if golden {
			if xf >= xm {
				e = a - xf
			} else {
				e = b - xf
			}
			rat = goldenMean * e
		}

		x = xf + signOrOne(rat)*math.Max(math.Abs(rat), tol1)
		fu := f(x)
		num++

		if fu <= fx {
			if x >= xf {
				a = xf
			} else {
				b = xf
			}
			fulc, ffulc = nfc, fnfc
			nfc, fnfc = xf, fx
			xf, fx = x, fu
		} else {
			if x < xf {
				a = x
			} else {
				b = x
			}
			if fu <= fnfc || nfc == xf {
				fulc, ffulc = nfc, fnfc
				nfc, fnfc = x, fu
			} else if fu <= ffulc || fulc == xf || fulc == nfc {
				fulc, ffulc = x, fu
			}
		}

		xm = 0.5 * (a + b)
		tol1 = sqrtEps*math.Abs(xf) + xatol/3
		tol2 = 2 * tol1

		if num >= maxfun {
			converged = false
			break
		}
	}

	res := Result{X: clamp(xf, lower, upper), F: fx, Evaluations: num, Converged: converged}
	if !finite(fx) {
		return res, fmt.Errorf("%w at x=%g", ErrNonFiniteObjective, xf)
	}
	return res, nil
}

// signOrOne is sign(v), with sign(0) taken as +1.
func signOrOne(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func clamp(x, lower, upper float64) float64 {
	return math.Min(math.Max(x, lower), upper)
}
