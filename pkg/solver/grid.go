package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Grid evaluates the objective at evenly spaced points including both endpoints
// and returns the best finite sample. Ties keep the lowest argument.
type Grid struct {
	Points int
}

var _ Minimizer = &Grid{}

// Minimize implements Minimizer.
func (m *Grid) Minimize(f func(float64) float64, lower, upper float64) (Result, error) {
	if err := checkInterval(lower, upper); err != nil {
		return Result{}, err
	}
	if lower == upper {
		return degenerate(f, lower)
	}
	n := m.Points
	if n < 2 {
		n = DefaultGridPoints
	}

	xs := floats.Span(make([]float64, n), lower, upper)
	best := -1
	var bestF, atLower float64
	for k, x := range xs {
		fx := f(x)
		if k == 0 {
			atLower = fx
		}
		if !finite(fx) {
			continue
		}
		if best < 0 || fx < bestF {
			best, bestF = k, fx
		}
	}
	if best < 0 {
		return Result{X: lower, F: atLower, Evaluations: n}, fmt.Errorf("%w anywhere on [%g, %g]", ErrNonFiniteObjective, lower, upper)
	}
	return Result{X: xs[best], F: bestF, Evaluations: n, Converged: true}, nil
}
