/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package solver

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNonFiniteObjective is returned when the objective is not finite at the
	// point the search settled on.
	ErrNonFiniteObjective = errors.New("objective is not finite")
	// ErrInvalidInterval is returned for empty or non-finite search intervals.
	ErrInvalidInterval = errors.New("invalid search interval")
)

// Result is the outcome of a bounded scalar minimization.
type Result struct {
	// X is the minimizer found, within [lower, upper].
	X float64
	// F is the objective value at X.
	F float64
	// Evaluations is the number of objective evaluations used.
	Evaluations int
	// Converged is false when the evaluation budget ran out first.
	Converged bool
}

// Minimizer finds the minimum of a scalar objective over a closed interval.
type Minimizer interface {
	// Minimize returns the best point found in [lower, upper].
	Minimize(f func(float64) float64, lower, upper float64) (Result, error)
}

// MinimizerFunc adapts a plain function to the Minimizer interface.
type MinimizerFunc func(f func(float64) float64, lower, upper float64) (Result, error)

// Minimize calls fn(f, lower, upper).
func (fn MinimizerFunc) Minimize(f func(float64) float64, lower, upper float64) (Result, error) {
	return fn(f, lower, upper)
}

// MinimizerKind is an enumeration of the available Minimizer implementations
type MinimizerKind string

// enumeration of MinimizerKind
const (
	BrentKind  MinimizerKind = "brent"
	GoldenKind MinimizerKind = "golden"
	GridKind   MinimizerKind = "grid"
)

// Defaults shared by the minimizers.
const (
	DefaultTolerance      = 1e-5
	DefaultMaxEvaluations = 500
	DefaultGridPoints     = 1001
)

// Options configures a Minimizer. Zero values select the defaults.
type Options struct {
	// Tolerance is the absolute tolerance on the argument.
	Tolerance float64
	// MaxEvaluations caps objective evaluations for iterative searches.
	MaxEvaluations int
	// GridPoints is the number of samples used by the grid minimizer.
	GridPoints int
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxEvaluations <= 0 {
		o.MaxEvaluations = DefaultMaxEvaluations
	}
	if o.GridPoints < 2 {
		o.GridPoints = DefaultGridPoints
	}
	return o
}

// NewMinimizer is a factory that creates a Minimizer of the given kind
func NewMinimizer(kind MinimizerKind, opts Options) (Minimizer, error) {
	opts = opts.withDefaults()
	switch kind {
	case BrentKind, "":
		return &Brent{Tolerance: opts.Tolerance, MaxEvaluations: opts.MaxEvaluations}, nil
	case GoldenKind:
		return &GoldenSection{Tolerance: opts.Tolerance, MaxEvaluations: opts.MaxEvaluations}, nil
	case GridKind:
		return &Grid{Points: opts.GridPoints}, nil
	default:
		return nil, fmt.Errorf("unsupported minimizer: %q", kind)
	}
}

func checkInterval(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || math.IsInf(lower, 0) || math.IsInf(upper, 0) {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidInterval, lower, upper)
	}
	if lower > upper {
		return fmt.Errorf("%w: lower %g > upper %g", ErrInvalidInterval, lower, upper)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// degenerate handles lower == upper.
func degenerate(f func(float64) float64, x float64) (Result, error) {
	fx := f(x)
	res := Result{X: x, F: fx, Evaluations: 1, Converged: true}
	if !finite(fx) {
		return res, fmt.Errorf("%w at x=%g", ErrNonFiniteObjective, x)
	}
	return res, nil
}
