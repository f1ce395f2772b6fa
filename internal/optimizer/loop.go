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

package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/llm-d/mec-offload-game/internal/config"
	"github.com/llm-d/mec-offload-game/internal/engines/initializer"
	"github.com/llm-d/mec-offload-game/internal/logging"
	"github.com/llm-d/mec-offload-game/pkg/core"
	"github.com/llm-d/mec-offload-game/pkg/solver"
)

// State is the state of an equilibrium loop.
type State string

const (
	// Running means more sweeps are needed.
	Running State = "Running"
	// Converged means no strategy moved by more than the tolerance over a sweep.
	Converged State = "Converged"
	// MaxIterationsReached means the sweep cap was hit before convergence.
	MaxIterationsReached State = "MaxIterationsReached"
	// Failed means a sweep could not be completed.
	Failed State = "Failed"
)

// Terminal reports whether no further sweep will run.
func (s State) Terminal() bool {
	return s != Running
}

// SweepStats summarizes one sweep.
type SweepStats struct {
	Sweep     int
	MaxChange float64
	PoF       float64
}

// Loop is the best-response fixed-point iteration over all users. It owns the
// strategy vector; nothing else mutates it. A Loop is not safe for concurrent use.
type Loop struct {
	params    *core.Params
	cfg       config.RunConfig
	minimizer solver.Minimizer

	b     []float64
	bOld  []float64
	kinds []solver.ResponseKind

	state       State
	sweeps      int
	evaluations int
	history     []SweepStats
	err         error
}

// NewLoop seeds a loop over p. Degenerate parameters are rejected here, before
// any sweep runs.
func NewLoop(p *core.Params, cfg config.RunConfig, init initializer.Initializer, m solver.Minimizer) (*Loop, error) {
	if p == nil {
		return nil, errors.New("params must not be nil")
	}
	if init == nil || m == nil {
		return nil, errors.New("initializer and minimizer must not be nil")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}

	n := p.NumUsers()
	capacities := p.Capacities()
	b := init.Initialize(p)
	if len(b) != n {
		return nil, fmt.Errorf("initializer returned %d strategies for %d users", len(b), n)
	}
	initializer.Clamp(b, capacities)

	kinds := make([]solver.ResponseKind, n)
	for i := range kinds {
		kinds[i] = solver.Classify(b[i], capacities[i], cfg.BoundaryEpsilon)
	}

	return &Loop{
		params:    p,
		cfg:       cfg,
		minimizer: m,
		b:         b,
		bOld:      initializer.Sentinel(n),
		kinds:     kinds,
		state:     Running,
	}, nil
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Strategies returns a copy of the current strategy vector.
func (l *Loop) Strategies() []float64 { return slices.Clone(l.b) }

// Step runs one sweep and returns the resulting state. Once the loop is in a
// terminal state Step does nothing.
func (l *Loop) Step(ctx context.Context) (State, error) {
	if l.state.Terminal() {
		return l.state, l.err
	}
	if err := ctx.Err(); err != nil {
		return l.fail(err)
	}
	log := logging.FromContext(ctx)

	before := slices.Clone(l.b)
	var err error
	switch l.cfg.UpdateRule {
	case config.Jacobi:
		err = l.jacobiSweep(ctx, before)
	default:
		err = l.gaussSeidelSweep()
	}
	if err != nil {
		return l.fail(err)
	}
	l.sweeps++

	stats := SweepStats{
		Sweep:     l.sweeps,
		MaxChange: maxAbsDiff(before, l.b),
		PoF:       l.params.PoF(l.b),
	}
	l.history = append(l.history, stats)
	log.V(logging.TRACE).Info("Sweep done",
		"sweep", stats.Sweep,
		"maxChange", stats.MaxChange,
		"pof", stats.PoF,
		"strategies", l.b)

	if withinTolerance(l.b, l.bOld, l.cfg.Tolerance) {
		l.state = Converged
		return l.state, nil
	}
	copy(l.bOld, l.b)
	if l.sweeps >= l.cfg.MaxIterations {
		l.state = MaxIterationsReached
	}
	return l.state, nil
}

// Run steps until the loop reaches a terminal state and returns its result. A
// failed run returns the partial result together with the error.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	log := logging.FromContext(ctx)
	for !l.state.Terminal() {
		if _, err := l.Step(ctx); err != nil {
			log.Error(err, "Equilibrium run failed", "sweeps", l.sweeps)
			return l.Result(), err
		}
	}
	log.V(logging.DEBUG).Info("Equilibrium run finished",
		"state", l.state,
		"sweeps", l.sweeps,
		"evaluations", l.evaluations,
		"pof", l.params.PoF(l.b))
	return l.Result(), nil
}

// Respond computes user i's best response to the current strategies without
// changing the loop.
func (l *Loop) Respond(ctx context.Context, i int) (solver.Response, error) {
	if err := ctx.Err(); err != nil {
		return solver.Response{}, err
	}
	return solver.BestResponse(l.params, i, slices.Clone(l.b), l.minimizer, l.cfg.BoundaryEpsilon)
}

// gaussSeidelSweep visits users 0..N-1 and updates b in place, so later users
// see the responses of earlier ones within the same sweep.
func (l *Loop) gaussSeidelSweep() error {
	for i := range l.b {
		resp, err := solver.BestResponse(l.params, i, l.b, l.minimizer, l.cfg.BoundaryEpsilon)
		if err != nil {
			return err
		}
		l.apply(i, resp)
	}
	return nil
}

// jacobiSweep lets every user respond to the same snapshot. Responses are
// computed concurrently and applied afterwards, so the result does not depend
// on scheduling.
func (l *Loop) jacobiSweep(ctx context.Context, snapshot []float64) error {
	responses := make([]solver.Response, len(snapshot))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Workers)
	for i := range snapshot {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp, err := solver.BestResponse(l.params, i, snapshot, l.minimizer, l.cfg.BoundaryEpsilon)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, resp := range responses {
		l.apply(i, resp)
	}
	return nil
}

func (l *Loop) apply(i int, resp solver.Response) {
	l.b[i] = resp.Value
	l.kinds[i] = resp.Kind
	l.evaluations += resp.Evaluations
}

func (l *Loop) fail(err error) (State, error) {
	l.state = Failed
	l.err = err
	return l.state, err
}

// withinTolerance reports whether every b[i] equals old[i] within tol, in
// absolute or relative terms. NaN entries never compare equal.
func withinTolerance(b, old []float64, tol float64) bool {
	for i := range b {
		if !scalar.EqualWithinAbsOrRel(b[i], old[i], tol, tol) {
			return false
		}
	}
	return true
}

func maxAbsDiff(a, b []float64) float64 {
	var m float64
	for i := range a {
		m = math.Max(m, math.Abs(a[i]-b[i]))
	}
	return m
}
