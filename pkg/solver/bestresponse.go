package solver

import (
	"fmt"
	"math"

	"github.com/llm-d/mec-offload-game/pkg/core"
)

// ResponseKind classifies a best response.
type ResponseKind string

const (
	// Interior is a best response strictly inside (0, bn).
	Interior ResponseKind = "Interior"
	// NoOffload is a best response at 0: the user processes everything locally.
	NoOffload ResponseKind = "NoOffload"
	// FullOffload is a best response at bn: the user offloads everything.
	FullOffload ResponseKind = "FullOffload"
)

// DefaultBoundaryEpsilon is the fraction of a user's capacity within which a
// response is treated as sitting on the boundary.
const DefaultBoundaryEpsilon = 1e-4

// IsBoundary reports whether the response is degenerate.
func (k ResponseKind) IsBoundary() bool {
	return k == NoOffload || k == FullOffload
}

// Response is one user's best response to the others' strategies.
type Response struct {
	// Value is the offload amount chosen, in [0, bn].
	Value float64
	// Objective is the minimized objective (negated utility) at Value.
	Objective float64
	// Kind tells interior responses from degenerate ones.
	Kind ResponseKind
	// Evaluations is the number of objective evaluations spent.
	Evaluations int
	// Converged is false when the minimizer ran out of evaluations.
	Converged bool
}

// Utility returns the user's utility at the response.
func (r Response) Utility() float64 {
	return -r.Objective
}

// Classify places value relative to [0, capacity] with tolerance eps*capacity.
func Classify(value, capacity, eps float64) ResponseKind {
	tol := eps * capacity
	switch {
	case value <= tol:
		return NoOffload
	case value >= capacity-tol:
		return FullOffload
	default:
		return Interior
	}
}

// BestResponse finds user i's best response to b, holding every b[j], j != i, fixed.
// b is only read. A response landing within eps*bn of a boundary is snapped onto
// the boundary when that does not worsen the objective.
func BestResponse(p *core.Params, i int, b []float64, m Minimizer, eps float64) (Response, error) {
	if i < 0 || i >= p.NumUsers() {
		return Response{}, fmt.Errorf("user index %d out of range [0, %d)", i, p.NumUsers())
	}
	if len(b) != p.NumUsers() {
		return Response{}, fmt.Errorf("strategy vector has %d entries, want %d", len(b), p.NumUsers())
	}
	if eps < 0 {
		eps = DefaultBoundaryEpsilon
	}

	capacity := p.Capacity(i)
	f := p.UserObjective(i, b)
	res, err := m.Minimize(f, 0, capacity)
	if err != nil {
		return Response{}, fmt.Errorf("best response of user %d: %w", i, err)
	}

	resp := Response{
		Value:       res.X,
		Objective:   res.F,
		Kind:        Classify(res.X, capacity, eps),
		Evaluations: res.Evaluations,
		Converged:   res.Converged,
	}

	var edge float64
	switch resp.Kind {
	case NoOffload:
		edge = 0
	case FullOffload:
		edge = capacity
	default:
		return resp, nil
	}
	fe := f(edge)
	resp.Evaluations++
	if !math.IsNaN(fe) && !math.IsInf(fe, 0) && fe <= resp.Objective {
		resp.Value, resp.Objective = edge, fe
	}
	return resp, nil
}
