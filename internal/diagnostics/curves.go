package diagnostics

import (
	"fmt"
	"math"

	"github.com/llm-d/mec-offload-game/pkg/core"
	"github.com/llm-d/mec-offload-game/pkg/solver"
)

// Curve is one user's utility over [0, bn] for a fixed offload level of the others.
type Curve struct {
	// Others is the offload amount of every other user.
	Others float64 `json:"others"`
	// X and Utility are the sampled curve.
	X       []float64 `json:"x"`
	Utility []float64 `json:"utility"`
	// Best is the minimizer's best response at this level.
	Best     float64             `json:"best"`
	BestKind solver.ResponseKind `json:"bestKind"`
	// BestUtility is the utility at Best.
	BestUtility float64 `json:"bestUtility"`
}

// Interior reports whether the best response sits strictly inside (0, bn).
func (c Curve) Interior() bool {
	return c.BestKind == solver.Interior
}

// Curves samples user's utility at levels evenly spaced offload levels of the
// others in [0, bn], with samples points per curve. Each other user's level is
// capped at its own capacity.
func Curves(p *core.Params, user, levels, samples int, m solver.Minimizer, eps float64) ([]Curve, error) {
	if user < 0 || user >= p.NumUsers() {
		return nil, fmt.Errorf("user index %d out of range [0, %d)", user, p.NumUsers())
	}
	if levels < 1 || samples < 2 {
		return nil, fmt.Errorf("need at least one level and two samples, got %d and %d", levels, samples)
	}

	capacity := p.Capacity(user)
	b := make([]float64, p.NumUsers())
	curves := make([]Curve, 0, levels)
	for _, level := range Span(0, capacity, levels) {
		for j := range b {
			if j != user {
				b[j] = math.Min(level, p.Capacity(j))
			}
		}

		x := Span(0, capacity, samples)
		u := make([]float64, len(x))
		for k, xi := range x {
			u[k] = p.Utility(user, xi, b)
		}

		resp, err := solver.BestResponse(p, user, b, m, eps)
		if err != nil {
			return nil, fmt.Errorf("others at %g: %w", level, err)
		}
		curves = append(curves, Curve{
			Others:      level,
			X:           x,
			Utility:     u,
			Best:        resp.Value,
			BestKind:    resp.Kind,
			BestUtility: resp.Utility(),
		})
	}
	return curves, nil
}
