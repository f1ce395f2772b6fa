package initializer

import (
	"fmt"
	"math"

	"github.com/llm-d/mec-offload-game/internal/config"
	"github.com/llm-d/mec-offload-game/pkg/core"
)

// Initializer is an interface that defines the method for seeding the strategy vector of a game
type Initializer interface {
	// Initialize returns a fresh strategy vector with 0 <= b[i] <= bn[i] for every user
	Initialize(p *core.Params) []float64
}

// ConstantFraction seeds every user with the same fraction of its capacity
type ConstantFraction struct {
	Fraction float64
}

// Initialize implements Initializer
func (c *ConstantFraction) Initialize(p *core.Params) []float64 {
	f := math.Min(math.Max(c.Fraction, 0), 1)
	b := p.Capacities()
	for i := range b {
		b[i] *= f
	}
	return b
}

// Zero seeds every user with no offloading at all
type Zero struct{}

// Initialize implements Initializer
func (Zero) Initialize(p *core.Params) []float64 {
	return make([]float64, p.NumUsers())
}

// NewInitializer is a factory that creates a new Initializer based on the provided policy
func NewInitializer(policy config.InitPolicy, fraction float64) (Initializer, error) {
	switch policy {
	case config.InitConstant, "":
		if fraction < 0 || fraction > 1 {
			return nil, fmt.Errorf("initial fraction must be between 0 and 1, got %g", fraction)
		}
		return &ConstantFraction{Fraction: fraction}, nil
	case config.InitZero:
		return Zero{}, nil
	default:
		return nil, fmt.Errorf("unsupported init policy: %q", policy)
	}
}
