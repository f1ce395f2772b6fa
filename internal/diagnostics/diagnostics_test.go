package diagnostics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/llm-d/mec-offload-game/pkg/core"
	"github.com/llm-d/mec-offload-game/pkg/solver"
)

// midpoint always answers the middle of the interval.
var midpoint = solver.MinimizerFunc(func(f func(float64) float64, lower, upper float64) (solver.Result, error) {
	x := (lower + upper) / 2
	return solver.Result{X: x, F: f(x), Evaluations: 1, Converged: true}, nil
})

func smallGrid() Grid {
	return Grid{
		An:          []float64{0.2, 1},
		Kn:          []float64{1.2},
		Dn:          []float64{5e9},
		Fn:          []float64{1e9, 2e9},
		Gn:          []float64{5e-9},
		Bn:          []float64{1e6, 4e6},
		Cpar:        []float64{0.5},
		TransmRate:  1e6,
		TransmPower: 0.1,
	}
}

func TestGridAt(t *testing.T) {
	g := smallGrid()
	require.Equal(t, 8, g.Size())

	first := g.At(0)
	assert.Equal(t, Point{An: 0.2, Kn: 1.2, Dn: 5e9, Fn: 1e9, Gn: 5e-9, Bn: 1e6, Cpar: 0.5}, first)

	// Bn varies fastest among the multi-valued axes, An slowest.
	assert.Equal(t, 4e6, g.At(1).Bn)
	assert.Equal(t, 2e9, g.At(2).Fn)
	assert.Equal(t, 1.0, g.At(4).An)
	assert.Equal(t, Point{An: 1, Kn: 1.2, Dn: 5e9, Fn: 2e9, Gn: 5e-9, Bn: 4e6, Cpar: 0.5}, g.At(7))

	assert.Equal(t, 8*8*8*8*8*8*8, DefaultGrid(8).Size())
	assert.Equal(t, []float64{3}, Span(3, 5, 1))
}

func TestSweepCountsInteriorResponses(t *testing.T) {
	g := smallGrid()
	report, err := Sweep(context.Background(), g, SweepOptions{Minimizer: midpoint, Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, 8, report.Points)
	assert.Equal(t, 8, report.Evaluated)
	require.Len(t, report.Interesting, 8)
	for i, pt := range report.Interesting {
		assert.Equal(t, i, pt.Index)
		assert.Equal(t, DefaultLevels, pt.Interior)
		assert.Greater(t, pt.C, 0.0)
	}
	assert.Equal(t, float64(DefaultLevels), report.Summary.Mean)
	assert.Equal(t, float64(DefaultLevels), report.Summary.Max)
}

func TestSweepSkipsNonPositivePrices(t *testing.T) {
	g := smallGrid()
	// tn*en = 0.1 < 1 gives a negative price
	g.Dn = []float64{1e9}
	g.Fn = []float64{10e9}
	g.Gn = []float64{1e-9}

	report, err := Sweep(context.Background(), g, SweepOptions{Minimizer: midpoint})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Points)
	assert.Zero(t, report.Evaluated)
	assert.Empty(t, report.Interesting)
	assert.Equal(t, Summary{}, report.Summary)
}

func TestSweepIsIndependentOfWorkers(t *testing.T) {
	g := smallGrid()
	one, err := Sweep(context.Background(), g, SweepOptions{Workers: 1})
	require.NoError(t, err)
	many, err := Sweep(context.Background(), g, SweepOptions{Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, one, many)

	for _, pt := range one.Interesting {
		assert.Greater(t, pt.Interior, DefaultMinInterior)
		assert.LessOrEqual(t, pt.Interior, DefaultLevels)
	}
}

func TestSweepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sweep(ctx, smallGrid(), SweepOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCurves(t *testing.T) {
	p, err := core.NewParams(core.ParamsSpec{
		Bn:          []float64{1e6, 1e6},
		Dn:          []float64{5e9, 5e9},
		En:          []float64{1e-2, 1e-2},
		C:           []float64{0.5, 0.5},
		TransmRate:  1e6,
		TransmPower: 0.1,
	})
	require.NoError(t, err)

	curves, err := Curves(p, 0, 11, 101, &solver.Brent{}, -1)
	require.NoError(t, err)
	require.Len(t, curves, 11)

	assert.Equal(t, 0.0, curves[0].Others)
	assert.Equal(t, 1e6, curves[10].Others)
	for _, c := range curves {
		require.Len(t, c.X, 101)
		require.Len(t, c.Utility, 101)
		assert.Equal(t, solver.NoOffload, c.BestKind)
		assert.False(t, c.Interior())
		assert.Equal(t, 0.0, c.Best)
		assert.GreaterOrEqual(t, c.BestUtility, floats.Max(c.Utility)-1e-12)
	}

	_, err = Curves(p, 2, 11, 101, &solver.Brent{}, -1)
	assert.Error(t, err)
	_, err = Curves(p, 0, 0, 101, &solver.Brent{}, -1)
	assert.Error(t, err)
}

func TestCurvesInteriorOptimum(t *testing.T) {
	p, err := core.NewParams(core.ParamsSpec{
		Bn:          []float64{1e6},
		Dn:          []float64{1e11},
		En:          []float64{10},
		C:           []float64{1e-11},
		TransmRate:  1e6,
		TransmPower: 0.1,
	})
	require.NoError(t, err)

	curves, err := Curves(p, 0, 3, 1001, &solver.Brent{}, -1)
	require.NoError(t, err)
	for _, c := range curves {
		assert.True(t, c.Interior())
		assert.GreaterOrEqual(t, c.BestUtility, floats.Max(c.Utility)-1e-9)
		assert.InDelta(t, curves[0].Best, c.Best, 1e-6)
	}
}
