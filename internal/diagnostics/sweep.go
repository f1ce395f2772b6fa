package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/llm-d/mec-offload-game/internal/engines/common"
	"github.com/llm-d/mec-offload-game/internal/logging"
	"github.com/llm-d/mec-offload-game/pkg/config"
	"github.com/llm-d/mec-offload-game/pkg/core"
	"github.com/llm-d/mec-offload-game/pkg/solver"
)

// Sweep defaults.
const (
	DefaultLevels      = 11
	DefaultOthers      = 5
	DefaultMinInterior = 8
)

// Grid lists the values explored for every constant. Dn, Fn, Gn and Bn are in
// the units of the generator (cycles, cycles per second, joules per cycle, bits).
type Grid struct {
	An   []float64 `json:"an"`
	Kn   []float64 `json:"kn"`
	Dn   []float64 `json:"dn"`
	Fn   []float64 `json:"fn"`
	Gn   []float64 `json:"gn"`
	Bn   []float64 `json:"bn"`
	Cpar []float64 `json:"cpar"`

	TransmRate  float64 `json:"transmRate"`
	TransmPower float64 `json:"transmPower"`
}

// Span returns n evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// DefaultGrid spans the generator ranges with steps values per constant.
func DefaultGrid(steps int) Grid {
	return Grid{
		An:          Span(0.3, 1, steps),
		Kn:          Span(0.1, 2, steps),
		Dn:          Span(config.MinCycles, config.MaxCycles, steps),
		Fn:          Span(config.MinSpeed, config.MaxSpeed, steps),
		Gn:          Span(config.MinCycleEnergy, config.MaxCycleEnergy, steps),
		Bn:          Span(config.MinData, config.MaxData, steps),
		Cpar:        Span(0.2, 0.9, steps),
		TransmRate:  1e6,
		TransmPower: 0.1,
	}
}

// Size returns the number of grid points.
func (g Grid) Size() int {
	n := 1
	for _, axis := range g.axes() {
		n *= len(axis)
	}
	return n
}

func (g Grid) axes() [][]float64 {
	return [][]float64{g.An, g.Kn, g.Dn, g.Fn, g.Gn, g.Bn, g.Cpar}
}

// At decodes the idx-th grid point, the last axis varying fastest.
func (g Grid) At(idx int) Point {
	axes := g.axes()
	v := make([]float64, len(axes))
	for a := len(axes) - 1; a >= 0; a-- {
		n := len(axes[a])
		v[a] = axes[a][idx%n]
		idx /= n
	}
	return Point{An: v[0], Kn: v[1], Dn: v[2], Fn: v[3], Gn: v[4], Bn: v[5], Cpar: v[6]}
}

// Point is one evaluated grid point.
type Point struct {
	Index int     `json:"index"`
	An    float64 `json:"an"`
	Kn    float64 `json:"kn"`
	Dn    float64 `json:"dn"`
	Fn    float64 `json:"fn"`
	Gn    float64 `json:"gn"`
	Bn    float64 `json:"bn"`
	Cpar  float64 `json:"cpar"`

	// C is the price factor implied by the constants.
	C float64 `json:"c"`
	// Interior counts interior best responses over the offload levels.
	Interior int `json:"interior"`
}

// Params builds a game of 1+others identical users at the point.
func (pt Point) Params(others int, transmRate, transmPower float64) (*core.Params, error) {
	n := 1 + others
	tn := pt.Dn / pt.Fn
	en := pt.Gn * pt.Dn
	return core.NewParams(core.ParamsSpec{
		Bn:          fill(n, pt.Bn),
		Dn:          fill(n, pt.Dn),
		En:          fill(n, en),
		C:           fill(n, config.Price(pt.Cpar, pt.Bn, pt.Dn, tn, en)),
		An:          fill(n, pt.An),
		Kn:          fill(n, pt.Kn),
		Tn:          fill(n, tn),
		TransmRate:  transmRate,
		TransmPower: transmPower,
	})
}

// SweepOptions tune a sweep. Zero values select defaults.
type SweepOptions struct {
	Minimizer   solver.Minimizer
	Epsilon     float64
	Levels      int
	Others      int
	MinInterior int
	Workers     int
}

func (o SweepOptions) withDefaults() SweepOptions {
	if o.Minimizer == nil {
		o.Minimizer = &solver.Brent{}
	}
	if o.Epsilon <= 0 {
		o.Epsilon = solver.DefaultBoundaryEpsilon
	}
	if o.Levels < 2 {
		o.Levels = DefaultLevels
	}
	if o.Others < 1 {
		o.Others = DefaultOthers
	}
	if o.MinInterior <= 0 {
		o.MinInterior = DefaultMinInterior
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// Summary describes the interior counts of all evaluated points.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// Report is the outcome of a sweep.
type Report struct {
	// Points is the grid size.
	Points int `json:"points"`
	// Evaluated counts points with a positive price.
	Evaluated int `json:"evaluated"`
	// Interesting lists the points above the interior threshold, by index.
	Interesting []Point `json:"interesting"`
	Summary     Summary `json:"summary"`
}

// Sweep evaluates every grid point with a positive price.
func Sweep(ctx context.Context, g Grid, opts SweepOptions) (Report, error) {
	opts = opts.withDefaults()
	log := logging.FromContext(ctx)

	size := g.Size()
	store := common.NewResultStore[int, Point]()

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for idx := 0; idx < size; idx++ {
		if ectx.Err() != nil {
			break
		}
		eg.Go(func() error {
			pt := g.At(idx)
			pt.Index = idx
			pt.C = config.Price(pt.Cpar, pt.Bn, pt.Dn, pt.Dn/pt.Fn, pt.Gn*pt.Dn)
			if !(pt.C > 0) {
				return nil
			}
			interior, err := countInterior(pt, g, opts)
			if err != nil {
				if errors.Is(err, core.ErrDegenerateParams) {
					return nil
				}
				return fmt.Errorf("grid point %d: %w", idx, err)
			}
			pt.Interior = interior
			store.Set(idx, pt)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	evaluated := store.All()
	report := Report{Points: size, Evaluated: len(evaluated), Interesting: []Point{}}
	counts := make(stats.Float64Data, 0, len(evaluated))
	for _, pt := range evaluated {
		counts = append(counts, float64(pt.Interior))
		if pt.Interior > opts.MinInterior {
			report.Interesting = append(report.Interesting, pt)
		}
	}
	if len(counts) > 0 {
		report.Summary = summarize(counts)
	}

	log.V(logging.DEBUG).Info("Parameter sweep finished",
		"points", report.Points,
		"evaluated", report.Evaluated,
		"interesting", len(report.Interesting))
	return report, nil
}

// countInterior counts the offload levels of the others at which user 0 has
// an interior best response with a finite utility.
func countInterior(pt Point, g Grid, opts SweepOptions) (int, error) {
	p, err := pt.Params(opts.Others, g.TransmRate, g.TransmPower)
	if err != nil {
		return 0, err
	}
	b := make([]float64, p.NumUsers())
	count := 0
	for _, level := range Span(0, pt.Bn, opts.Levels) {
		for j := 1; j < len(b); j++ {
			b[j] = level
		}
		resp, err := solver.BestResponse(p, 0, b, opts.Minimizer, opts.Epsilon)
		if errors.Is(err, solver.ErrNonFiniteObjective) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if resp.Kind == solver.Interior && !math.IsInf(resp.Utility(), 0) && !math.IsNaN(resp.Utility()) {
			count++
		}
	}
	return count, nil
}

func summarize(counts stats.Float64Data) Summary {
	var s Summary
	s.Mean, _ = stats.Mean(counts)
	s.Median, _ = stats.Median(counts)
	s.P90, _ = stats.Percentile(counts, 90)
	s.Max, _ = stats.Max(counts)
	return s
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
