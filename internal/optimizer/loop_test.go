package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/llm-d/mec-offload-game/api/v1alpha1"
	"github.com/llm-d/mec-offload-game/internal/config"
	"github.com/llm-d/mec-offload-game/internal/engines/initializer"
	"github.com/llm-d/mec-offload-game/pkg/core"
	"github.com/llm-d/mec-offload-game/pkg/solver"
)

// twoUserParams is a benign regime: pricing dominates, both users stay local.
func twoUserParams() *core.Params {
	p, err := core.NewParams(core.ParamsSpec{
		Bn:          []float64{1e6, 1e6},
		Dn:          []float64{5e9, 5e9},
		En:          []float64{1e-2, 1e-2},
		C:           []float64{0.5, 0.5},
		TransmRate:  1e6,
		TransmPower: 0.1,
	})
	Expect(err).NotTo(HaveOccurred())
	return p
}

// singleUserParams has an interior optimum near 0.7*bn.
func singleUserParams() *core.Params {
	p, err := core.NewParams(core.ParamsSpec{
		Bn:          []float64{1e6},
		Dn:          []float64{1e11},
		En:          []float64{10},
		C:           []float64{1e-11},
		TransmRate:  1e6,
		TransmPower: 0.1,
	})
	Expect(err).NotTo(HaveOccurred())
	return p
}

// threeUserParams gives every user an interior response, so the sweep order
// shows in the strategies.
func threeUserParams() *core.Params {
	p, err := core.NewParams(core.ParamsSpec{
		Bn:          []float64{1e6, 1e6, 1e6},
		Dn:          []float64{1e11, 1e11, 1e11},
		En:          []float64{10, 10, 10},
		C:           []float64{1e-11, 1e-11, 1e-11},
		TransmRate:  1e6,
		TransmPower: 0.1,
	})
	Expect(err).NotTo(HaveOccurred())
	return p
}

// handSweep answers every user in index order, either updating b in place or
// against the vector as it was at sweep start.
func handSweep(p *core.Params, cfg config.RunConfig, b []float64, inPlace bool) []float64 {
	m, err := solver.NewMinimizer(cfg.Minimizer, cfg.SolverOptions())
	Expect(err).NotTo(HaveOccurred())
	snapshot := append([]float64(nil), b...)
	out := append([]float64(nil), b...)
	for i := range out {
		against := snapshot
		if inPlace {
			against = out
		}
		resp, err := solver.BestResponse(p, i, against, m, cfg.BoundaryEpsilon)
		Expect(err).NotTo(HaveOccurred())
		out[i] = resp.Value
	}
	return out
}

func scenarioConfig() config.RunConfig {
	cfg := config.DefaultRunConfig()
	cfg.Tolerance = 1e-3
	cfg.MaxIterations = 50
	return cfg
}

func newLoop(p *core.Params, cfg config.RunConfig) *Loop {
	seeder, err := initializer.NewInitializer(cfg.InitPolicy, cfg.InitFraction)
	Expect(err).NotTo(HaveOccurred())
	m, err := solver.NewMinimizer(cfg.Minimizer, cfg.SolverOptions())
	Expect(err).NotTo(HaveOccurred())
	loop, err := NewLoop(p, cfg, seeder, m)
	Expect(err).NotTo(HaveOccurred())
	return loop
}

var _ = Describe("Loop", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with the two-user benign scenario", func() {
		It("should converge to a symmetric strategy vector", func() {
			res, err := newLoop(twoUserParams(), scenarioConfig()).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.State).To(Equal(Converged))
			Expect(res.Sweeps).To(BeNumerically("<=", 50))
			Expect(res.Strategies).To(HaveLen(2))
			Expect(res.Strategies[0]).To(BeNumerically("~", res.Strategies[1], 1e-3))
		})

		It("should report both users as offloading nothing", func() {
			res, err := newLoop(twoUserParams(), scenarioConfig()).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Kinds).To(Equal([]solver.ResponseKind{solver.NoOffload, solver.NoOffload}))
			Expect(res.Strategies).To(Equal([]float64{0, 0}))
			Expect(res.PoF).To(Equal(0.0))
			Expect(res.Costs).To(Equal([]float64{0, 0}))
			Expect(res.Energies[0]).To(BeNumerically("~", 1e-2, 1e-12))
			Expect(res.Interior()).To(BeFalse())
		})

		It("should be deterministic", func() {
			a, err := newLoop(twoUserParams(), scenarioConfig()).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			b, err := newLoop(twoUserParams(), scenarioConfig()).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Strategies).To(Equal(a.Strategies))
			Expect(b.Sweeps).To(Equal(a.Sweeps))
			Expect(b.Evaluations).To(Equal(a.Evaluations))
		})

		It("should leave a converged vector unchanged on another best response", func() {
			loop := newLoop(twoUserParams(), scenarioConfig())
			res, err := loop.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.State).To(Equal(Converged))
			for i := range res.Strategies {
				resp, err := loop.Respond(ctx, i)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Value).To(BeNumerically("~", res.Strategies[i], 1e-3))
			}
			Expect(loop.Strategies()).To(Equal(res.Strategies))
		})

		It("should agree with the Jacobi update rule", func() {
			gs, err := newLoop(twoUserParams(), scenarioConfig()).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			cfg := scenarioConfig()
			cfg.UpdateRule = config.Jacobi
			jac, err := newLoop(twoUserParams(), cfg).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(jac.State).To(Equal(Converged))
			Expect(jac.Strategies).To(Equal(gs.Strategies))
		})

		It("should converge from the zero initialization too", func() {
			cfg := scenarioConfig()
			cfg.InitPolicy = config.InitZero
			res, err := newLoop(twoUserParams(), cfg).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.State).To(Equal(Converged))
			Expect(res.Sweeps).To(Equal(2))
		})
	})

	Context("with three users offloading part of their data", func() {
		seed := []float64{0.5e6, 0.5e6, 0.5e6}

		It("should update strategies in place during a gauss-seidel sweep", func() {
			cfg := scenarioConfig()
			loop := newLoop(threeUserParams(), cfg)
			state, err := loop.Step(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(Running))

			got := loop.Strategies()
			Expect(got).To(Equal(handSweep(threeUserParams(), cfg, seed, true)))
			Expect(got).NotTo(Equal(handSweep(threeUserParams(), cfg, seed, false)))
		})

		It("should let later users see earlier responses within the first sweep", func() {
			loop := newLoop(threeUserParams(), scenarioConfig())
			_, err := loop.Step(ctx)
			Expect(err).NotTo(HaveOccurred())

			b := loop.Strategies()
			Expect(b[1] - b[0]).To(BeNumerically(">", 1e3))
			Expect(b[2] - b[1]).To(BeNumerically(">", 1e3))
		})

		It("should answer one snapshot during a jacobi sweep", func() {
			cfg := scenarioConfig()
			cfg.UpdateRule = config.Jacobi
			loop := newLoop(threeUserParams(), cfg)
			_, err := loop.Step(ctx)
			Expect(err).NotTo(HaveOccurred())

			b := loop.Strategies()
			Expect(b).To(Equal(handSweep(threeUserParams(), cfg, seed, false)))
			Expect(b[1]).To(Equal(b[0]))
			Expect(b[2]).To(Equal(b[0]))
		})

		It("should converge to an interior equilibrium under both rules", func() {
			gs, err := newLoop(threeUserParams(), scenarioConfig()).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(gs.State).To(Equal(Converged))
			Expect(gs.Interior()).To(BeTrue())

			cfg := scenarioConfig()
			cfg.UpdateRule = config.Jacobi
			jac, err := newLoop(threeUserParams(), cfg).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(jac.State).To(Equal(Converged))
			Expect(gs.Sweeps).To(BeNumerically("<", jac.Sweeps))
		})
	})

	Context("with a single user", func() {
		It("should settle on the interior grid-search optimum", func() {
			p := singleUserParams()
			res, err := newLoop(p, scenarioConfig()).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.State).To(Equal(Converged))
			Expect(res.Sweeps).To(Equal(2))
			Expect(res.Kinds).To(Equal([]solver.ResponseKind{solver.Interior}))
			Expect(res.Interior()).To(BeTrue())

			grid, err := solver.BestResponse(p, 0, []float64{0}, &solver.Grid{Points: 100001}, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Strategies[0]).To(BeNumerically("~", grid.Value, 20))
			Expect(res.Utilities[0]).To(BeNumerically(">=", grid.Utility()-1e-9))
		})
	})

	Context("state transitions", func() {
		It("should never converge on the first sweep", func() {
			loop := newLoop(twoUserParams(), scenarioConfig())
			Expect(loop.State()).To(Equal(Running))
			state, err := loop.Step(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(Running))
			state, err = loop.Step(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(Converged))
		})

		It("should stop at the sweep cap", func() {
			cfg := scenarioConfig()
			cfg.MaxIterations = 1
			res, err := newLoop(twoUserParams(), cfg).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.State).To(Equal(MaxIterationsReached))
			Expect(res.Sweeps).To(Equal(1))
		})

		It("should ignore steps once terminal", func() {
			loop := newLoop(twoUserParams(), scenarioConfig())
			res, err := loop.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			state, err := loop.Step(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(Converged))
			Expect(loop.Result().Sweeps).To(Equal(res.Sweeps))
		})

		It("should record one history entry per sweep", func() {
			res, err := newLoop(twoUserParams(), scenarioConfig()).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.History).To(HaveLen(res.Sweeps))
			Expect(res.History[0].Sweep).To(Equal(1))
			Expect(res.History[0].MaxChange).To(Equal(0.5e6))
			Expect(res.History[len(res.History)-1].MaxChange).To(Equal(0.0))
		})

		It("should fail on a cancelled context and keep the partial vector", func() {
			loop := newLoop(twoUserParams(), scenarioConfig())
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			res, err := loop.Run(cctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.State).To(Equal(Failed))
			Expect(res.Strategies).To(Equal([]float64{0.5e6, 0.5e6}))
		})

		It("should fail when the minimizer meets a non-finite objective", func() {
			cfg := scenarioConfig()
			broken := solver.MinimizerFunc(func(f func(float64) float64, lower, upper float64) (solver.Result, error) {
				return solver.Result{X: lower, F: math.NaN()}, fmt.Errorf("%w: test", solver.ErrNonFiniteObjective)
			})
			seeder, err := initializer.NewInitializer(cfg.InitPolicy, cfg.InitFraction)
			Expect(err).NotTo(HaveOccurred())
			loop, err := NewLoop(twoUserParams(), cfg, seeder, broken)
			Expect(err).NotTo(HaveOccurred())

			res, err := loop.Run(ctx)
			Expect(errors.Is(err, solver.ErrNonFiniteObjective)).To(BeTrue())
			Expect(res.State).To(Equal(Failed))

			record := res.Record("broken", time.Unix(0, 0))
			c := meta.FindStatusCondition(record.Status.Conditions, v1alpha1.TypeConverged)
			Expect(c).NotTo(BeNil())
			Expect(c.Reason).To(Equal(v1alpha1.ReasonNonFiniteObjective))
		})
	})

	Context("construction", func() {
		It("should reject degenerate parameters before running", func() {
			cfg := scenarioConfig()
			seeder, _ := initializer.NewInitializer(cfg.InitPolicy, cfg.InitFraction)
			m, _ := solver.NewMinimizer(cfg.Minimizer, cfg.SolverOptions())
			_, err := NewLoop(nil, cfg, seeder, m)
			Expect(err).To(HaveOccurred())

			_, err = core.NewParams(core.ParamsSpec{
				Bn: []float64{0}, Dn: []float64{1}, En: []float64{1}, C: []float64{1}, TransmRate: 1,
			})
			Expect(errors.Is(err, core.ErrDegenerateParams)).To(BeTrue())
		})

		It("should reject an invalid run config", func() {
			cfg := scenarioConfig()
			cfg.Tolerance = 0
			seeder, _ := initializer.NewInitializer(config.InitZero, 0)
			m, _ := solver.NewMinimizer(solver.BrentKind, solver.Options{})
			_, err := NewLoop(twoUserParams(), cfg, seeder, m)
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("Result.Record", func() {
	It("should package a converged run", func() {
		finished := time.Unix(1730000000, 0).UTC()
		res, err := newLoop(twoUserParams(), scenarioConfig()).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		record := res.Record("scenario", finished)
		Expect(record.Kind).To(Equal(v1alpha1.Kind))
		Expect(record.APIVersion).To(Equal(v1alpha1.GroupVersion.String()))
		Expect(record.Name).To(Equal("scenario"))
		Expect(record.Spec.Users).To(HaveLen(2))
		Expect(record.Spec.Users[0].An).To(Equal(1.0))
		Expect(record.Spec.DecayK).To(Equal(core.DefaultDecayK))
		Expect(record.Spec.Settings.MaxIterations).To(Equal(50))
		Expect(record.Status.State).To(Equal(string(Converged)))
		Expect(record.Status.Strategies).To(Equal(res.Strategies))
		Expect(record.Status.ResponseKinds).To(Equal([]string{"NoOffload", "NoOffload"}))
		Expect(record.Status.History).To(HaveLen(res.Sweeps))
		Expect(record.Status.LastRunTime.Time).To(Equal(finished))

		c := meta.FindStatusCondition(record.Status.Conditions, v1alpha1.TypeConverged)
		Expect(c).NotTo(BeNil())
		Expect(c.Status).To(Equal(metav1.ConditionTrue))
		Expect(c.Reason).To(Equal(v1alpha1.ReasonToleranceSatisfied))
	})

	It("should flag a capped run as not converged", func() {
		cfg := scenarioConfig()
		cfg.MaxIterations = 1
		res, err := newLoop(twoUserParams(), cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		c := meta.FindStatusCondition(res.Record("capped", time.Now()).Status.Conditions, v1alpha1.TypeConverged)
		Expect(c).NotTo(BeNil())
		Expect(c.Status).To(Equal(metav1.ConditionFalse))
		Expect(c.Reason).To(Equal(v1alpha1.ReasonMaxIterationsReached))
	})
})
