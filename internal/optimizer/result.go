package optimizer

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/llm-d/mec-offload-game/api/v1alpha1"
	"github.com/llm-d/mec-offload-game/internal/config"
	"github.com/llm-d/mec-offload-game/pkg/core"
	"github.com/llm-d/mec-offload-game/pkg/solver"
)

// Result is the packaged outcome of a loop. Slices are owned by the Result.
type Result struct {
	State       State
	Sweeps      int
	Evaluations int

	Strategies []float64
	PoF        float64
	Costs      []float64
	Energies   []float64
	Utilities  []float64
	Kinds      []solver.ResponseKind

	History []SweepStats

	// Err is the failure of a Failed run.
	Err error

	params *core.Params
	cfg    config.RunConfig
}

// Result packages the loop's current strategies and the values they induce.
func (l *Loop) Result() Result {
	return Result{
		State:       l.state,
		Sweeps:      l.sweeps,
		Evaluations: l.evaluations,
		Strategies:  slices.Clone(l.b),
		PoF:         l.params.PoF(l.b),
		Costs:       l.params.Costs(l.b),
		Energies:    l.params.Energies(l.b),
		Utilities:   l.params.Utilities(l.b),
		Kinds:       slices.Clone(l.kinds),
		History:     slices.Clone(l.history),
		Err:         l.err,
		params:      l.params,
		cfg:         l.cfg,
	}
}

// Interior reports whether every user settled strictly inside (0, bn).
func (r Result) Interior() bool {
	for _, k := range r.Kinds {
		if k.IsBoundary() {
			return false
		}
	}
	return len(r.Kinds) > 0
}

// KindNames returns the response kinds as strings.
func (r Result) KindNames() []string {
	out := make([]string, len(r.Kinds))
	for i, k := range r.Kinds {
		out[i] = string(k)
	}
	return out
}

// Record converts the result into a versioned EquilibriumRun named name.
func (r Result) Record(name string, finished time.Time) *v1alpha1.EquilibriumRun {
	run := &v1alpha1.EquilibriumRun{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.GroupVersion.String(),
			Kind:       v1alpha1.Kind,
		},
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: v1alpha1.EquilibriumRunStatus{
			State:         string(r.State),
			Sweeps:        r.Sweeps,
			Evaluations:   r.Evaluations,
			Strategies:    slices.Clone(r.Strategies),
			PoF:           r.PoF,
			Costs:         slices.Clone(r.Costs),
			Energies:      slices.Clone(r.Energies),
			Utilities:     slices.Clone(r.Utilities),
			ResponseKinds: r.KindNames(),
			LastRunTime:   metav1.NewTime(finished),
		},
	}
	for _, h := range r.History {
		run.Status.History = append(run.Status.History, v1alpha1.SweepRecord{
			Sweep:     h.Sweep,
			MaxChange: h.MaxChange,
			PoF:       h.PoF,
		})
	}
	if r.params != nil {
		run.Spec = specFor(r.params, r.cfg)
	}
	meta.SetStatusCondition(&run.Status.Conditions, r.condition(finished))
	return run
}

func (r Result) condition(finished time.Time) metav1.Condition {
	c := metav1.Condition{
		Type:               v1alpha1.TypeConverged,
		LastTransitionTime: metav1.NewTime(finished),
	}
	switch r.State {
	case Converged:
		c.Status = metav1.ConditionTrue
		c.Reason = v1alpha1.ReasonToleranceSatisfied
		c.Message = fmt.Sprintf("strategies stable within %g after %d sweeps", r.cfg.Tolerance, r.Sweeps)
	case MaxIterationsReached:
		c.Status = metav1.ConditionFalse
		c.Reason = v1alpha1.ReasonMaxIterationsReached
		c.Message = fmt.Sprintf("no convergence within %d sweeps", r.Sweeps)
	case Failed:
		c.Status = metav1.ConditionFalse
		c.Reason = v1alpha1.ReasonRunFailed
		if errors.Is(r.Err, solver.ErrNonFiniteObjective) {
			c.Reason = v1alpha1.ReasonNonFiniteObjective
		}
		if r.Err != nil {
			c.Message = r.Err.Error()
		}
	default:
		c.Status = metav1.ConditionUnknown
		c.Reason = string(r.State)
		c.Message = fmt.Sprintf("run stopped after %d sweeps", r.Sweeps)
	}
	return c
}

func specFor(p *core.Params, cfg config.RunConfig) v1alpha1.EquilibriumRunSpec {
	s := p.Spec()
	users := make([]v1alpha1.UserParams, p.NumUsers())
	for i := range users {
		users[i] = v1alpha1.UserParams{
			Bn: s.Bn[i],
			Dn: s.Dn[i],
			En: s.En[i],
			C:  s.C[i],
			An: s.An[i],
			Kn: s.Kn[i],
		}
		if i < len(s.Tn) {
			users[i].Tn = s.Tn[i]
		}
	}
	return v1alpha1.EquilibriumRunSpec{
		Users:       users,
		TransmRate:  s.TransmRate,
		TransmPower: s.TransmPower,
		DecayK:      s.DecayK,
		Settings: v1alpha1.RunSettings{
			Tolerance:       cfg.Tolerance,
			MaxIterations:   cfg.MaxIterations,
			InitPolicy:      string(cfg.InitPolicy),
			InitFraction:    cfg.InitFraction,
			UpdateRule:      string(cfg.UpdateRule),
			Minimizer:       string(cfg.Minimizer),
			BoundaryEpsilon: cfg.BoundaryEpsilon,
		},
	}
}
