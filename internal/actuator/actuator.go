package actuator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/llm-d/mec-offload-game/api/v1alpha1"
	"github.com/llm-d/mec-offload-game/internal/logging"
	"github.com/llm-d/mec-offload-game/internal/metrics"
	"github.com/llm-d/mec-offload-game/internal/optimizer"
)

// Format is the encoding of written records.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Actuator emits finished runs.
type Actuator struct {
	collectors *metrics.Collectors
}

// NewActuator returns an actuator reporting on collectors. A nil collectors
// disables metric emission.
func NewActuator(collectors *metrics.Collectors) *Actuator {
	return &Actuator{collectors: collectors}
}

// Actuate records res in the metrics and logs a summary.
func (a *Actuator) Actuate(ctx context.Context, res optimizer.Result, elapsed time.Duration) {
	log := logging.FromContext(ctx)

	if a.collectors != nil {
		a.collectors.ObserveRun(metrics.RunObservation{
			State:    string(res.State),
			Sweeps:   res.Sweeps,
			PoF:      res.PoF,
			Kinds:    res.KindNames(),
			Duration: elapsed,
		})
	}

	switch res.State {
	case optimizer.Failed:
		log.Error(res.Err, "Equilibrium run failed",
			"sweeps", res.Sweeps,
			"evaluations", res.Evaluations)
	case optimizer.MaxIterationsReached:
		log.Info("Equilibrium run hit the sweep cap",
			"sweeps", res.Sweeps,
			"pof", res.PoF,
			"lastChange", lastChange(res))
	default:
		log.Info("Equilibrium run converged",
			"sweeps", res.Sweeps,
			"pof", res.PoF,
			"interior", res.Interior(),
			"elapsed", elapsed)
	}
	log.V(logging.DEBUG).Info("Equilibrium strategies",
		"strategies", res.Strategies,
		"kinds", res.KindNames(),
		"utilities", res.Utilities)
}

func lastChange(res optimizer.Result) float64 {
	if len(res.History) == 0 {
		return 0
	}
	return res.History[len(res.History)-1].MaxChange
}

// WriteRecord encodes run to w.
func WriteRecord(w io.Writer, run *v1alpha1.EquilibriumRun, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(run, "", "  ")
		data = append(data, '\n')
	case FormatYAML, "":
		data, err = yaml.Marshal(run)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", run.Name, err)
	}
	_, err = w.Write(data)
	return err
}

// ReadRecord decodes a record written by WriteRecord in either format.
func ReadRecord(data []byte) (*v1alpha1.EquilibriumRun, error) {
	run := &v1alpha1.EquilibriumRun{}
	if err := yaml.Unmarshal(data, run); err != nil {
		return nil, fmt.Errorf("decoding run record: %w", err)
	}
	if run.Kind != "" && run.Kind != v1alpha1.Kind {
		return nil, fmt.Errorf("unexpected kind %q", run.Kind)
	}
	return run, nil
}
