// Package actuator hands a finished equilibrium run to the outside world.
//
// The optimizer computes; the actuator reports. For every run it:
//
//  1. Observes the run on the Prometheus collectors of internal/metrics:
//     terminal state, sweeps, probability of failure, response kinds, duration.
//  2. Logs a structured summary of the run.
//  3. Writes the EquilibriumRun record as YAML or JSON when asked to.
//
// Example usage:
//
//	collectors, _ := metrics.NewCollectors(prometheus.NewRegistry())
//	act := actuator.NewActuator(collectors)
//	act.Actuate(ctx, result, elapsed)
//	_ = actuator.WriteRecord(os.Stdout, result.Record(name, time.Now()), actuator.FormatYAML)
//
// Hitting the sweep cap is reported, not treated as a failure.
package actuator
