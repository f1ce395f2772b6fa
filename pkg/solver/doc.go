// Package solver implements the best-response search of the offloading game.
//
// The solver package contains the bounded scalar minimizers a user runs to find its
// best response to the strategies of all other users, and the classification of
// that response as interior or degenerate (offload nothing / offload everything).
//
// Key Components:
//
//   - Minimizer: capability interface, minimize(objective, lower, upper) → (x*, f*)
//   - Brent: bounded Brent search (golden section + parabolic interpolation)
//   - GoldenSection: plain golden-section search
//   - Grid: exhaustive sampling, used as a reference and by diagnostics
//   - BestResponse: one user's optimal offload amount, holding the others fixed
//
// Example usage:
//
//	m, err := solver.NewMinimizer(solver.BrentKind, solver.Options{})
//	if err != nil {
//	    return err
//	}
//
//	resp, err := solver.BestResponse(params, i, b, m, 1e-4)
//	if err != nil {
//	    log.Error(err, "best response failed", "user", i)
//	    return err
//	}
//	log.Info("best response", "user", i, "value", resp.Value, "kind", resp.Kind)
//
// The solver is designed to be:
//   - Derivative free: only objective values are used
//   - Deterministic: same inputs produce same outputs
//   - Swappable: the equilibrium loop only sees the Minimizer interface
package solver
