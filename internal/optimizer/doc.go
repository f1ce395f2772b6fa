// Package optimizer runs the equilibrium loop of the offloading game.
//
// The loop is an explicit state machine over a strategy vector it owns:
//
//	Running ──sweep──▶ Running
//	   │                 │
//	   ├──stable────────▶ Converged
//	   ├──cap reached───▶ MaxIterationsReached
//	   └──error─────────▶ Failed
//
// A sweep asks every user, in index order, for its best response to the
// others (pkg/solver.BestResponse). With the default Gauss-Seidel rule the
// vector is updated in place, so later users already see the new strategies of
// earlier ones. With the Jacobi rule every user answers the same snapshot and
// the answers are computed concurrently.
//
// After each sweep the vector is compared with the one kept from the previous
// sweep. The kept vector starts as NaN, so the first sweep never converges.
//
// Example usage:
//
//	seeder, _ := initializer.NewInitializer(cfg.InitPolicy, cfg.InitFraction)
//	m, _ := solver.NewMinimizer(cfg.Minimizer, cfg.SolverOptions())
//	loop, err := optimizer.NewLoop(params, cfg, seeder, m)
//	if err != nil {
//	    return err
//	}
//	result, err := loop.Run(ctx)
//	record := result.Record("run-1", time.Now())
//
// Degenerate parameters are rejected by NewLoop. Hitting the sweep cap is not
// an error: it is reported as the MaxIterationsReached state.
package optimizer
