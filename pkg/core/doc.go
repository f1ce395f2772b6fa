// Package core provides the domain model of the MEC offloading game.
//
// This package contains the immutable parameter record and the pure model functions
// each user's objective depends on:
//
//   - Params: per-user data volumes, CPU cycles, local energy, price sensitivity and
//     utility weights, plus the global transmission constants
//   - Cost: the price the MEC server charges a user for its offloaded share
//   - PoF: the probability that the server fails, driven by the aggregate offloaded load
//   - Energy: the expected energy a user spends, given the PoF and its own offload amount
//   - Utility / Objective: the scalar a user maximizes (resp. a solver minimizes)
//
// Example usage:
//
//	params, err := core.NewParams(core.ParamsSpec{
//	    Bn: []float64{1e6, 1e6},
//	    Dn: []float64{5e9, 5e9},
//	    En: []float64{1e-2, 1e-2},
//	    C:  []float64{0.5, 0.5},
//	    TransmRate:  1e6,
//	    TransmPower: 0.1,
//	})
//	if err != nil {
//	    return err
//	}
//
//	b := []float64{2e5, 4e5}
//	pof := params.PoF(b)
//	u := params.Utility(0, 3e5, b)
//
// Sign convention: Utility is "higher is better" and equals -(An*cost + Kn*energy).
// Objective is its negation and is what the solver package minimizes.
//
// The core package is designed to be:
//   - Immutable (constructors copy their inputs)
//   - Pure (no logging, no shared state)
//   - Independent of the search algorithm used on top of it
package core
