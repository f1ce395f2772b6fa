// Package diagnostics explores where the game has interesting equilibria.
//
// Sweep walks a grid of user constants. At each grid point every user shares
// the same constants, and user 0 answers the others sitting at evenly spaced
// offload levels in [0, bn]. The point is reported when more than MinInterior
// of those answers are interior, i.e. the user neither stays local nor
// offloads everything.
//
// Curves samples one user's utility over [0, bn] at each offload level of the
// others, next to the best response found by the minimizer. It produces the
// data only; plotting is left to other tools.
package diagnostics
