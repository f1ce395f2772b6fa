package core

import "math"

// DefaultDecayK is the steepness of the failure sigmoid, per offloaded CPU cycle.
const DefaultDecayK = 2.0e-11

// Cost returns the price the MEC server charges a user that offloads bi out of bni
// bits of a job needing dni cycles. Callers guarantee bni > 0.
func Cost(bi, bni, dni, ci float64) float64 {
	return ci * dni * bi / bni
}

// PoF returns the probability of failure of the MEC server for an aggregate
// offloaded load (in CPU cycles). A sigmoid re-centered through the origin is
// squared, so PoF(0) == 0 and PoF saturates at 1.
func PoF(load, k float64) float64 {
	dt := -1 + 2/(1+math.Exp(-k*load))
	pof := dt * dt
	// round-off can push dt a hair past +-1
	if pof > 1 {
		return 1
	}
	return pof
}

// Energy returns the expected energy a user spends when it offloads bi of its bni
// bits. With probability pof the server fails and the full local energy eni is
// spent; otherwise the user pays for the local remainder plus transmission.
func Energy(bi, pof, bni, eni, rate, power float64) float64 {
	transmission := power * (bi / rate)
	local := bni - bi
	return eni*pof + (eni*(local/bni)+transmission)*(1-pof)
}
