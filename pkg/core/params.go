/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package core

// ParamsSpec holds the raw inputs of one simulation run.
// Slices are indexed by user; An, Kn and Tn may be left empty.
type ParamsSpec struct {
	// Bn is the amount of data each user may offload.
	Bn []float64
	// Dn is the number of CPU cycles each user's job needs.
	Dn []float64
	// En is the energy each user spends processing its whole job locally.
	En []float64
	// C is the pricing factor applied to each user.
	C []float64
	// An weighs the monetary cost in each user's utility (default 1).
	An []float64
	// Kn weighs the expected energy in each user's utility (default 1).
	Kn []float64
	// Tn is the local processing time of each user's job. Informational only.
	Tn []float64

	// TransmRate is the fixed transmission rate (bits per second).
	TransmRate float64
	// TransmPower is the fixed transmission power.
	TransmPower float64
	// DecayK is the failure sigmoid steepness; zero selects DefaultDecayK.
	DecayK float64
}

// Params is the immutable parameter record shared by all components of a run.
type Params struct {
	bn, dn, en, c, an, kn, tn []float64

	transmRate  float64
	transmPower float64
	decayK      float64
}

// NewParams copies spec into a validated parameter record.
func NewParams(spec ParamsSpec) (*Params, error) {
	n := len(spec.Bn)
	p := &Params{
		bn:          clone(spec.Bn),
		dn:          clone(spec.Dn),
		en:          clone(spec.En),
		c:           clone(spec.C),
		an:          orConst(spec.An, n, 1),
		kn:          orConst(spec.Kn, n, 1),
		tn:          clone(spec.Tn),
		transmRate:  spec.TransmRate,
		transmPower: spec.TransmPower,
		decayK:      spec.DecayK,
	}
	if p.decayK == 0 {
		p.decayK = DefaultDecayK
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Spec returns a copy of the inputs the record was built from.
func (p *Params) Spec() ParamsSpec {
	return ParamsSpec{
		Bn:          clone(p.bn),
		Dn:          clone(p.dn),
		En:          clone(p.en),
		C:           clone(p.c),
		An:          clone(p.an),
		Kn:          clone(p.kn),
		Tn:          clone(p.tn),
		TransmRate:  p.transmRate,
		TransmPower: p.transmPower,
		DecayK:      p.decayK,
	}
}

// NumUsers returns N.
func (p *Params) NumUsers() int { return len(p.bn) }

// Capacity returns bn[i], the upper bound of user i's strategy.
func (p *Params) Capacity(i int) float64 { return p.bn[i] }

// Capacities returns a copy of bn.
func (p *Params) Capacities() []float64 { return clone(p.bn) }

// Cycles returns dn[i], the CPU cycles of user i's task.
func (p *Params) Cycles(i int) float64 { return p.dn[i] }

// LocalEnergy returns en[i], the energy of processing user i's task locally.
func (p *Params) LocalEnergy(i int) float64 { return p.en[i] }

// Price returns c[i], user i's price sensitivity.
func (p *Params) Price(i int) float64 { return p.c[i] }

// CostWeight returns an[i].
func (p *Params) CostWeight(i int) float64 { return p.an[i] }

// EnergyWeight returns kn[i].
func (p *Params) EnergyWeight(i int) float64 { return p.kn[i] }

// TransmRate returns the uplink rate in bits per second.
func (p *Params) TransmRate() float64 { return p.transmRate }

// TransmPower returns the transmission power in watts.
func (p *Params) TransmPower() float64 { return p.transmPower }

// DecayK returns the probability-of-failure steepness.
func (p *Params) DecayK() float64 { return p.decayK }

func clone(s []float64) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s))
	copy(out, s)
	return out
}

func orConst(s []float64, n int, v float64) []float64 {
	if len(s) > 0 {
		return clone(s)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
