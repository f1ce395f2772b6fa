package core

// Load returns the aggregate offloaded load sum_i dn[i]*b[i]/bn[i].
func (p *Params) Load(b []float64) float64 {
	var load float64
	for i := range p.bn {
		load += p.dn[i] * b[i] / p.bn[i]
	}
	return load
}

// PoF returns the probability of failure of the server at strategy vector b.
func (p *Params) PoF(b []float64) float64 {
	return PoF(p.Load(b), p.decayK)
}

// Costs returns the per-user cost vector at b.
func (p *Params) Costs(b []float64) []float64 {
	out := make([]float64, len(p.bn))
	for i := range out {
		out[i] = Cost(b[i], p.bn[i], p.dn[i], p.c[i])
	}
	return out
}

// Energies returns the per-user expected energy vector at b.
func (p *Params) Energies(b []float64) []float64 {
	pof := p.PoF(b)
	out := make([]float64, len(p.bn))
	for i := range out {
		out[i] = Energy(b[i], pof, p.bn[i], p.en[i], p.transmRate, p.transmPower)
	}
	return out
}

// Utilities returns every user's utility at b.
func (p *Params) Utilities(b []float64) []float64 {
	out := make([]float64, len(p.bn))
	for i := range out {
		out[i] = p.Utility(i, b[i], b)
	}
	return out
}

// Utility returns user i's utility when it offloads bi while every other user j
// keeps b[j]. The value of b[i] itself is ignored. Higher is better.
func (p *Params) Utility(i int, bi float64, b []float64) float64 {
	return -p.Objective(i, bi, b)
}

// Objective is the negated utility: the weighted sum of cost and expected energy
// that a best-responding user minimizes.
func (p *Params) Objective(i int, bi float64, b []float64) float64 {
	return p.objective(i, bi, p.othersLoad(i, b))
}

// UserObjective returns user i's objective as a function of its own strategy only,
// with the others' load taken from b at call time. b is not retained.
func (p *Params) UserObjective(i int, b []float64) func(float64) float64 {
	others := p.othersLoad(i, b)
	return func(bi float64) float64 {
		return p.objective(i, bi, others)
	}
}

func (p *Params) othersLoad(i int, b []float64) float64 {
	var load float64
	for j := range p.bn {
		if j == i {
			continue
		}
		load += p.dn[j] * b[j] / p.bn[j]
	}
	return load
}

func (p *Params) objective(i int, bi, othersLoad float64) float64 {
	pof := PoF(othersLoad+p.dn[i]*bi/p.bn[i], p.decayK)
	cost := Cost(bi, p.bn[i], p.dn[i], p.c[i])
	energy := Energy(bi, pof, p.bn[i], p.en[i], p.transmRate, p.transmPower)
	return p.an[i]*cost + p.kn[i]*energy
}
