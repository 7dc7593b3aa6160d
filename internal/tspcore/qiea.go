// QIEA optimizer (§4.5): a quantum-inspired evolutionary algorithm. Each
// individual owns a dense n×n matrix Q of transition affinities in [0,1];
// classical routes are sampled from Q (generation >=1) or built by one of
// four diversity-promoting constructors (generation 0), then the elite
// routes reinforce Q via a rotation update.
package tspcore

import (
	"math"
	"math/rand"
)

const (
	qieaPopulationSize  = 60
	qieaMaxGenerations  = 250
	qieaMutationRate    = 0.15
	qieaEliteCount      = 15
	qieaRotationStep    = 0.1
	qieaMutationSigma   = 0.05
)

// QIEAParams is recorded verbatim in RouteResult.AlgorithmParams.
type QIEAParams struct {
	PopulationSize int     `json:"population_size"`
	MaxGenerations int     `json:"max_generations"`
	MutationRate   float64 `json:"mutation_rate"`
}

// qieaIndividual pairs a quantum matrix Q with the classical route it
// materialized this generation and that route's objective value.
type qieaIndividual struct {
	q         [][]float64
	route     RouteOrder
	objective float64
}

// RunQIEA runs the quantum-inspired evolutionary search.
func RunQIEA(p *ProblemInstance, requestSeed int64, hasSeed bool, cancel <-chan struct{}) RouteResult {
	seed := ResolveSeed(requestSeed, hasSeed)
	rng := NewRNG(seed)
	n := p.N()

	if n <= 2 {
		best := RouteOrder{0, 1}
		return RouteResult{
			RouteOrder:     idsOf(p, best),
			DistanceKM:     Distance(p, best),
			TimeMin:        Time(p, best),
			ObjectiveValue: ObjectiveQIEA(p, best),
			IterationsLog:  []IterationLogEntry{},
			Seed:           seed,
			AlgorithmParams: map[string]interface{}{
				"population_size": qieaPopulationSize, "max_generations": qieaMaxGenerations, "mutation_rate": qieaMutationRate,
			},
		}
	}

	pop := make([]*qieaIndividual, qieaPopulationSize)
	for k := range pop {
		pop[k] = &qieaIndividual{q: randomQ(n, rng)}
	}

	methods := []func(*ProblemInstance, *rand.Rand) RouteOrder{
		constructRandom, constructTimeNN, constructDistanceNN, constructFarthestInsertion,
	}

	var best RouteOrder
	bestObj := math.Inf(1)
	log := []IterationLogEntry{}

generations:
	for gen := 0; gen < qieaMaxGenerations; gen++ {
		select {
		case <-cancel:
			break generations
		default:
		}

		for k, ind := range pop {
			if gen == 0 {
				ind.route = methods[k%4](p, rng)
			} else {
				ind.route = sampleWalk(p, ind.q, rng)
			}
			ind.objective = ObjectiveQIEA(p, ind.route)
			if ind.objective < bestObj {
				bestObj = ind.objective
				best = make(RouteOrder, len(ind.route))
				copy(best, ind.route)
			}
		}

		elites := selectElites(pop, qieaEliteCount)

		for k, ind := range pop {
			subset := eliteSubset(elites, k)
			for _, r := range subset {
				for i := 0; i < len(r)-1; i++ {
					a, b := r[i], r[i+1]
					if ind.q[a][b]+qieaRotationStep < 1.0 {
						ind.q[a][b] += qieaRotationStep
					} else {
						ind.q[a][b] = 1.0
					}
				}
			}
			if rng.Float64() < qieaMutationRate {
				mutateQ(ind.q, rng)
			}
		}

		if gen%25 == 0 {
			div := populationDiversity(pop)
			log = append(log, IterationLogEntry{Iter: gen, Objective: bestObj, PopulationDiversity: &div})
		}
	}

	return RouteResult{
		RouteOrder:     idsOf(p, best),
		DistanceKM:     Distance(p, best),
		TimeMin:        Time(p, best),
		ObjectiveValue: bestObj,
		IterationsLog:  log,
		Seed:           seed,
		AlgorithmParams: map[string]interface{}{
			"population_size": qieaPopulationSize, "max_generations": qieaMaxGenerations, "mutation_rate": qieaMutationRate,
		},
	}
}

func randomQ(n int, rng *rand.Rand) [][]float64 {
	q := make([][]float64, n)
	for i := range q {
		q[i] = make([]float64, n)
		for j := range q[i] {
			q[i][j] = rng.Float64()
		}
	}
	return q
}

func constructRandom(p *ProblemInstance, rng *rand.Rand) RouteOrder {
	return RandomTour(p.N(), rng)
}

func constructTimeNN(p *ProblemInstance, _ *rand.Rand) RouteOrder {
	return NearestNeighborTour(p, true)
}

func constructDistanceNN(p *ProblemInstance, _ *rand.Rand) RouteOrder {
	return NearestNeighborTour(p, false)
}

func constructFarthestInsertion(p *ProblemInstance, _ *rand.Rand) RouteOrder {
	return FarthestInsertionTour(p)
}

// sampleWalk performs a stochastic walk from index 0, sampling the next
// unvisited city at each step with probability proportional to Q[cur,·]
// restricted to unvisited cities and renormalized. If all restricted
// weights are zero, the next city is picked uniformly.
func sampleWalk(p *ProblemInstance, q [][]float64, rng *rand.Rand) RouteOrder {
	n := p.N()
	visited := make([]bool, n)
	order := make(RouteOrder, 0, n)
	cur := 0
	visited[0] = true
	order = append(order, 0)

	for len(order) < n {
		var total float64
		for j := 0; j < n; j++ {
			if !visited[j] {
				total += q[cur][j]
			}
		}

		var next int
		if total <= 0 {
			candidates := make([]int, 0, n)
			for j := 0; j < n; j++ {
				if !visited[j] {
					candidates = append(candidates, j)
				}
			}
			next = candidates[rng.Intn(len(candidates))]
		} else {
			r := rng.Float64() * total
			var cum float64
			next = -1
			for j := 0; j < n; j++ {
				if visited[j] {
					continue
				}
				cum += q[cur][j]
				if r <= cum {
					next = j
					break
				}
			}
			if next == -1 {
				for j := n - 1; j >= 0; j-- {
					if !visited[j] {
						next = j
						break
					}
				}
			}
		}

		visited[next] = true
		order = append(order, next)
		cur = next
	}
	return order
}

// selectElites returns the k lowest-objective individuals, sorted ascending.
func selectElites(pop []*qieaIndividual, k int) []*qieaIndividual {
	sorted := make([]*qieaIndividual, len(pop))
	copy(sorted, pop)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].objective < sorted[j-1].objective; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// eliteSubset picks, per individual k, which elites reinforce its Q this
// generation: elites[0:3] for k%3==0, elites[5:8] for k%3==1, every third
// elite for k%3==2.
func eliteSubset(elites []*qieaIndividual, k int) []RouteOrder {
	clampEnd := func(end int) int {
		if end > len(elites) {
			return len(elites)
		}
		return end
	}
	var chosen []*qieaIndividual
	switch k % 3 {
	case 0:
		chosen = elites[0:clampEnd(3)]
	case 1:
		if len(elites) > 5 {
			chosen = elites[5:clampEnd(8)]
		}
	case 2:
		for i := 0; i < len(elites); i += 3 {
			chosen = append(chosen, elites[i])
		}
	}
	routes := make([]RouteOrder, len(chosen))
	for i, e := range chosen {
		routes[i] = e.route
	}
	return routes
}

func mutateQ(q [][]float64, rng *rand.Rand) {
	n := len(q)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			noise := rng.NormFloat64() * qieaMutationSigma
			v := q[i][j] + noise
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			q[i][j] = v
		}
	}
}

// populationDiversity is the mean of mean(|Q_a - Q_b|) over all pairs.
func populationDiversity(pop []*qieaIndividual) float64 {
	if len(pop) < 2 {
		return 0
	}
	n := len(pop[0].q)
	var total float64
	pairs := 0
	for a := 0; a < len(pop); a++ {
		for b := a + 1; b < len(pop); b++ {
			var sum float64
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					d := pop[a].q[i][j] - pop[b].q[i][j]
					if d < 0 {
						d = -d
					}
					sum += d
				}
			}
			total += sum / float64(n*n)
			pairs++
		}
	}
	return total / float64(pairs)
}
