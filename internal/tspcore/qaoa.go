// QAOA-inspired optimizer (§4.6): builds a time-biased probability matrix P
// each step, samples routes per a three-phase schedule (early/middle/late),
// and evolves gamma/beta parameter vectors with a gradient-free
// exploration-decaying perturbation.
//
// Per design note 4: only the time-focused circuit is ported. gamma/beta
// still evolve every step (perturbed with noise whose scale decays with the
// exploration factor) and are reported as gamma_avg/beta_avg in the log,
// but never bias the sampling matrix P — matching
// the unused, non-time-focused circuit being dropped from the source.
package tspcore

import (
	"math"
	"math/rand"
)

const (
	qaoaPDepth             = 4
	qaoaNumSamples         = 1200
	qaoaOptimizationSteps  = 120
	qaoaTwoOptMaxPasses    = 10
)

// QAOAParams is recorded verbatim in RouteResult.AlgorithmParams.
type QAOAParams struct {
	PDepth             int `json:"p_depth"`
	NumSamples         int `json:"num_samples"`
	OptimizationSteps  int `json:"optimization_steps"`
}

// RunQAOA runs the QAOA-inspired probabilistic sampler.
func RunQAOA(p *ProblemInstance, requestSeed int64, hasSeed bool, cancel <-chan struct{}) RouteResult {
	seed := ResolveSeed(requestSeed, hasSeed)
	rng := NewRNG(seed)

	if p.N() <= 2 {
		best := RouteOrder{0, 1}
		return RouteResult{
			RouteOrder:     idsOf(p, best),
			DistanceKM:     Distance(p, best),
			TimeMin:        Time(p, best),
			ObjectiveValue: ObjectiveQAOA(p, best),
			IterationsLog:  []IterationLogEntry{},
			Seed:           seed,
			AlgorithmParams: map[string]interface{}{
				"p_depth": qaoaPDepth, "num_samples": qaoaNumSamples, "optimization_steps": qaoaOptimizationSteps,
			},
		}
	}

	gamma := make([]float64, qaoaPDepth)
	beta := make([]float64, qaoaPDepth)
	for l := 0; l < qaoaPDepth; l++ {
		gamma[l] = 0.2 + rng.Float64()*0.6
		beta[l] = 0.1 + rng.Float64()*0.3
	}

	var best RouteOrder
	bestObj := math.Inf(1)
	log := []IterationLogEntry{}

	steps := qaoaOptimizationSteps
	effectiveSamples := qaoaNumSamples / 12
	if effectiveSamples > 100 {
		effectiveSamples = 100
	}

steps:
	for s := 0; s < steps; s++ {
		select {
		case <-cancel:
			break steps
		default:
		}

		prob := timeBiasedProbabilityMatrix(p)
		phase := qaoaPhase(s, steps)

		var stepBest RouteOrder
		stepBestObj := math.Inf(1)
		for sample := 0; sample < effectiveSamples; sample++ {
			route := qaoaSampleRoute(p, prob, phase, rng)
			obj := ObjectiveQAOA(p, route)
			if obj < stepBestObj {
				stepBestObj = obj
				stepBest = route
			}
		}

		if stepBestObj < bestObj {
			bestObj = stepBestObj
			best = stepBest
		}

		exploration := 1 - float64(s)/float64(steps)
		for l := 0; l < qaoaPDepth; l++ {
			gamma[l] = clip(gamma[l]+rng.NormFloat64()*(0.15*exploration), 0, math.Pi)
			beta[l] = clip(beta[l]+rng.NormFloat64()*(0.1*exploration), 0, math.Pi/2)
		}

		if s%12 == 0 {
			gAvg, bAvg := average(gamma), average(beta)
			log = append(log, IterationLogEntry{
				Iter: s, Objective: bestObj, GammaAvg: &gAvg, BetaAvg: &bAvg, Phase: phase,
			})
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
			"p_depth": qaoaPDepth, "num_samples": qaoaNumSamples, "optimization_steps": qaoaOptimizationSteps,
		},
	}
}

// qaoaPhase returns "early", "middle", or "late" per the §4.6 schedule.
func qaoaPhase(s, steps int) string {
	switch {
	case s < steps/3:
		return "early"
	case s < 2*steps/3:
		return "middle"
	default:
		return "late"
	}
}

// timeBiasedProbabilityMatrix starts from uniform 1/n, multiplies
// off-diagonals by 1/(1+T[i,j]), and row-normalizes.
func timeBiasedProbabilityMatrix(p *ProblemInstance) [][]float64 {
	n := p.N()
	prob := make([][]float64, n)
	for i := 0; i < n; i++ {
		prob[i] = make([]float64, n)
		var rowSum float64
		for j := 0; j < n; j++ {
			v := 1.0 / float64(n)
			if i != j {
				t, _ := p.T.At(i, j)
				v *= 1.0 / (1.0 + t)
			} else {
				v = 0
			}
			prob[i][j] = v
			rowSum += v
		}
		if rowSum > 0 {
			for j := 0; j < n; j++ {
				prob[i][j] /= rowSum
			}
		}
	}
	return prob
}

// qaoaSampleRoute samples one route according to phase: early samples
// purely from prob; middle flips a coin between prob-sampling and
// time-NN construction; late samples from prob then applies a bounded
// 2-opt pass on distance.
func qaoaSampleRoute(p *ProblemInstance, prob [][]float64, phase string, rng *rand.Rand) RouteOrder {
	switch phase {
	case "early":
		return sampleFromProbabilityMatrix(p, prob, rng)
	case "middle":
		if rng.Float64() < 0.5 {
			return sampleFromProbabilityMatrix(p, prob, rng)
		}
		return NearestNeighborTour(p, true)
	default: // late
		route := sampleFromProbabilityMatrix(p, prob, rng)
		return boundedTwoOpt(p, route, qaoaTwoOptMaxPasses)
	}
}

// sampleFromProbabilityMatrix walks deterministically from index 0,
// restricting P[current, unvisited] and renormalizing at each step; if the
// restricted row sums to zero, the next city is picked uniformly.
func sampleFromProbabilityMatrix(p *ProblemInstance, prob [][]float64, rng *rand.Rand) RouteOrder {
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
				total += prob[cur][j]
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
				cum += prob[cur][j]
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

// boundedTwoOpt applies at most maxPasses outer passes of first-improvement
// 2-opt on distance.
func boundedTwoOpt(p *ProblemInstance, order RouteOrder, maxPasses int) RouteOrder {
	n := len(order)
	cur := make(RouteOrder, n)
	copy(cur, order)

	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				candidate := twoOptReversed(cur, i, j)
				if Distance(p, candidate) < Distance(p, cur) {
					cur = candidate
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return cur
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func average(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
