// Simulated Annealing optimizer (§4.4): time-optimal nearest-neighbor
// construction, multiplicative cooling, swap/insert/reverse neighborhood.
package tspcore

import (
	"math"
	"math/rand"
)

const (
	saT0      = 2000.0
	saTf      = 1.0
	saAlpha   = 0.995
	saMaxIter = 5000
)

// SAParams is recorded verbatim in RouteResult.AlgorithmParams.
type SAParams struct {
	T0      float64 `json:"t0"`
	Tf      float64 `json:"tf"`
	Alpha   float64 `json:"alpha"`
	MaxIter int     `json:"max_iter"`
}

// RunSA runs simulated annealing over the hybrid SA objective.
func RunSA(p *ProblemInstance, requestSeed int64, hasSeed bool, cancel <-chan struct{}) RouteResult {
	seed := ResolveSeed(requestSeed, hasSeed)
	rng := NewRNG(seed)

	n := p.N()
	if n <= 2 {
		best := RouteOrder{0, 1}
		return RouteResult{
			RouteOrder:     idsOf(p, best),
			DistanceKM:     Distance(p, best),
			TimeMin:        Time(p, best),
			ObjectiveValue: ObjectiveSA(p, best),
			IterationsLog:  []IterationLogEntry{},
			Seed:           seed,
			AlgorithmParams: map[string]interface{}{
				"t0": saT0, "tf": saTf, "alpha": saAlpha, "max_iter": saMaxIter,
			},
		}
	}

	current := NearestNeighborTour(p, true)
	currentObj := ObjectiveSA(p, current)

	best := make(RouteOrder, len(current))
	copy(best, current)
	bestObj := currentObj

	log := []IterationLogEntry{}
	temp := saT0

	for iter := 0; iter < saMaxIter && temp >= saTf; iter++ {
		select {
		case <-cancel:
			goto done
		default:
		}

		candidate := saNeighbor(current, rng, n)
		candidateObj := ObjectiveSA(p, candidate)
		delta := candidateObj - currentObj

		if delta < 0 || rng.Float64() < math.Exp(-delta/temp) {
			current = candidate
			currentObj = candidateObj
			if currentObj < bestObj {
				bestObj = currentObj
				copy(best, current)
			}
		}

		if iter%100 == 0 {
			b := bestObj
			t := temp
			log = append(log, IterationLogEntry{
				Iter: iter, Objective: currentObj, Best: &b, Temperature: &t,
			})
		}

		temp *= saAlpha
	}
done:

	return RouteResult{
		RouteOrder:     idsOf(p, best),
		DistanceKM:     Distance(p, best),
		TimeMin:        Time(p, best),
		ObjectiveValue: bestObj,
		IterationsLog:  log,
		Seed:           seed,
		AlgorithmParams: map[string]interface{}{
			"t0": saT0, "tf": saTf, "alpha": saAlpha, "max_iter": saMaxIter,
		},
	}
}

// saNeighbor picks uniformly among swap/insert/reverse, never touching index 0.
func saNeighbor(order RouteOrder, rng *rand.Rand, n int) RouteOrder {
	out := make(RouteOrder, len(order))
	copy(out, order)
	if n <= 2 {
		return out
	}

	switch rng.Intn(3) {
	case 0: // swap
		i := 1 + rng.Intn(n-1)
		j := 1 + rng.Intn(n-1)
		out[i], out[j] = out[j], out[i]
	case 1: // insert
		i := 1 + rng.Intn(n-1)
		j := 1 + rng.Intn(n-1)
		out = insertAt(out, i, j)
	case 2: // reverse
		i := 1 + rng.Intn(n-1)
		j := 1 + rng.Intn(n-1)
		if i > j {
			i, j = j, i
		}
		for lo, hi := i, j; lo < hi; lo, hi = lo+1, hi-1 {
			out[lo], out[hi] = out[hi], out[lo]
		}
	}
	return out
}

// insertAt removes the city at position i and reinserts it at position j,
// rebuilding the slice explicitly rather than relying on aliasing reslice
// tricks.
func insertAt(order RouteOrder, i, j int) RouteOrder {
	city := order[i]
	without := make(RouteOrder, 0, len(order)-1)
	for k, v := range order {
		if k != i {
			without = append(without, v)
		}
	}
	if j > len(without) {
		j = len(without)
	}
	out := make(RouteOrder, 0, len(order))
	out = append(out, without[:j]...)
	out = append(out, city)
	out = append(out, without[j:]...)
	return out
}
