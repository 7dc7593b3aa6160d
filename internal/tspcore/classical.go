// Classical optimizer (§4.3): nearest-neighbor construction over D, then
// full-pass 2-opt with first-improvement acceptance within a pass.
package tspcore

const classicalMaxOuterPasses = 1000

// ClassicalParams is recorded verbatim in RouteResult.AlgorithmParams.
type ClassicalParams struct {
	MaxOuterPasses int `json:"max_outer_passes"`
}

// RunClassical runs the greedy+2-opt baseline over p.
func RunClassical(p *ProblemInstance, requestSeed int64, hasSeed bool, cancel <-chan struct{}) RouteResult {
	seed := ResolveSeed(requestSeed, hasSeed)

	n := p.N()
	if n <= 2 {
		order := RouteOrder{0, 1}
		return RouteResult{
			RouteOrder:      idsOf(p, order),
			DistanceKM:      Distance(p, order),
			TimeMin:         Time(p, order),
			ObjectiveValue:  ObjectiveClassical(p, order),
			IterationsLog:   []IterationLogEntry{},
			Seed:            seed,
			AlgorithmParams: map[string]interface{}{"max_outer_passes": classicalMaxOuterPasses},
		}
	}

	order := NearestNeighborTour(p, false)

	log := []IterationLogEntry{{Iter: 0, Objective: ObjectiveClassical(p, order)}}
	iteration := 0

outer:
	for pass := 0; pass < classicalMaxOuterPasses; pass++ {
		improvedThisPass := false
		for i := 1; i < n-1; i++ {
			select {
			case <-cancel:
				break outer
			default:
			}
			for j := i + 1; j < n; j++ {
				candidate := twoOptReversed(order, i, j)
				if Distance(p, candidate) < Distance(p, order) {
					order = candidate
					improvedThisPass = true
					iteration++
					if iteration%50 == 0 {
						log = append(log, IterationLogEntry{Iter: iteration, Objective: ObjectiveClassical(p, order)})
					}
				}
			}
		}
		if !improvedThisPass {
			break
		}
	}

	return RouteResult{
		RouteOrder:      idsOf(p, order),
		DistanceKM:      Distance(p, order),
		TimeMin:         Time(p, order),
		ObjectiveValue:  ObjectiveClassical(p, order),
		IterationsLog:   log,
		Seed:            seed,
		AlgorithmParams: map[string]interface{}{"max_outer_passes": classicalMaxOuterPasses},
	}
}

// twoOptReversed returns a copy of order with the segment [i..j] reversed.
func twoOptReversed(order RouteOrder, i, j int) RouteOrder {
	out := make(RouteOrder, len(order))
	copy(out, order)
	for lo, hi := i, j; lo < hi; lo, hi = lo+1, hi-1 {
		out[lo], out[hi] = out[hi], out[lo]
	}
	return out
}

// idsOf maps a RouteOrder of indices to the corresponding location ids.
func idsOf(p *ProblemInstance, order RouteOrder) []string {
	ids := make([]string, len(order))
	for i, idx := range order {
		ids[i] = p.Locations[idx].ID
	}
	return ids
}
