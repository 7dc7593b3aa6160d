// Shared tour constructors used across the four optimizers (§4.7): random,
// nearest-neighbor over either matrix, and farthest-insertion.
package tspcore

import (
	"math"
	"math/rand"
)

// RandomTour returns the identity tour with indices [1..n) shuffled.
func RandomTour(n int, rng *rand.Rand) RouteOrder {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	shuffleTail(order, rng)
	return order
}

// NearestNeighborTour builds a tour by always stepping to the closest
// unvisited location according to T (useTime) or D, starting at index 0.
func NearestNeighborTour(p *ProblemInstance, useTime bool) RouteOrder {
	n := p.N()
	visited := make([]bool, n)
	order := make([]int, 0, n)
	cur := 0
	visited[0] = true
	order = append(order, 0)

	for len(order) < n {
		best := -1
		bestW := 0.0
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			var w float64
			if useTime {
				w, _ = p.T.At(cur, j)
			} else {
				w, _ = p.D.At(cur, j)
			}
			if best == -1 || w < bestW {
				best = j
				bestW = w
			}
		}
		visited[best] = true
		order = append(order, best)
		cur = best
	}
	return order
}

// FarthestInsertionTour builds a tour over D by: seeding with the pair
// (i,j) maximizing D[i,j], then repeatedly inserting the unvisited point
// maximizing its minimum distance to the current route, at the position
// minimizing the triangle-cost increase. No wrap-around is applied (open
// tour): the synthetic "next" after the last route position is absent, so
// insertion past the tail only pays the leading edge.
//
// Index 0 is forced to the route start regardless of which pair the seed
// step picks, so every constructor in this package produces tours
// compatible with the "starts at 0" RouteOrder contract.
func FarthestInsertionTour(p *ProblemInstance) RouteOrder {
	n := p.N()
	if n == 2 {
		return RouteOrder{0, 1}
	}

	bestI, bestJ := 0, 1
	bestD := -1.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d, _ := p.D.At(i, j)
			if d > bestD {
				bestD, bestI, bestJ = d, i, j
			}
		}
	}

	route := []int{0}
	visited := make([]bool, n)
	visited[0] = true
	if bestI != 0 {
		route = append(route, bestI)
		visited[bestI] = true
	}
	if bestJ != 0 && !visited[bestJ] {
		route = append(route, bestJ)
		visited[bestJ] = true
	}
	if len(route) == 1 {
		// Degenerate seed (both endpoints happened to be 0); fall back to
		// the next unvisited index to keep progressing.
		for k := 1; k < n; k++ {
			if !visited[k] {
				route = append(route, k)
				visited[k] = true
				break
			}
		}
	}

	for len(route) < n {
		// Pick the unvisited point maximizing its minimum distance to the
		// current route.
		farP, farScore := -1, -1.0
		for cand := 0; cand < n; cand++ {
			if visited[cand] {
				continue
			}
			minD := math.MaxFloat64
			for _, y := range route {
				d, _ := p.D.At(cand, y)
				if d < minD {
					minD = d
				}
			}
			if minD > farScore {
				farScore, farP = minD, cand
			}
		}

		// Insert farP at the position minimizing the triangle-cost increase.
		bestPos, bestIncrease := 1, math.MaxFloat64
		for pos := 1; pos <= len(route); pos++ {
			prev := route[pos-1]
			var increase float64
			if pos == len(route) {
				dPrevP, _ := p.D.At(prev, farP)
				increase = dPrevP
			} else {
				next := route[pos]
				dPrevP, _ := p.D.At(prev, farP)
				dPNext, _ := p.D.At(farP, next)
				dPrevNext, _ := p.D.At(prev, next)
				increase = dPrevP + dPNext - dPrevNext
			}
			if increase < bestIncrease {
				bestIncrease, bestPos = increase, pos
			}
		}

		route = append(route, 0)
		copy(route[bestPos+1:], route[bestPos:len(route)-1])
		route[bestPos] = farP
		visited[farP] = true
	}

	return route
}
