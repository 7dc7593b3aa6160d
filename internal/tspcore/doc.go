// Package tspcore implements the optimization core: the problem instance,
// the route-cost/objective functions, and the four interchangeable search
// strategies (Classical, SimulatedAnnealing, QIEA, QAOA) that consume it.
//
// Design goals (carried from the upstream tsp package this core is grounded
// on):
//   - Determinism: every randomized component is driven by an explicit,
//     seeded *rand.Rand; nothing reads the process-global RNG.
//   - Strict sentinel errors for validation failures; no panics on
//     caller-supplied data.
//   - Open tours only: RouteOrder is a permutation of [0..n) starting at 0,
//     cost is summed over consecutive pairs, with no implicit return leg.
package tspcore
