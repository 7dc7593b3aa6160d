package tspcore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qroute/optimizer/internal/tspcore"
)

// Scenario A (spec §8): 3 stops, symmetric, seed=42. Classical must return
// ["A","B","C"] with distance=2, objective=2.
func TestClassical_ScenarioA(t *testing.T) {
	dist := [][]float64{{0, 1, 2}, {1, 0, 1}, {2, 1, 0}}
	instance := buildInstance(t, dist, dist, 42)

	res := tspcore.RunClassical(instance, 42, true, nil)
	require.Equal(t, []string{"A", "B", "C"}, res.RouteOrder)
	require.Equal(t, 2.0, res.DistanceKM)
	require.Equal(t, 2.0, res.ObjectiveValue)
}

// Scenario B (spec §8): 4 stops, depot prepended, seed=7. Nearest-neighbor
// initial tour is [depot, s2, s1, s3] (distance 12); 2-opt must not worsen
// it, so the final distance is <= 12.
func TestClassical_ScenarioB(t *testing.T) {
	dist := [][]float64{
		{0, 10, 5, 8},
		{10, 0, 3, 4},
		{5, 3, 0, 6},
		{8, 4, 6, 0},
	}
	instance := buildInstance(t, dist, dist, 7)
	instance.Locations[0].ID = "depot"
	instance.Locations[1].ID = "s1"
	instance.Locations[2].ID = "s2"
	instance.Locations[3].ID = "s3"

	res := tspcore.RunClassical(instance, 7, true, nil)
	require.LessOrEqual(t, res.DistanceKM, 12.0)
	require.Len(t, res.RouteOrder, 4)
}

// n=2 boundary (spec §8): every algorithm returns [loc0.id, loc1.id] with
// distance=D[0][1], time=T[0][1], and an empty iterations_log for Classical.
func TestClassical_NTwoBoundary(t *testing.T) {
	dist := [][]float64{{0, 7}, {7, 0}}
	instance := buildInstance(t, dist, dist, 1)

	res := tspcore.RunClassical(instance, 1, true, nil)
	require.Equal(t, []string{"A", "B"}, res.RouteOrder)
	require.Equal(t, 7.0, res.DistanceKM)
	require.Equal(t, 7.0, res.TimeMin)
	require.Empty(t, res.IterationsLog)
}

// 2-opt local optimality (spec §8 invariants): the returned tour admits no
// single reversal of order[i..=j] that strictly reduces distance.
func TestClassical_Is2OptLocallyOptimal(t *testing.T) {
	dist := [][]float64{
		{0, 2, 9, 10},
		{1, 0, 6, 4},
		{15, 7, 0, 8},
		{6, 3, 12, 0},
	}
	instance := buildInstance(t, dist, dist, 99)
	res := tspcore.RunClassical(instance, 99, true, nil)

	idToIdx := map[string]int{}
	for i, l := range instance.Locations {
		idToIdx[l.ID] = i
	}
	order := make([]int, len(res.RouteOrder))
	for i, id := range res.RouteOrder {
		order[i] = idToIdx[id]
	}

	n := len(order)
	base := tspcore.Distance(instance, order)
	for i := 1; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			reversed := make([]int, n)
			copy(reversed, order)
			for lo, hi := i, j; lo < hi; lo, hi = lo+1, hi-1 {
				reversed[lo], reversed[hi] = reversed[hi], reversed[lo]
			}
			require.GreaterOrEqual(t, tspcore.Distance(instance, reversed), base)
		}
	}
}

func TestClassical_Determinism(t *testing.T) {
	dist := [][]float64{
		{0, 4, 9, 21, 3},
		{5, 0, 6, 11, 8},
		{12, 4, 0, 2, 14},
		{7, 9, 5, 0, 1},
		{6, 13, 8, 2, 0},
	}
	instance := buildInstance(t, dist, dist, 5)

	r1 := tspcore.RunClassical(instance, 5, true, nil)
	r2 := tspcore.RunClassical(instance, 5, true, nil)
	require.Equal(t, r1.RouteOrder, r2.RouteOrder)
	require.Equal(t, r1.ObjectiveValue, r2.ObjectiveValue)
}
