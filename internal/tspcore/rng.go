// RNG utilities shared by the heuristic optimizers.
//
// Every optimizer carries its own seeded RNG; none reads the process-global
// source (math/rand's top-level functions). When the caller's request omits
// a seed, ResolveSeed draws one via DrawSeed and the optimizer records it on the
// result so the run can be replayed exactly by resubmitting that seed.
package tspcore

import (
	"math/rand"
	"time"
)

// NewRNG returns a deterministic *rand.Rand seeded with seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// DrawSeed produces a fresh seed from process entropy, for the case where
// the request carried no explicit random_seed. Each optimizer calls this at
// most once, then records the result so the run is reproducible.
func DrawSeed() int64 {
	return rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
}

// ResolveSeed returns requestSeed if the request supplied one (ok==true),
// otherwise draws and returns a fresh per-optimizer seed.
func ResolveSeed(requestSeed int64, ok bool) int64 {
	if ok {
		return requestSeed
	}
	return DrawSeed()
}

// shuffleTail performs an in-place Fisher-Yates shuffle of order[1:], used
// by the Random constructor. Index 0 is never moved (tours always start at
// the depot/first location).
func shuffleTail(order []int, rng *rand.Rand) {
	for i := len(order) - 1; i > 1; i-- {
		j := 1 + rng.Intn(i)
		order[i], order[j] = order[j], order[i]
	}
}
