package provider

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// pairResult is the cached outcome of a single origin/destination/profile lookup.
type pairResult struct {
	distanceKM float64
	timeMin    float64
	polyline   string
}

// pairCache is the process-wide, read-mostly cache keyed by
// (origin_latlng, destination_latlng, profile) with 6-decimal rounding, per
// §4.1. hashicorp/golang-lru is internally synchronized, so concurrent
// requests can share one instance safely; stale reads are acceptable since
// every cached entry is a pure function of its key.
type pairCache struct {
	lru *lru.Cache[string, pairResult]
}

// newPairCache builds a bounded LRU cache. capacity bounds memory use across
// the life of the process; it does not bound correctness (evicted entries
// are simply recomputed).
func newPairCache(capacity int) *pairCache {
	c, _ := lru.New[string, pairResult](capacity)
	return &pairCache{lru: c}
}

func pairCacheKey(origin, destination Point, profile Profile) string {
	return fmt.Sprintf("%.6f,%.6f-%.6f,%.6f-%s", origin.Lat, origin.Lng, destination.Lat, destination.Lng, profile)
}

func (c *pairCache) get(origin, destination Point, profile Profile) (pairResult, bool) {
	return c.lru.Get(pairCacheKey(origin, destination, profile))
}

func (c *pairCache) put(origin, destination Point, profile Profile, v pairResult) {
	c.lru.Add(pairCacheKey(origin, destination, profile), v)
}
