package provider

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPairCacheKey_RoundsToSixDecimals(t *testing.T) {
	a := Point{Lat: 40.7128001, Lng: -74.0060001}
	b := Point{Lat: 40.7128002, Lng: -74.0060002}
	// Both points round to the same 6-decimal key, so they must collide.
	require.Equal(t, pairCacheKey(a, a, ProfileDriving), pairCacheKey(b, b, ProfileDriving))
}

func TestPairCacheKey_DiffersByProfile(t *testing.T) {
	a := Point{Lat: 1, Lng: 1}
	b := Point{Lat: 2, Lng: 2}
	require.NotEqual(t, pairCacheKey(a, b, ProfileDriving), pairCacheKey(a, b, ProfileDrivingTraffic))
}

func TestPairCache_PutThenGet(t *testing.T) {
	c := newPairCache(16)
	a := Point{Lat: 1, Lng: 1}
	b := Point{Lat: 2, Lng: 2}

	_, ok := c.get(a, b, ProfileDriving)
	require.False(t, ok)

	c.put(a, b, ProfileDriving, pairResult{distanceKM: 5, timeMin: 6, polyline: "xyz"})
	v, ok := c.get(a, b, ProfileDriving)
	require.True(t, ok)
	require.Equal(t, 5.0, v.distanceKM)
	require.Equal(t, "xyz", v.polyline)
}
