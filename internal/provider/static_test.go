package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qroute/optimizer/internal/provider"
)

func TestStaticMatrixProvider_ReturnsCannedMatrices(t *testing.T) {
	sp := &provider.StaticMatrixProvider{
		D:        [][]float64{{0, 3}, {3, 0}},
		T:        [][]float64{{0, 5}, {5, 0}},
		Polyline: "abc123",
	}
	points := []provider.Point{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}

	res, err := sp.BuildMatrices(context.Background(), points, provider.ProfileDriving)
	require.NoError(t, err)
	require.Equal(t, provider.SourceGoogle, res.Source)
	require.Empty(t, res.Warnings)

	d, err := res.D.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 3.0, d)

	poly, err := sp.FullPolyline(context.Background(), points, []int{0, 1})
	require.NoError(t, err)
	require.Equal(t, "abc123", poly)
}

// Scenario D (spec §8): total provider outage. BuildMatrices never errors;
// every pair falls back to Haversine, the source is "haversine-fallback",
// and warnings are non-empty.
func TestStaticMatrixProvider_AlwaysFail_FallsBackToHaversine(t *testing.T) {
	sp := &provider.StaticMatrixProvider{AlwaysFail: true}
	points := []provider.Point{
		{Lat: 40.7128, Lng: -74.0060},
		{Lat: 34.0522, Lng: -118.2437},
		{Lat: 41.8781, Lng: -87.6298},
	}

	res, err := sp.BuildMatrices(context.Background(), points, provider.ProfileDriving)
	require.NoError(t, err)
	require.Equal(t, provider.SourceHaversineFallback, res.Source)
	require.NotEmpty(t, res.Warnings)

	d01, _ := res.D.At(0, 1)
	require.InDelta(t, provider.HaversineKM(points[0], points[1]), d01, 1e-9)
	t01, _ := res.T.At(0, 1)
	require.InDelta(t, provider.HaversineTimeMin(d01), t01, 1e-9)

	poly, err := sp.FullPolyline(context.Background(), points, []int{0, 1, 2})
	require.NoError(t, err)
	require.Empty(t, poly)
}
