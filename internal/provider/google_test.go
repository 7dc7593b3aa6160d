package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qroute/optimizer/internal/provider"
)

func TestGoogleMatrixProvider_BatchSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/distancematrix/json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"rows": [
				{"elements": [{"status":"OK","distance":{"value":0},"duration":{"value":0}},
				              {"status":"OK","distance":{"value":5000},"duration":{"value":600}}]},
				{"elements": [{"status":"OK","distance":{"value":5200},"duration":{"value":610}},
				              {"status":"OK","distance":{"value":0},"duration":{"value":0}}]}
			]
		}`))
	}))
	defer ts.Close()

	g := provider.NewGoogleMatrixProvider("test-key")
	g.BaseURL = ts.URL
	points := []provider.Point{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}

	res, err := g.BuildMatrices(context.Background(), points, provider.ProfileDriving)
	require.NoError(t, err)
	require.Equal(t, provider.SourceGoogle, res.Source)
	d01, _ := res.D.At(0, 1)
	require.Equal(t, 5.0, d01)
	t01, _ := res.T.At(0, 1)
	require.Equal(t, 10.0, t01)
}

func TestGoogleMatrixProvider_BatchFailsFallsBackToPerPair(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/distancematrix/json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"UNKNOWN_ERROR","rows":[]}`))
		case "/directions/json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"status": "OK",
				"routes": [{
					"overview_polyline": {"points": "abc123"},
					"legs": [{"distance":{"value":3000},"duration":{"value":300}}]
				}]
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	g := provider.NewGoogleMatrixProvider("test-key")
	g.BaseURL = ts.URL
	points := []provider.Point{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}

	res, err := g.BuildMatrices(context.Background(), points, provider.ProfileDriving)
	require.NoError(t, err)
	require.Equal(t, provider.SourceGoogle, res.Source)
	d01, _ := res.D.At(0, 1)
	require.Equal(t, 3.0, d01)
	require.Empty(t, res.Warnings)
}

func TestGoogleMatrixProvider_TotalOutageFallsBackToHaversine(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	g := provider.NewGoogleMatrixProvider("test-key")
	g.BaseURL = ts.URL
	points := []provider.Point{
		{Lat: 40.7128, Lng: -74.0060},
		{Lat: 34.0522, Lng: -118.2437},
	}

	res, err := g.BuildMatrices(context.Background(), points, provider.ProfileDriving)
	require.NoError(t, err)
	require.Equal(t, provider.SourceHaversineFallback, res.Source)
	require.NotEmpty(t, res.Warnings)
	d01, _ := res.D.At(0, 1)
	require.InDelta(t, provider.HaversineKM(points[0], points[1]), d01, 1e-6)
}

func TestGoogleMatrixProvider_FullPolyline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"routes": [{"overview_polyline": {"points": "full-route-poly"}}]
		}`))
	}))
	defer ts.Close()

	g := provider.NewGoogleMatrixProvider("test-key")
	g.BaseURL = ts.URL
	points := []provider.Point{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 3, Lng: 3}}

	poly, err := g.FullPolyline(context.Background(), points, []int{0, 1, 2})
	require.NoError(t, err)
	require.Equal(t, "full-route-poly", poly)
}
