// Package provider defines the MatrixProvider capability (§4.1): given an
// ordered list of points and a routing profile, produce square distance and
// time matrices plus a full ordered-waypoint polyline. The Google Maps
// implementation lives in this package but is swappable for the
// deterministic StaticMatrixProvider test double, per the design notes'
// provider-abstraction guidance.
package provider

import (
	"context"

	"github.com/qroute/optimizer/internal/matrix"
)

// Profile is a routing profile accepted by build_matrices.
type Profile string

const (
	ProfileDriving        Profile = "driving"
	ProfileDrivingTraffic Profile = "driving-traffic"
)

// ValidProfile reports whether p is one of the two accepted profiles.
func ValidProfile(p string) bool {
	return p == string(ProfileDriving) || p == string(ProfileDrivingTraffic)
}

// Point is a bare coordinate, order-significant: Point[0] is the depot or
// first stop.
type Point struct {
	Lat float64
	Lng float64
}

// MatrixResult is the output of BuildMatrices.
type MatrixResult struct {
	D                *matrix.Dense
	T                *matrix.Dense
	PolylineFragments map[string]string // "i-j" -> encoded polyline for that pair
	Source           string            // "google-distance-matrix" | "haversine-fallback"
	Warnings         []string
}

// MatrixProvider is the external capability the Engine depends on.
// Implementations attempt a batch call first; on batch failure, fall back to per-pair
// lookups with a cache; for any pair the upstream cannot answer, substitute
// the Haversine estimate.
type MatrixProvider interface {
	BuildMatrices(ctx context.Context, points []Point, profile Profile) (MatrixResult, error)
	FullPolyline(ctx context.Context, points []Point, order []int) (string, error)
}

const (
	// SourceGoogle marks a matrix built from at least one successful upstream call.
	SourceGoogle = "google-distance-matrix"
	// SourceHaversineFallback marks a matrix built entirely from the great-circle fallback.
	SourceHaversineFallback = "haversine-fallback"
)
