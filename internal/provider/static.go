package provider

import (
	"context"
	"fmt"

	"github.com/qroute/optimizer/internal/matrix"
)

// StaticMatrixProvider is a deterministic test double: canned matrices and
// polylines, or total failure, configured by the test. Implements
// MatrixProvider so the Engine can be exercised without a real network
// dependency, per the design notes' provider-abstraction guidance.
type StaticMatrixProvider struct {
	D, T       [][]float64
	Polyline   string
	AlwaysFail bool
}

// BuildMatrices implements MatrixProvider. If AlwaysFail is set, every pair
// falls back to Haversine and Source becomes "haversine-fallback" with a
// warning per pair; BuildMatrices itself never errors, matching the real
// provider's policy of degrading rather than failing the whole request.
func (s *StaticMatrixProvider) BuildMatrices(ctx context.Context, points []Point, profile Profile) (MatrixResult, error) {
	n := len(points)
	d, _ := matrix.NewDense(n)
	t, _ := matrix.NewDense(n)

	if s.AlwaysFail {
		var warnings []string
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dist := HaversineKM(points[i], points[j])
				_ = d.Set(i, j, dist)
				_ = t.Set(i, j, HaversineTimeMin(dist))
				warnings = append(warnings, fmt.Sprintf("pair (%d,%d): static provider down, used haversine fallback", i, j))
			}
		}
		return MatrixResult{D: d, T: t, PolylineFragments: map[string]string{}, Source: SourceHaversineFallback, Warnings: warnings}, nil
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			_ = d.Set(i, j, s.D[i][j])
			_ = t.Set(i, j, s.T[i][j])
		}
	}
	return MatrixResult{D: d, T: t, PolylineFragments: map[string]string{}, Source: SourceGoogle, Warnings: nil}, nil
}

// FullPolyline implements MatrixProvider, returning the canned Polyline
// (empty string if AlwaysFail, matching "never fatal" error policy).
func (s *StaticMatrixProvider) FullPolyline(ctx context.Context, points []Point, order []int) (string, error) {
	if s.AlwaysFail {
		return "", nil
	}
	return s.Polyline, nil
}
