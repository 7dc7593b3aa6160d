// GoogleMatrixProvider talks to the Google Maps Distance Matrix and
// Directions APIs. It attempts a single batch Distance Matrix call first;
// on batch failure it falls back to per-pair Directions calls (cached), and
// for any pair that still cannot be answered it substitutes the Haversine
// estimate. Individual pair failures never fail the request. Pairs filled by
// Haversine in the per-pair path are recorded in the response's
// debug.warnings; elements that a successful batch response marks as failed
// are filled by Haversine without a warning.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	polyline "github.com/twpayne/go-polyline"

	"github.com/qroute/optimizer/internal/matrix"
)

const (
	googleBaseURL       = "https://maps.googleapis.com/maps/api"
	defaultCallTimeout  = 10 * time.Second
	defaultCacheEntries = 4096
)

// GoogleMatrixProvider implements MatrixProvider against the Google Maps API.
type GoogleMatrixProvider struct {
	APIKey     string
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	cache      *pairCache
}

// NewGoogleMatrixProvider builds a provider with the given API key and a
// bounded pairwise cache shared across requests handled by this process.
func NewGoogleMatrixProvider(apiKey string) *GoogleMatrixProvider {
	return &GoogleMatrixProvider{
		APIKey:     apiKey,
		HTTPClient: &http.Client{},
		BaseURL:    googleBaseURL,
		Timeout:    defaultCallTimeout,
		cache:      newPairCache(defaultCacheEntries),
	}
}

// BuildMatrices implements MatrixProvider.
func (g *GoogleMatrixProvider) BuildMatrices(ctx context.Context, points []Point, profile Profile) (MatrixResult, error) {
	n := len(points)
	d, _ := matrix.NewDense(n)
	t, _ := matrix.NewDense(n)
	fragments := map[string]string{}
	var warnings []string

	if batch, err := g.batchDistanceMatrix(ctx, points, profile); err == nil {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				_ = d.Set(i, j, batch.distanceKM[i][j])
				_ = t.Set(i, j, batch.timeMin[i][j])
			}
		}
		return MatrixResult{D: d, T: t, PolylineFragments: fragments, Source: SourceGoogle, Warnings: warnings}, nil
	}

	// Batch failed: per-pair lookups with cache + Haversine fallback.
	anySucceeded := false
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dist, dur, poly, ok := g.pairLookup(ctx, points[i], points[j], profile)
			if ok {
				anySucceeded = true
				fragments[fmt.Sprintf("%d-%d", i, j)] = poly
			} else {
				dist = HaversineKM(points[i], points[j])
				dur = HaversineTimeMin(dist)
				warnings = append(warnings, fmt.Sprintf("pair (%d,%d): upstream unavailable, used haversine fallback", i, j))
			}
			_ = d.Set(i, j, dist)
			_ = t.Set(i, j, dur)
		}
	}

	source := SourceGoogle
	if !anySucceeded {
		source = SourceHaversineFallback
	}
	return MatrixResult{D: d, T: t, PolylineFragments: fragments, Source: source, Warnings: warnings}, nil
}

// FullPolyline requests a single path over the final visit order with
// intermediate waypoints. Returns "" on any failure; never fatal.
//
// The MatrixProvider interface carries no profile here, so the cache-stitch
// fallback assumes ProfileDriving; a pair cached under driving-traffic alone
// simply won't be found and the method falls through to "".
func (g *GoogleMatrixProvider) FullPolyline(ctx context.Context, points []Point, order []int) (string, error) {
	if len(order) < 2 {
		return "", nil
	}

	q := url.Values{}
	origin := points[order[0]]
	dest := points[order[len(order)-1]]
	q.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	q.Set("destination", fmt.Sprintf("%f,%f", dest.Lat, dest.Lng))
	q.Set("mode", "driving")
	q.Set("key", g.APIKey)
	if len(order) > 2 {
		wp := ""
		for _, idx := range order[1 : len(order)-1] {
			if wp != "" {
				wp += "|"
			}
			wp += fmt.Sprintf("%f,%f", points[idx].Lat, points[idx].Lng)
		}
		q.Set("waypoints", wp)
	}

	var resp directionsResponse
	if err := g.getJSON(ctx, "/directions/json", q, &resp); err != nil {
		return g.stitchFromCache(points, order, ProfileDriving), nil
	}
	if resp.Status != "OK" || len(resp.Routes) == 0 {
		return g.stitchFromCache(points, order, ProfileDriving), nil
	}
	return resp.Routes[0].OverviewPolyline.Points, nil
}

type batchResult struct {
	distanceKM [][]float64
	timeMin    [][]float64
}

func (g *GoogleMatrixProvider) batchDistanceMatrix(ctx context.Context, points []Point, profile Profile) (batchResult, error) {
	coords := ""
	for i, p := range points {
		if i > 0 {
			coords += "|"
		}
		coords += fmt.Sprintf("%f,%f", p.Lat, p.Lng)
	}

	q := url.Values{}
	q.Set("origins", coords)
	q.Set("destinations", coords)
	q.Set("mode", "driving")
	q.Set("units", "metric")
	q.Set("key", g.APIKey)
	if profile == ProfileDrivingTraffic {
		q.Set("departure_time", "now")
		q.Set("traffic_model", "best_guess")
	}

	var resp distanceMatrixResponse
	if err := g.getJSONWithRetry(ctx, "/distancematrix/json", q, &resp); err != nil {
		return batchResult{}, err
	}
	if resp.Status != "OK" {
		return batchResult{}, fmt.Errorf("provider: distance matrix status %q", resp.Status)
	}

	n := len(points)
	dist := make([][]float64, n)
	dur := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		dur[i] = make([]float64, n)
	}
	for i, row := range resp.Rows {
		for j, el := range row.Elements {
			if el.Status == "OK" {
				dist[i][j] = float64(el.Distance.Value) / 1000.0
				dur[i][j] = float64(el.Duration.Value) / 60.0
			} else {
				dist[i][j] = HaversineKM(points[i], points[j])
				dur[i][j] = HaversineTimeMin(dist[i][j])
			}
		}
	}
	return batchResult{distanceKM: dist, timeMin: dur}, nil
}

// pairLookup returns (distanceKM, timeMin, polyline, ok) for one pair,
// consulting the cache first and falling back to a Directions call.
func (g *GoogleMatrixProvider) pairLookup(ctx context.Context, origin, dest Point, profile Profile) (float64, float64, string, bool) {
	if cached, ok := g.cache.get(origin, dest, profile); ok {
		return cached.distanceKM, cached.timeMin, cached.polyline, true
	}

	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	q.Set("destination", fmt.Sprintf("%f,%f", dest.Lat, dest.Lng))
	q.Set("mode", "driving")
	q.Set("key", g.APIKey)
	if profile == ProfileDrivingTraffic {
		q.Set("departure_time", "now")
		q.Set("traffic_model", "best_guess")
	}

	var resp directionsResponse
	if err := g.getJSONWithRetry(ctx, "/directions/json", q, &resp); err != nil {
		return 0, 0, "", false
	}
	if resp.Status != "OK" || len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return 0, 0, "", false
	}

	leg := resp.Routes[0].Legs[0]
	distKM := float64(leg.Distance.Value) / 1000.0
	timeMin := float64(leg.Duration.Value) / 60.0
	poly := resp.Routes[0].OverviewPolyline.Points

	g.cache.put(origin, dest, profile, pairResult{distanceKM: distKM, timeMin: timeMin, polyline: poly})
	return distKM, timeMin, poly, true
}

// getJSONWithRetry performs getJSON, retrying once on failure before the
// caller falls back to Haversine, per §5's timeout/retry policy.
func (g *GoogleMatrixProvider) getJSONWithRetry(ctx context.Context, path string, q url.Values, out interface{}) error {
	err := g.getJSON(ctx, path, q, out)
	if err == nil {
		return nil
	}
	return g.getJSON(ctx, path, q, out)
}

func (g *GoogleMatrixProvider) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	full := g.BaseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return err
	}
	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// stitchFromCache reconstructs a best-effort full-route polyline by
// decoding each consecutive pair's cached fragment and concatenating their
// coordinates before re-encoding as one path. Used only when the direct
// multi-waypoint Directions call fails; returns "" if any consecutive pair
// is missing from the cache (never fatal, per §4.1's error policy).
func (g *GoogleMatrixProvider) stitchFromCache(points []Point, order []int, profile Profile) string {
	var coords [][]float64
	for i := 0; i < len(order)-1; i++ {
		cached, ok := g.cache.get(points[order[i]], points[order[i+1]], profile)
		if !ok || cached.polyline == "" {
			return ""
		}
		leg, _, err := polyline.DecodeCoords([]byte(cached.polyline))
		if err != nil {
			return ""
		}
		coords = append(coords, leg...)
	}
	if len(coords) == 0 {
		return ""
	}
	return string(polyline.EncodeCoords(coords))
}

type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}
