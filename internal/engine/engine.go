package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/qroute/optimizer/internal/apperr"
	"github.com/qroute/optimizer/internal/logging"
	"github.com/qroute/optimizer/internal/provider"
	"github.com/qroute/optimizer/internal/tspcore"
)

// Engine validates inputs, builds a ProblemInstance via a MatrixProvider,
// dispatches the requested optimizers concurrently, and assembles the
// aggregate response (§4.8).
type Engine struct {
	Provider provider.MatrixProvider
	Logger   *logging.Logger
}

// New builds an Engine.
func New(p provider.MatrixProvider, logger *logging.Logger) *Engine {
	return &Engine{Provider: p, Logger: logger}
}

// optimizerFn is the common shape shared by every RunXxx function in tspcore.
type optimizerFn func(*tspcore.ProblemInstance, int64, bool, <-chan struct{}) tspcore.RouteResult

var optimizerTable = map[string]optimizerFn{
	tspcore.AlgorithmClassical: tspcore.RunClassical,
	tspcore.AlgorithmSA:        tspcore.RunSA,
	tspcore.AlgorithmQIEA:      tspcore.RunQIEA,
	tspcore.AlgorithmQAOA:      tspcore.RunQAOA,
}

// Optimize runs the full engine pipeline for one request (§4.8 steps 1-7).
// Cancellation of ctx aborts in-flight provider calls and stops optimizer
// loops at their next iteration boundary; completed-but-unreturned partial
// results are discarded, per §5.
func (e *Engine) Optimize(ctx context.Context, req Request) (*Response, *apperr.AppError) {
	if err := validate(req); err != nil {
		return nil, err
	}

	algorithms := req.Algorithms
	if len(algorithms) == 0 {
		algorithms = tspcore.AllAlgorithms
	}
	profile := provider.Profile(req.RoutingProfile)
	if profile == "" {
		profile = provider.ProfileDriving
	}

	locations, points := e.resolveLocations(req)
	e.logInfo("optimize request received", "stops", len(req.Stops), "algorithms", algorithms, "profile", string(profile))

	matResult, err := e.Provider.BuildMatrices(ctx, points, profile)
	if err != nil {
		return nil, apperr.NewProviderError("failed to build distance/time matrices", err)
	}
	for _, w := range matResult.Warnings {
		e.logWarn(w)
	}

	instance, perr := tspcore.NewProblemInstance(locations, matResult.D, matResult.T, resolveRequestSeed(req))
	if perr != nil {
		return nil, apperr.NewValidationError(perr.Error())
	}

	warnings := append([]string{}, matResult.Warnings...)
	if matResult.Source == provider.SourceHaversineFallback {
		warnings = append(warnings, "distance matrix source: total provider outage, using haversine fallback for all pairs")
	}

	results, errStrings := e.runAlgorithms(ctx, instance, algorithms, req)

	for algo, res := range results {
		if res.Error != "" {
			errStrings = append(errStrings, fmt.Sprintf("%s: %s", algo, res.Error))
			e.logWarn(fmt.Sprintf("optimizer %s failed: %s", algo, res.Error))
			continue
		}
		e.logInfo("optimizer finished", "algorithm", algo, "objective_value", res.ObjectiveValue, "distance_km", res.DistanceKM)
		poly, _ := e.Provider.FullPolyline(ctx, points, routeIndices(locations, res.RouteOrder))
		res.Polyline = poly
		results[algo] = res
	}

	select {
	case <-ctx.Done():
		return nil, apperr.NewCancellationError()
	default:
	}

	return &Response{
		AlgorithmResults:     results,
		DistanceMatrixSource: matResult.Source,
		Timestamp:            nowFn().UTC().Format(time.RFC3339),
		APIVersion:           "v1",
		Debug: Debug{
			Warnings:   warnings,
			Errors:     errStrings,
			MatrixSize: instance.N(),
			TotalStops: len(req.Stops),
		},
	}, nil
}

func (e *Engine) logInfo(msg string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Info(msg, args...)
	}
}

func (e *Engine) logWarn(msg string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Warn(msg, args...)
	}
}

// runAlgorithms fans the requested optimizers out across goroutines with no
// shared mutable state, joined after all complete. A per-optimizer panic or
// error is captured and converted to a sentinel RouteResult rather than
// aborting the request (§4.8 step 5, §7.3).
func (e *Engine) runAlgorithms(ctx context.Context, instance *tspcore.ProblemInstance, algorithms []string, req Request) (map[string]tspcore.RouteResult, []string) {
	results := make(map[string]tspcore.RouteResult, len(algorithms))
	var mu sync.Mutex
	var errStrings []string

	cancelCh := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(cancelCh)
	}()

	g, _ := errgroup.WithContext(ctx)
	for _, algo := range algorithms {
		algo := algo
		fn, ok := optimizerTable[algo]
		if !ok {
			continue
		}
		g.Go(func() error {
			res := runOptimizerSafely(fn, instance, req.RandomSeed, cancelCh)
			mu.Lock()
			results[algo] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results, errStrings
}

// runOptimizerSafely recovers from any panic inside an optimizer and
// converts it to an OptimizerError sentinel result, per §7.3's invariant
// that one algorithm failing never prevents others from being reported.
func runOptimizerSafely(fn optimizerFn, instance *tspcore.ProblemInstance, seed *int64, cancel <-chan struct{}) (result tspcore.RouteResult) {
	defer func() {
		if r := recover(); r != nil {
			result = tspcore.FailedResult(0, fmt.Errorf("panic: %v", r))
		}
	}()

	if seed != nil {
		return fn(instance, *seed, true, cancel)
	}
	return fn(instance, 0, false, cancel)
}

// resolveLocations builds the ordered Location list (depot prepended at
// index 0 if supplied) and the parallel Point list for the provider.
func (e *Engine) resolveLocations(req Request) ([]tspcore.Location, []provider.Point) {
	var locations []tspcore.Location
	var points []provider.Point

	if req.Depot != nil {
		locations = append(locations, tspcore.Location{ID: "depot", Lat: req.Depot.Lat, Lng: req.Depot.Lng})
		points = append(points, provider.Point{Lat: req.Depot.Lat, Lng: req.Depot.Lng})
	}
	for _, s := range req.Stops {
		locations = append(locations, tspcore.Location{ID: s.ID, Lat: s.Lat, Lng: s.Lng})
		points = append(points, provider.Point{Lat: s.Lat, Lng: s.Lng})
	}
	return locations, points
}

// resolveRequestSeed returns the request seed if present, else 0 (the
// per-optimizer seed resolution happens independently inside each RunXxx
// call so every algorithm can draw its own seed when none was supplied).
func resolveRequestSeed(req Request) int64 {
	if req.RandomSeed != nil {
		return *req.RandomSeed
	}
	return 0
}

// routeIndices maps a RouteResult's id-based route order back to matrix
// indices, for the FullPolyline call.
func routeIndices(locations []tspcore.Location, routeIDs []string) []int {
	idToIdx := make(map[string]int, len(locations))
	for i, l := range locations {
		idToIdx[l.ID] = i
	}
	out := make([]int, 0, len(routeIDs))
	for _, id := range routeIDs {
		if idx, ok := idToIdx[id]; ok {
			out = append(out, idx)
		}
	}
	return out
}
