package tspcore

import (
	"errors"
	"math"

	"github.com/qroute/optimizer/internal/matrix"
)

// Sentinel errors. Validation failures use these rather than fmt.Errorf so
// callers can match with errors.Is.
var (
	// ErrTooFewLocations is returned when a ProblemInstance would have n<2.
	ErrTooFewLocations = errors.New("tspcore: at least 2 locations are required")

	// ErrShapeMismatch indicates D/T are not both n×n for n==len(locations).
	ErrShapeMismatch = errors.New("tspcore: matrix shape does not match location count")

	// ErrInvalidMatrix indicates D or T failed the non-negative/zero-diagonal/finite contract.
	ErrInvalidMatrix = errors.New("tspcore: invalid distance/time matrix")

	// ErrUnknownAlgorithm is returned when a requested algorithm name is not one of the four.
	ErrUnknownAlgorithm = errors.New("tspcore: unknown algorithm")

	// ErrInvalidTour signals a RouteOrder that is not a valid permutation of [0..n) starting at 0.
	ErrInvalidTour = errors.New("tspcore: invalid route order")
)

// Algorithm names, used both as request tokens and as iterations_log/result keys.
const (
	AlgorithmClassical = "classical"
	AlgorithmSA        = "simulated"
	AlgorithmQIEA      = "qiea"
	AlgorithmQAOA      = "qaoa"
)

// AllAlgorithms is the default algorithm set run when a request omits one.
var AllAlgorithms = []string{AlgorithmClassical, AlgorithmSA, AlgorithmQIEA, AlgorithmQAOA}

// TimeWindow is carried through from the request but not enforced by the core.
type TimeWindow struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Stop is a caller-supplied geographic point.
type Stop struct {
	ID                string      `json:"id"`
	Lat               float64     `json:"lat"`
	Lng               float64     `json:"lng"`
	ServiceTimeMinute float64     `json:"service_time_minutes,omitempty"`
	TimeWindow        *TimeWindow `json:"time_window,omitempty"`
}

// Depot is an optional anchor point prepended as location[0].
type Depot struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Constraints is informational in the core: it is carried on the engine
// Request but none of its fields, MaxTravelTime included, is copied into the
// response. Core never enforces any of these.
type Constraints struct {
	VehicleCapacity *float64 `json:"vehicle_capacity,omitempty"`
	MaxTravelTime   *float64 `json:"max_travel_time,omitempty"`
	FleetSize       int      `json:"fleet_size,omitempty"`
	TimeWindows     bool     `json:"time_windows,omitempty"`
}

// Location is a resolved point in a ProblemInstance: either a Stop or the
// synthetic depot (id=="depot").
type Location struct {
	ID  string
	Lat float64
	Lng float64
}

// ProblemInstance is the immutable input to every optimizer: an ordered
// list of locations (depot prepended at index 0 if supplied), the distance
// and time matrices in the same order, and the resolved seed.
//
// Built once per request by the Engine and handed out as a read-only
// reference; optimizers must never mutate D, T, or Locations.
type ProblemInstance struct {
	Locations []Location
	D         *matrix.Dense
	T         *matrix.Dense
	Seed      int64
}

// NewProblemInstance validates and constructs a ProblemInstance. D and T
// must be square with dimension len(locations); see matrix.Dense's
// ValidateSquareNonNegativeZeroDiag for the shared shape contract
// (asymmetric matrices are explicitly allowed).
func NewProblemInstance(locations []Location, d, t *matrix.Dense, seed int64) (*ProblemInstance, error) {
	n := len(locations)
	if n < 2 {
		return nil, ErrTooFewLocations
	}
	if d.N() != n || t.N() != n {
		return nil, ErrShapeMismatch
	}
	if err := d.ValidateSquareNonNegativeZeroDiag(); err != nil {
		return nil, ErrInvalidMatrix
	}
	if err := t.ValidateSquareNonNegativeZeroDiag(); err != nil {
		return nil, ErrInvalidMatrix
	}
	return &ProblemInstance{Locations: locations, D: d, T: t, Seed: seed}, nil
}

// N returns the number of locations in the instance.
func (p *ProblemInstance) N() int { return len(p.Locations) }

// RouteOrder is a permutation of indices [0..n) starting with 0: an open
// tour, no implicit return leg.
type RouteOrder []int

// ValidateTour checks that order is a permutation of [0..n) starting at 0.
func ValidateTour(order RouteOrder, n int) error {
	if len(order) != n || n == 0 || order[0] != 0 {
		return ErrInvalidTour
	}
	seen := make([]bool, n)
	for _, v := range order {
		if v < 0 || v >= n || seen[v] {
			return ErrInvalidTour
		}
		seen[v] = true
	}
	return nil
}

// IterationLogEntry is one row of an optimizer's iterations_log. Fields
// beyond Iter/Objective are algorithm-specific and left at their zero value
// (omitted on marshal) when not applicable to the producing algorithm.
type IterationLogEntry struct {
	Iter               int     `json:"iter"`
	Objective          float64 `json:"objective"`
	Best               *float64 `json:"best,omitempty"`
	Temperature        *float64 `json:"temperature,omitempty"`
	GammaAvg           *float64 `json:"gamma_avg,omitempty"`
	BetaAvg            *float64 `json:"beta_avg,omitempty"`
	PopulationDiversity *float64 `json:"population_diversity,omitempty"`
	Phase              string  `json:"phase,omitempty"`
}

// RouteResult is the output of one (ProblemInstance, optimizer) pair.
type RouteResult struct {
	RouteOrder     []string               `json:"route_order"`
	Polyline       string                 `json:"polyline"`
	DistanceKM     float64                `json:"distance_km"`
	TimeMin        float64                `json:"time_min"`
	ObjectiveValue float64                `json:"objective_value"`
	IterationsLog  []IterationLogEntry    `json:"iterations_log"`
	Seed           int64                  `json:"seed"`
	AlgorithmParams map[string]interface{} `json:"algorithm_params"`
	Error          string                 `json:"error,omitempty"`
}

// FailedResult builds the sentinel RouteResult for an optimizer that
// errored: empty route, +Inf objective, the error message attached.
func FailedResult(seed int64, err error) RouteResult {
	return RouteResult{
		RouteOrder:      []string{},
		Polyline:        "",
		DistanceKM:      0,
		TimeMin:         0,
		ObjectiveValue:  math.Inf(1),
		IterationsLog:   []IterationLogEntry{},
		Seed:            seed,
		AlgorithmParams: map[string]interface{}{},
		Error:           err.Error(),
	}
}
