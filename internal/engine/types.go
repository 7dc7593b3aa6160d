// Package engine implements the dispatch/aggregation layer (§4.8): it
// validates requests, builds a ProblemInstance via a MatrixProvider,
// fans the requested optimizers out across goroutines, retrieves a
// polyline for each winning route, and assembles the aggregate response.
package engine

import (
	"time"

	"github.com/qroute/optimizer/internal/tspcore"
)

// Request is the parsed and validated body of POST /optimize.
type Request struct {
	Stops           []tspcore.Stop
	Depot           *tspcore.Depot
	Constraints     tspcore.Constraints
	RoutingProfile  string
	Algorithms      []string
	RandomSeed      *int64
	GoogleAPIKey    string
}

// Debug carries warnings/errors and sizing info surfaced to the caller.
type Debug struct {
	Warnings   []string `json:"warnings"`
	Errors     []string `json:"errors"`
	MatrixSize int      `json:"matrix_size"`
	TotalStops int      `json:"total_stops"`
}

// Response is the body of a successful POST /optimize call.
type Response struct {
	AlgorithmResults    map[string]tspcore.RouteResult `json:"algorithmResults"`
	DistanceMatrixSource string                        `json:"distanceMatrixSource"`
	Timestamp           string                         `json:"timestamp"`
	APIVersion          string                         `json:"api_version"`
	Debug               Debug                          `json:"debug"`
}

// nowFn is overridable in tests so response timestamps are deterministic.
var nowFn = time.Now
