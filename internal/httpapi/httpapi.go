// Package httpapi wires the Engine to an HTTP surface (§6): POST /optimize,
// GET /health, GET /algorithms, GET /. This package is ambient plumbing
// outside the optimization core; it translates JSON <-> engine.Request and
// maps apperr.AppError.Status to the HTTP response.
package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/qroute/optimizer/internal/apperr"
	"github.com/qroute/optimizer/internal/engine"
	"github.com/qroute/optimizer/internal/logging"
	"github.com/qroute/optimizer/internal/tspcore"
)

// Server bundles the gin engine and its dependencies.
type Server struct {
	Router        *gin.Engine
	Engine        *engine.Engine
	Logger        *logging.Logger
	DefaultAPIKey string
}

// NewServer builds a Server with the standard route table.
func NewServer(eng *engine.Engine, logger *logging.Logger, defaultAPIKey string) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	s := &Server{Router: router, Engine: eng, Logger: logger, DefaultAPIKey: defaultAPIKey}
	router.GET("/", s.handleIndex)
	router.GET("/health", s.handleHealth)
	router.GET("/algorithms", s.handleAlgorithms)
	router.POST("/optimize", s.handleOptimize)
	return s
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "quantum-route-optimizer", "api_version": "v1"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAlgorithms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"algorithms": []gin.H{
			{"name": tspcore.AlgorithmClassical, "description": "greedy nearest-neighbor + first-improvement 2-opt"},
			{"name": tspcore.AlgorithmSA, "description": "simulated annealing over a distance/time hybrid objective",
				"params": tspcore.SAParams{T0: 2000.0, Tf: 1.0, Alpha: 0.995, MaxIter: 5000}},
			{"name": tspcore.AlgorithmQIEA, "description": "quantum-inspired evolutionary algorithm",
				"params": tspcore.QIEAParams{PopulationSize: 60, MaxGenerations: 250, MutationRate: 0.15}},
			{"name": tspcore.AlgorithmQAOA, "description": "QAOA-inspired probabilistic sampler",
				"params": tspcore.QAOAParams{PDepth: 4, NumSamples: 1200, OptimizationSteps: 120}},
		},
	})
}

// optimizeRequestBody mirrors §6's request shape.
type optimizeRequestBody struct {
	Stops          []tspcore.Stop       `json:"stops"`
	Depot          *tspcore.Depot       `json:"depot"`
	Constraints    *tspcore.Constraints `json:"constraints"`
	RoutingProfile string               `json:"routing_profile"`
	Algorithms     []string             `json:"algorithms"`
	RandomSeed     *int64               `json:"random_seed"`
	GoogleAPIKey   string               `json:"google_api_key"`
}

func (s *Server) handleOptimize(c *gin.Context) {
	var body optimizeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeAppError(c, apperr.NewValidationError(err.Error()))
		return
	}

	apiKey := body.GoogleAPIKey
	if apiKey == "" {
		apiKey = s.DefaultAPIKey
	}

	constraints := tspcore.Constraints{}
	if body.Constraints != nil {
		constraints = *body.Constraints
	}
	if constraints.FleetSize == 0 {
		constraints.FleetSize = 1
	}

	req := engine.Request{
		Stops:          body.Stops,
		Depot:          body.Depot,
		Constraints:    constraints,
		RoutingProfile: body.RoutingProfile,
		Algorithms:     body.Algorithms,
		RandomSeed:     body.RandomSeed,
		GoogleAPIKey:   apiKey,
	}

	resp, appErr := s.Engine.Optimize(c.Request.Context(), req)
	if appErr != nil {
		if appErr.InternalErr != nil && s.Logger != nil {
			s.Logger.Error(appErr.Message, "kind", string(appErr.Kind), "error", appErr.InternalErr)
		}
		writeAppError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeAppError(c *gin.Context, err *apperr.AppError) {
	c.JSON(err.Status, gin.H{"error": err.Message, "kind": err.Kind})
}
