package engine

import (
	"fmt"

	"github.com/qroute/optimizer/internal/apperr"
	"github.com/qroute/optimizer/internal/provider"
	"github.com/qroute/optimizer/internal/tspcore"
)

// validate checks Request per §4.8 step 1: stops >= 2, coordinates in
// range, profile valid, algorithms a subset of the four known names.
func validate(req Request) *apperr.AppError {
	if len(req.Stops) < 2 {
		return apperr.NewValidationError("at least 2 stops are required")
	}

	seenIDs := make(map[string]bool, len(req.Stops))
	for _, s := range req.Stops {
		if s.ID == "" {
			return apperr.NewValidationError("every stop must have a non-empty id")
		}
		if seenIDs[s.ID] {
			return apperr.NewValidationError(fmt.Sprintf("duplicate stop id %q", s.ID))
		}
		seenIDs[s.ID] = true
		if err := validateCoord(s.Lat, s.Lng); err != nil {
			return err
		}
	}

	if req.Depot != nil {
		if err := validateCoord(req.Depot.Lat, req.Depot.Lng); err != nil {
			return err
		}
	}

	if req.RoutingProfile == "" {
		req.RoutingProfile = string(provider.ProfileDriving)
	}
	if !provider.ValidProfile(req.RoutingProfile) {
		return apperr.NewValidationError(fmt.Sprintf("unknown routing profile %q", req.RoutingProfile))
	}

	algos := req.Algorithms
	if len(algos) == 0 {
		algos = tspcore.AllAlgorithms
	}
	known := map[string]bool{}
	for _, a := range tspcore.AllAlgorithms {
		known[a] = true
	}
	for _, a := range algos {
		if !known[a] {
			return apperr.NewValidationError(fmt.Sprintf("unknown algorithm %q", a))
		}
	}

	if req.GoogleAPIKey == "" {
		return apperr.NewValidationError("google_api_key is required")
	}

	return nil
}

func validateCoord(lat, lng float64) *apperr.AppError {
	if lat < -90 || lat > 90 {
		return apperr.NewValidationError(fmt.Sprintf("latitude %f out of range [-90,90]", lat))
	}
	if lng < -180 || lng > 180 {
		return apperr.NewValidationError(fmt.Sprintf("longitude %f out of range [-180,180]", lng))
	}
	return nil
}
