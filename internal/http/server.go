// README: API gateway; wires handlers to module services and owns the gin engine.
package http

import (
	"github.com/rs/zerolog"

	"carefinder/internal/http/handlers"
	"carefinder/internal/modules/facility"
)

type ServerDeps struct {
	Facility *facility.Service
	// Estimator is optional; without it directions carry only the link.
	Estimator handlers.TravelEstimator
	Log       zerolog.Logger
}

type Server struct {
	facility   *handlers.FacilityHandler
	directions *handlers.DirectionsHandler
	log        zerolog.Logger
}

func NewServer(deps ServerDeps) *Server {
	log := deps.Log.With().Str("component", "http").Logger()
	return &Server{
		facility:   handlers.NewFacilityHandler(deps.Facility),
		directions: handlers.NewDirectionsHandler(deps.Estimator, log),
		log:        log,
	}
}
