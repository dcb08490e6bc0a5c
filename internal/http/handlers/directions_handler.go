// README: Distance and directions handlers.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"carefinder/internal/maps"
	"carefinder/internal/modules/location"
	"carefinder/internal/types"
)

// TravelEstimator is satisfied by maps.RouteService.
type TravelEstimator interface {
	GetTravelEstimate(ctx context.Context, origin, destination types.Point) (maps.Estimate, error)
}

type DirectionsHandler struct {
	estimator TravelEstimator
	log       zerolog.Logger
}

// NewDirectionsHandler builds the handler; estimator may be nil, in which
// case directions responses carry only the link.
func NewDirectionsHandler(estimator TravelEstimator, log zerolog.Logger) *DirectionsHandler {
	return &DirectionsHandler{estimator: estimator, log: log}
}

type distanceResp struct {
	From       types.Point `json:"from"`
	To         types.Point `json:"to"`
	DistanceKm float64     `json:"distance_km"`
}

// Distance serves GET /api/distance.
func (h *DirectionsHandler) Distance(c *gin.Context) {
	from, to, err := parseEndpoints(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(c, http.StatusOK, distanceResp{From: from, To: to, DistanceKm: location.DistanceKm(from, to)})
}

type estimateResp struct {
	DurationSeconds int64  `json:"duration_seconds"`
	DurationText    string `json:"duration_text"`
	DistanceMeters  int    `json:"distance_meters"`
	DistanceText    string `json:"distance_text"`
}

type directionsResp struct {
	URL        string        `json:"url"`
	DistanceKm float64       `json:"distance_km"`
	Estimate   *estimateResp `json:"estimate,omitempty"`
}

// Directions serves GET /api/directions. The travel estimate is best effort.
func (h *DirectionsHandler) Directions(c *gin.Context) {
	from, to, err := parseEndpoints(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	resp := directionsResp{
		URL:        maps.DirectionsURL(from, to),
		DistanceKm: location.DistanceKm(from, to),
	}
	if h.estimator != nil {
		est, err := h.estimator.GetTravelEstimate(c.Request.Context(), from, to)
		if err != nil {
			h.log.Warn().Err(err).Str("from", from.String()).Str("to", to.String()).Msg("travel estimate unavailable")
		} else {
			resp.Estimate = &estimateResp{
				DurationSeconds: int64(est.Duration.Seconds()),
				DurationText:    est.Duration.String(),
				DistanceMeters:  est.DistanceMeters,
				DistanceText:    est.DistanceText,
			}
		}
	}
	writeJSON(c, http.StatusOK, resp)
}

func parseEndpoints(c *gin.Context) (types.Point, types.Point, error) {
	from, err := types.ParsePoint(c.Query("from"))
	if err != nil {
		return types.Point{}, types.Point{}, fmt.Errorf("from: %w", err)
	}
	to, err := types.ParsePoint(c.Query("to"))
	if err != nil {
		return types.Point{}, types.Point{}, fmt.Errorf("to: %w", err)
	}
	return from, to, nil
}
