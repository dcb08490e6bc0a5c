package maps

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"googlemaps.github.io/maps"

	"carefinder/internal/types"
)

var ErrNoRoute = errors.New("no route found")

// Estimate is a driving time and distance between two points.
type Estimate struct {
	Duration       time.Duration
	DistanceMeters int
	DistanceText   string
}

// RouteService handles interactions with the Google Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string, opts ...maps.ClientOption) (*RouteService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// GetTravelEstimate returns the driving duration and distance for the first
// leg of the best route from origin to destination.
func (s *RouteService) GetTravelEstimate(ctx context.Context, origin, destination types.Point) (Estimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin.String(),
		Destination: destination.String(),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return Estimate{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Estimate{}, ErrNoRoute
	}

	leg := routes[0].Legs[0]
	return Estimate{
		Duration:       leg.Duration,
		DistanceMeters: leg.Distance.Meters,
		DistanceText:   leg.Distance.HumanReadable,
	}, nil
}

// DirectionsURL builds a Google Maps universal link that opens turn-by-turn
// directions from origin to destination.
func DirectionsURL(origin, destination types.Point) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", origin.String())
	q.Set("destination", destination.String())
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
