package facility

import (
	"context"
	"fmt"
	"math"
	"slices"

	"googlemaps.github.io/maps"

	"carefinder/internal/types"
)

// Google caps nearby-search radius at 50km.
const maxPlacesRadiusMeters = 50000

// PlacesSource looks up hospitals through the Google Places Nearby Search API.
type PlacesSource struct {
	client   *maps.Client
	language string
}

// NewPlacesSource creates a PlacesSource with the given API key. Extra client
// options are appended after the key.
func NewPlacesSource(apiKey string, opts ...maps.ClientOption) (*PlacesSource, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesSource{client: client, language: "en"}, nil
}

// Nearby returns one page of hospitals around center. Places does not report
// phone numbers in search results, and anything typed "hospital" is treated
// as offering emergency care.
func (s *PlacesSource) Nearby(ctx context.Context, center types.Point, radiusKm float64) ([]Facility, error) {
	radius := uint(math.Min(math.Max(radiusKm*1000, 1), maxPlacesRadiusMeters))

	r := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: center.Lat, Lng: center.Lng},
		Radius:   radius,
		Type:     maps.PlaceTypeHospital,
		Language: s.language,
	}

	resp, err := s.client.NearbySearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	results := make([]Facility, 0, len(resp.Results))
	for _, result := range resp.Results {
		if result.PlaceID == "" {
			continue
		}
		if result.BusinessStatus == "CLOSED_PERMANENTLY" {
			continue
		}

		address := result.Vicinity
		if address == "" {
			address = result.FormattedAddress
		}

		results = append(results, Facility{
			ID:        types.ID(result.PlaceID),
			Name:      result.Name,
			Address:   address,
			Emergency: slices.Contains(result.Types, string(maps.PlaceTypeHospital)),
			Location: types.Point{
				Lat: result.Geometry.Location.Lat,
				Lng: result.Geometry.Location.Lng,
			},
		})
	}

	return results, nil
}
