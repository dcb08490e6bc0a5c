package facility

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"firebase.google.com/go/v4/db"

	"carefinder/internal/modules/location"
	"carefinder/internal/types"
)

const DefaultFirebasePath = "facilities"

// rtdbFacilityEntry mirrors a single facility stored in Firebase RTDB under
// the configured node, keyed by facility ID.
type rtdbFacilityEntry struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
	Emergency bool    `json:"emergency"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Active    *bool   `json:"active,omitempty"`
}

// FirebaseSource reads facilities from a Firebase Realtime Database node.
// RTDB has no geo queries, so the whole node is read and filtered by radius.
type FirebaseSource struct {
	get func(ctx context.Context, v interface{}) error
}

func NewFirebaseSource(client *db.Client, path string) *FirebaseSource {
	if path == "" {
		path = DefaultFirebasePath
	}
	ref := client.NewRef(path)
	return &FirebaseSource{get: ref.Get}
}

func (s *FirebaseSource) Nearby(ctx context.Context, center types.Point, radiusKm float64) ([]Facility, error) {
	var data map[string]rtdbFacilityEntry
	if err := s.get(ctx, &data); err != nil {
		return nil, fmt.Errorf("querying facilities: %w", err)
	}

	result := make([]Facility, 0, len(data))
	for id, entry := range data {
		if entry.Active != nil && !*entry.Active {
			continue
		}
		p := types.Point{Lat: entry.Lat, Lng: entry.Lng}
		if p.Validate() != nil {
			continue
		}
		if location.DistanceKm(center, p) > radiusKm {
			continue
		}
		result = append(result, Facility{
			ID:        types.ID(id),
			Name:      entry.Name,
			Address:   entry.Address,
			Phone:     entry.Phone,
			Emergency: entry.Emergency,
			Location:  p,
		})
	}

	// Map iteration is random; order by ID first so equal distances stay put.
	slices.SortFunc(result, func(a, b Facility) int { return cmp.Compare(a.ID, b.ID) })
	location.SortByDistance(result, func(f Facility) float64 { return location.DistanceKm(center, f.Location) })
	return result, nil
}
