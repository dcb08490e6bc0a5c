// README: Synthetic directory that fabricates hospitals around the caller.
package facility

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"carefinder/internal/types"
)

// syntheticNamespace scopes the name-based UUIDs of generated facilities.
var syntheticNamespace = uuid.MustParse("6f1c2a4e-9d1b-4f0e-8c57-2b4a1e0d7c93")

type syntheticTemplate struct {
	name      string
	street    string
	phone     string
	emergency bool
	dLat      float64
	dLng      float64
}

var syntheticTemplates = []syntheticTemplate{
	{"City General Hospital", "100 Main Street", "+1-555-0100", true, 0.01, 0.01},
	{"St. Mary's Medical Center", "42 Church Road", "+1-555-0142", true, -0.008, 0.005},
	{"Riverside Community Clinic", "7 River Walk", "", false, 0.03, 0.025},
	{"Northside Urgent Care", "310 North Avenue", "+1-555-0310", false, 0.018, -0.012},
	{"Memorial Children's Hospital", "5 Memorial Plaza", "+1-555-0005", true, -0.021, -0.017},
}

// SyntheticSource is the default directory. It places a fixed set of
// facilities at small offsets from the query center. IDs depend only on
// the template, so the same facility keeps its identity as the caller moves.
type SyntheticSource struct{}

func NewSyntheticSource() *SyntheticSource {
	return &SyntheticSource{}
}

func (s *SyntheticSource) Nearby(ctx context.Context, center types.Point, _ float64) ([]Facility, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Facility, 0, len(syntheticTemplates))
	for i, t := range syntheticTemplates {
		out = append(out, Facility{
			ID:        types.ID(uuid.NewSHA1(syntheticNamespace, []byte("synthetic-"+strconv.Itoa(i))).String()),
			Name:      t.name,
			Address:   t.street,
			Phone:     t.phone,
			Emergency: t.emergency,
			Location:  clampPoint(types.Point{Lat: center.Lat + t.dLat, Lng: center.Lng + t.dLng}),
		})
	}
	return out, nil
}

// clampPoint keeps generated positions inside the valid coordinate ranges,
// wrapping longitude across the antimeridian.
func clampPoint(p types.Point) types.Point {
	if p.Lat > 90 {
		p.Lat = 90
	}
	if p.Lat < -90 {
		p.Lat = -90
	}
	for p.Lng > 180 {
		p.Lng -= 360
	}
	for p.Lng < -180 {
		p.Lng += 360
	}
	return p
}
