package facility

import (
	"carefinder/internal/modules/location"
	"carefinder/internal/types"
)

// Rank annotates every facility with its distance from origin and returns
// them nearest first. The input slice is left untouched and the result has
// the same length. Equal distances keep input order; NaN distances go last.
func Rank(origin types.Point, facilities []Facility) []Ranked {
	out := make([]Ranked, len(facilities))
	for i, f := range facilities {
		out[i] = Ranked{
			Facility:   f,
			DistanceKm: location.DistanceKm(origin, f.Location),
		}
	}
	location.SortByDistance(out, func(r Ranked) float64 { return r.DistanceKm })
	return out
}
