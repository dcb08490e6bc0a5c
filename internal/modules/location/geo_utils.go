// README: Pure geographic helpers; haversine distance and distance ordering.
package location

import (
	"cmp"
	"math"
	"slices"

	"carefinder/internal/types"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometres between two
// points using the haversine formula. Inputs are not validated; NaN
// components propagate to the result.
func DistanceKm(from, to types.Point) float64 {
	dLat := degreesToRadians(to.Lat - from.Lat)
	dLng := degreesToRadians(to.Lng - from.Lng)

	rLat1 := degreesToRadians(from.Lat)
	rLat2 := degreesToRadians(to.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// CompareDistance orders distances ascending with NaN after every number.
// Two NaNs compare equal.
func CompareDistance(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(a, b)
}

// SortByDistance stably sorts any slice whose elements expose a distance via
// the accessor function. Equal distances keep their input order.
func SortByDistance[T any](items []T, dist func(T) float64) {
	slices.SortStableFunc(items, func(a, b T) int {
		return CompareDistance(dist(a), dist(b))
	})
}
