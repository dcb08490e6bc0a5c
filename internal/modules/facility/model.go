// README: Facility records, ranked results and the directory contract.
package facility

import (
	"context"
	"errors"

	"carefinder/internal/types"
)

var (
	ErrRetrieval  = errors.New("facility retrieval failed")
	ErrBadRequest = errors.New("bad request")
)

// Facility is a medical facility candidate as returned by a directory.
// It carries no distance; that depends on who is asking.
type Facility struct {
	ID        types.ID    `json:"id"`
	Name      string      `json:"name"`
	Address   string      `json:"address"`
	Phone     string      `json:"phone"`
	Emergency bool        `json:"emergency"`
	Location  types.Point `json:"location"`
}

// Ranked is a Facility annotated with its distance from the query origin.
type Ranked struct {
	Facility
	DistanceKm float64 `json:"distance_km"`
}

// Source retrieves facilities around center. Implementations may use
// radiusKm as a hint; results outside it are allowed.
type Source interface {
	Nearby(ctx context.Context, center types.Point, radiusKm float64) ([]Facility, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, center types.Point, radiusKm float64) ([]Facility, error)

func (f SourceFunc) Nearby(ctx context.Context, center types.Point, radiusKm float64) ([]Facility, error) {
	return f(ctx, center, radiusKm)
}
