// README: Location provider contract and its failure modes.
package location

import (
	"context"
	"errors"

	"carefinder/internal/types"
)

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrTimeout          = errors.New("location request timed out")
	ErrUnsupported      = errors.New("location not supported")
)

// Provider resolves the caller's current position once.
type Provider interface {
	Locate(ctx context.Context) (types.Point, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (types.Point, error)

func (f ProviderFunc) Locate(ctx context.Context) (types.Point, error) {
	return f(ctx)
}

// Static always reports the same position.
type Static types.Point

func (s Static) Locate(ctx context.Context) (types.Point, error) {
	if err := ctx.Err(); err != nil {
		return types.Point{}, err
	}
	return types.Point(s), nil
}

// Unavailable is used when no fallback position is configured.
type Unavailable struct{}

func (Unavailable) Locate(context.Context) (types.Point, error) {
	return types.Point{}, ErrUnsupported
}
