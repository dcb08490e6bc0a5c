// README: Location service resolves the reference position for a query.
package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"carefinder/internal/types"
)

const defaultLocateTimeout = 5 * time.Second

type Service struct {
	provider Provider
	timeout  time.Duration
	log      zerolog.Logger
}

// NewService wraps provider. A non-positive timeout selects the default.
func NewService(provider Provider, timeout time.Duration, log zerolog.Logger) *Service {
	if provider == nil {
		provider = Unavailable{}
	}
	if timeout <= 0 {
		timeout = defaultLocateTimeout
	}
	return &Service{
		provider: provider,
		timeout:  timeout,
		log:      log.With().Str("component", "location").Logger(),
	}
}

// Resolve returns explicit when the caller supplied a position, otherwise it
// asks the provider. The returned point is always validated.
func (s *Service) Resolve(ctx context.Context, explicit *types.Point) (types.Point, error) {
	if explicit != nil {
		if err := explicit.Validate(); err != nil {
			return types.Point{}, err
		}
		return *explicit, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, err := s.provider.Locate(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		s.log.Debug().Err(err).Msg("provider could not locate caller")
		return types.Point{}, err
	}
	if err := p.Validate(); err != nil {
		return types.Point{}, fmt.Errorf("provider returned bad position: %w", err)
	}
	return p, nil
}
