// README: Facility service resolves the origin, queries the directory and ranks the results.
package facility

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"carefinder/internal/types"
)

const (
	defaultRadiusKm      = 5.0
	defaultMaxRadiusKm   = 50.0
	defaultSourceTimeout = 10 * time.Second
)

// Locator resolves the reference position for a query.
type Locator interface {
	Resolve(ctx context.Context, explicit *types.Point) (types.Point, error)
}

type Config struct {
	DefaultRadiusKm float64
	MaxRadiusKm     float64
	SourceTimeout   time.Duration
}

type Service struct {
	source  Source
	locator Locator
	cfg     Config
	log     zerolog.Logger
}

func NewService(source Source, locator Locator, cfg Config, log zerolog.Logger) *Service {
	if cfg.DefaultRadiusKm <= 0 {
		cfg.DefaultRadiusKm = defaultRadiusKm
	}
	if cfg.MaxRadiusKm <= 0 {
		cfg.MaxRadiusKm = defaultMaxRadiusKm
	}
	if cfg.DefaultRadiusKm > cfg.MaxRadiusKm {
		cfg.DefaultRadiusKm = cfg.MaxRadiusKm
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = defaultSourceTimeout
	}
	return &Service{
		source:  source,
		locator: locator,
		cfg:     cfg,
		log:     log.With().Str("component", "facility").Logger(),
	}
}

type NearbyQuery struct {
	// Origin is the caller's position; nil asks the locator.
	Origin        *types.Point
	RadiusKm      float64
	EmergencyOnly bool
	// Limit caps the number of ranked results; zero means no cap.
	Limit int
}

type NearbyResult struct {
	Origin     types.Point `json:"origin"`
	RadiusKm   float64     `json:"radius_km"`
	Facilities []Ranked    `json:"facilities"`
}

// Nearby returns facilities around the caller, nearest first.
func (s *Service) Nearby(ctx context.Context, q NearbyQuery) (NearbyResult, error) {
	radius := q.RadiusKm
	if radius == 0 {
		radius = s.cfg.DefaultRadiusKm
	}
	if math.IsNaN(radius) || radius < 0 || radius > s.cfg.MaxRadiusKm {
		return NearbyResult{}, fmt.Errorf("%w: radius_km must be between 0 and %g", ErrBadRequest, s.cfg.MaxRadiusKm)
	}
	if q.Limit < 0 {
		return NearbyResult{}, fmt.Errorf("%w: limit must not be negative", ErrBadRequest)
	}

	origin, err := s.locator.Resolve(ctx, q.Origin)
	if err != nil {
		return NearbyResult{}, err
	}

	start := time.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	facilities, err := s.source.Nearby(fetchCtx, origin, radius)
	if err != nil {
		s.log.Warn().Err(err).Dur("dur", time.Since(start)).Msg("facility lookup failed")
		return NearbyResult{}, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	if q.EmergencyOnly {
		facilities = emergencyOnly(facilities)
	}

	ranked := Rank(origin, facilities)
	if q.Limit > 0 && len(ranked) > q.Limit {
		ranked = ranked[:q.Limit]
	}

	s.log.Debug().
		Float64("lat", origin.Lat).
		Float64("lng", origin.Lng).
		Float64("radius_km", radius).
		Int("fetched", len(facilities)).
		Int("returned", len(ranked)).
		Dur("dur", time.Since(start)).
		Msg("nearby facilities ranked")

	return NearbyResult{Origin: origin, RadiusKm: radius, Facilities: ranked}, nil
}

func emergencyOnly(in []Facility) []Facility {
	out := make([]Facility, 0, len(in))
	for _, f := range in {
		if f.Emergency {
			out = append(out, f)
		}
	}
	return out
}
