package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"carefinder/internal/config"
	"carefinder/internal/infra"
	"carefinder/internal/modules/facility"
)

// buildSource opens every configured directory and combines them. The
// returned cleanup closes the connections that were opened.
func buildSource(ctx context.Context, cfg config.Config, log zerolog.Logger) (facility.Source, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	named := make([]facility.NamedSource, 0, len(cfg.Sources))
	for _, name := range cfg.Sources {
		var src facility.Source
		switch name {
		case config.SourceSynthetic:
			src = facility.NewSyntheticSource()
		case config.SourcePlaces:
			places, err := facility.NewPlacesSource(cfg.Maps.APIKey)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			src = places
		case config.SourcePostgres:
			pool, err := infra.NewDB(ctx, cfg.DB.DSN)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			closers = append(closers, pool.Close)
			src = facility.NewPostgresStore(pool)
		case config.SourceRedis:
			client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			closers = append(closers, func() { _ = client.Close() })
			src = facility.NewRedisStore(client, cfg.Redis.GeoKey)
		case config.SourceFirebase:
			client, err := infra.NewFirebaseDB(ctx, cfg.Firebase.DatabaseURL, cfg.Firebase.CredentialsFile)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			src = facility.NewFirebaseSource(client, cfg.Firebase.Path)
		default:
			cleanup()
			return nil, nil, fmt.Errorf("unknown facility source %q", name)
		}
		log.Debug().Str("source", name).Msg("facility source ready")
		named = append(named, facility.NamedSource{Name: name, Source: src})
	}

	if len(named) == 1 {
		return named[0].Source, cleanup, nil
	}
	return facility.NewMultiSource(named...), cleanup, nil
}
