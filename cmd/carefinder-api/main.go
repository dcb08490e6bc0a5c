// README: Entry point; loads config, wires facility sources and services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"carefinder/internal/config"
	httptransport "carefinder/internal/http"
	"carefinder/internal/logging"
	"carefinder/internal/maps"
	"carefinder/internal/modules/facility"
	"carefinder/internal/modules/location"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logging.New(zerolog.InfoLevel, false)
		l.Fatal().Err(err).Msg("load config")
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		l := logging.New(zerolog.InfoLevel, false)
		l.Fatal().Err(err).Msg("parse log level")
	}
	log := logging.New(level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, cleanup, err := buildSource(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init facility sources")
	}
	defer cleanup()

	var fallback location.Provider
	if cfg.Search.DefaultLocation != nil {
		fallback = location.Static(*cfg.Search.DefaultLocation)
	}
	locationSvc := location.NewService(fallback, 0, log)

	facilitySvc := facility.NewService(source, locationSvc, facility.Config{
		DefaultRadiusKm: cfg.Search.DefaultRadiusKm,
		MaxRadiusKm:     cfg.Search.MaxRadiusKm,
		SourceTimeout:   cfg.Search.SourceTimeout,
	}, log)

	deps := httptransport.ServerDeps{Facility: facilitySvc, Log: log}
	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("init directions client")
		}
		deps.Estimator = routes
	}

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: httptransport.NewServer(deps).Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Strs("sources", cfg.Sources).Msg("carefinder api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}
	log.Info().Msg("stopped")
}
