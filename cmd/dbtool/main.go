// README: Directory maintenance tool; creates the Postgres schema and seeds Postgres and Redis from a JSON file.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"carefinder/internal/config"
	"carefinder/internal/infra"
	"carefinder/internal/logging"
	"carefinder/internal/modules/facility"
)

type options struct {
	initSchema bool
	seedFile   string
	targets    []string
	timeout    time.Duration
}

func main() {
	log := logging.New(zerolog.InfoLevel, true)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	var opts options
	var targets string
	flag.BoolVar(&opts.initSchema, "init-schema", false, "create the facilities table in Postgres")
	flag.StringVar(&opts.seedFile, "seed", "", "JSON seed file to load")
	flag.StringVar(&targets, "targets", "postgres,redis", "comma separated seed targets: postgres, redis")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall timeout")
	flag.Parse()
	opts.targets = splitTargets(targets)

	if !opts.initSchema && opts.seedFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if err := run(ctx, cfg, opts, log); err != nil {
		log.Fatal().Err(err).Msg("dbtool failed")
	}
}

func run(ctx context.Context, cfg config.Config, opts options, log zerolog.Logger) error {
	var seed []facility.Facility
	if opts.seedFile != "" {
		var err error
		if seed, err = facility.LoadSeedFile(opts.seedFile); err != nil {
			return err
		}
		log.Info().Str("file", opts.seedFile).Int("facilities", len(seed)).Msg("seed loaded")
	}

	if opts.initSchema || (seed != nil && hasTarget(opts.targets, config.SourcePostgres)) {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := facility.NewPostgresStore(pool)

		if opts.initSchema {
			if err := store.InitSchema(ctx); err != nil {
				return err
			}
			log.Info().Msg("postgres schema ready")
		}
		if seed != nil && hasTarget(opts.targets, config.SourcePostgres) {
			if err := store.Upsert(ctx, seed); err != nil {
				return err
			}
			log.Info().Int("facilities", len(seed)).Msg("postgres seeded")
		}
	}

	if seed != nil && hasTarget(opts.targets, config.SourceRedis) {
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer client.Close()
		if err := facility.NewRedisStore(client, cfg.Redis.GeoKey).Upsert(ctx, seed); err != nil {
			return err
		}
		log.Info().Int("facilities", len(seed)).Str("key", cfg.Redis.GeoKey).Msg("redis seeded")
	}
	return nil
}

func splitTargets(v string) []string {
	var out []string
	for _, t := range strings.Split(v, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func hasTarget(targets []string, name string) bool {
	for _, t := range targets {
		if t == name {
			return true
		}
	}
	return false
}
