// README: Smoke and load runner for the carefinder API; runs the cases in cases.go and exits non-zero on failure.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls where the runner points and how hard it pushes.
type Config struct {
	BaseURL        string
	DSN            string
	RedisAddr      string
	MigrationPath  string
	ApplyMigration bool
	Timeout        time.Duration
	Concurrency    int
	Duration       time.Duration
	Lat            float64
	Lng            float64
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	results := NewRunner(cfg).RunAll(ctx)
	sum := Summarize(results)

	fmt.Println("\n== Summary ==")
	fmt.Println(sum)
	if !sum.OK() {
		os.Exit(1)
	}
}

func parseFlags(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.StringVar(&cfg.BaseURL, "base-url", envString("CAREFINDER_BENCH_BASE_URL", "http://localhost:8080"), "carefinder API base URL")
	fs.StringVar(&cfg.DSN, "dsn", os.Getenv("CAREFINDER_DB_DSN"), "Postgres DSN of the facility directory (empty skips DB checks)")
	fs.StringVar(&cfg.RedisAddr, "redis", os.Getenv("CAREFINDER_REDIS_ADDR"), "Redis address of the GEO index (empty skips Redis checks)")
	fs.StringVar(&cfg.MigrationPath, "migration", envString("CAREFINDER_BENCH_MIGRATION", "migrations/0001_facilities.sql"), "facilities migration SQL")
	fs.BoolVar(&cfg.ApplyMigration, "apply-migration", false, "apply the migration before checking tables")
	fs.DurationVar(&cfg.Timeout, "timeout", 60*time.Second, "total run timeout")
	fs.IntVar(&cfg.Concurrency, "concurrency", 20, "parallel clients for concurrency and load cases")
	fs.DurationVar(&cfg.Duration, "duration", 10*time.Second, "length of each load case")
	fs.Float64Var(&cfg.Lat, "lat", 25.0330, "query latitude")
	fs.Float64Var(&cfg.Lng, "lng", 121.5654, "query longitude")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Concurrency <= 0 {
		return Config{}, fmt.Errorf("concurrency must be positive, got %d", cfg.Concurrency)
	}
	if cfg.Duration <= 0 || cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("duration and timeout must be positive")
	}
	if cfg.Lat < -90 || cfg.Lat > 90 || cfg.Lng < -180 || cfg.Lng > 180 {
		return Config{}, fmt.Errorf("query position %g,%g out of range", cfg.Lat, cfg.Lng)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Summary tallies case outcomes. SKIP covers cases whose backing service is
// not configured and manual checks.
type Summary struct {
	Pass, Fail, Skip int
	Failed           []string
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Pass++
		case StatusSkip:
			s.Skip++
		default:
			s.Fail++
			s.Failed = append(s.Failed, r.Name)
		}
	}
	return s
}

func (s Summary) OK() bool { return s.Fail == 0 }

func (s Summary) String() string {
	line := "PASS=" + strconv.Itoa(s.Pass) + " FAIL=" + strconv.Itoa(s.Fail) + " SKIP=" + strconv.Itoa(s.Skip)
	if len(s.Failed) > 0 {
		line += "\nfailed: " + strings.Join(s.Failed, "; ")
	}
	return line
}
