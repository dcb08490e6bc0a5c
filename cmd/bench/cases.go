// README: Smoke test cases for the carefinder API; includes HTTP, DB, Redis, ordering and performance checks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

type rankedFacility struct {
	ID         string  `json:"id"`
	Emergency  bool    `json:"emergency"`
	DistanceKm float64 `json:"distance_km"`
}

type rankedBody struct {
	Facilities []rankedFacility `json:"facilities"`
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	here := fmt.Sprintf("lat=%g&lng=%g", r.cfg.Lat, r.cfg.Lng)
	nearbyURL := base + "/api/facilities/nearby?" + here

	return []TestCase{
		{
			Name:  "Env: Postgres connect",
			Focus: "facility directory reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name:  "Env: Redis connect",
			Focus: "GEO index reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name:  "Migration: apply (optional)",
			Focus: "apply migration SQL",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: StatusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name:  "Migration: tables exist",
			Focus: "tables from the migration file exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: StatusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: StatusPass}
			},
		},

		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, []int{200}),

		// Nearby search
		httpCaseMethod("Nearby: valid query", http.MethodGet, nearbyURL, nil, []int{200}),
		{
			Name:  "Nearby: ascending distance",
			Focus: "ranked list is non-decreasing",
			Run: func(ctx context.Context, r *Runner) Result {
				body, latency, err := r.getRanked(ctx, nearbyURL)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for i := 1; i < len(body.Facilities); i++ {
					if body.Facilities[i].DistanceKm < body.Facilities[i-1].DistanceKm {
						return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("out of order at %d", i)}
					}
				}
				return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("n=%d", len(body.Facilities))}
			},
		},
		{
			Name:  "Nearby: deterministic",
			Focus: "same query yields same order",
			Run: func(ctx context.Context, r *Runner) Result {
				a, _, err := r.getRanked(ctx, nearbyURL)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				b, latency, err := r.getRanked(ctx, nearbyURL)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if ids(a) != ids(b) {
					return Result{Status: StatusFail, Latency: latency, Note: ids(a) + " != " + ids(b)}
				}
				return Result{Status: StatusPass, Latency: latency}
			},
		},
		{
			Name:  "Nearby: emergency only",
			Focus: "filter keeps emergency facilities",
			Run: func(ctx context.Context, r *Runner) Result {
				body, latency, err := r.getRanked(ctx, nearbyURL+"&emergency_only=true")
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, f := range body.Facilities {
					if !f.Emergency {
						return Result{Status: StatusFail, Latency: latency, Note: "non-emergency facility " + f.ID}
					}
				}
				return Result{Status: StatusPass, Latency: latency}
			},
		},
		httpCaseMethod("Nearby: lat only -> 400", http.MethodGet, base+"/api/facilities/nearby?lat=25", nil, []int{400}),
		httpCaseMethod("Nearby: invalid coords -> 400", http.MethodGet, base+"/api/facilities/nearby?lat=123&lng=456", nil, []int{400}),
		httpCaseMethod("Nearby: radius over max -> 400", http.MethodGet, nearbyURL+"&radius_km=100000", nil, []int{400}),

		// Ranking
		{
			Name:  "Rank: offset scenario",
			Focus: "near, mid, far",
			Run: func(ctx context.Context, r *Runner) Result {
				payload := map[string]any{
					"origin": map[string]float64{"lat": 0, "lng": 0},
					"facilities": []map[string]any{
						{"id": "far", "name": "Far", "location": map[string]float64{"lat": 0.03, "lng": 0.025}},
						{"id": "mid", "name": "Mid", "location": map[string]float64{"lat": 0.01, "lng": 0.01}},
						{"id": "near", "name": "Near", "location": map[string]float64{"lat": -0.008, "lng": 0.005}},
					},
				}
				var body rankedBody
				start := time.Now()
				status, err := r.doJSON(ctx, http.MethodPost, base+"/api/facilities/rank", payload, &body)
				latency := time.Since(start)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
				}
				if got := ids(body); got != "near,mid,far" {
					return Result{Status: StatusFail, Latency: latency, Note: got}
				}
				return Result{Status: StatusPass, Latency: latency}
			},
		},
		httpCaseMethod("Rank: missing origin -> 400", http.MethodPost, base+"/api/facilities/rank", map[string]any{"facilities": []any{}}, []int{400}),

		// Distance and directions
		httpCaseMethod("Distance: valid", http.MethodGet, base+"/api/distance?from=0,0&to=0,1", nil, []int{200}),
		httpCaseMethod("Distance: malformed -> 400", http.MethodGet, base+"/api/distance?from=0,0&to=north", nil, []int{400}),
		httpCaseMethod("Directions: link", http.MethodGet, fmt.Sprintf("%s/api/directions?from=%g,%g&to=25.0408,121.5190", base, r.cfg.Lat, r.cfg.Lng), nil, []int{200}),

		manualCase("Error: directory down -> 502", "stop the configured directory and query nearby"),
		manualCase("Error: no location -> 422", "unset CAREFINDER_DEFAULT_LAT/LNG and query without lat/lng"),

		// Concurrency
		{
			Name:  "Concurrency: parallel nearby identical",
			Focus: "concurrent queries agree",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentNearby(ctx, r, nearbyURL)
			},
		},

		// Performance
		{
			Name:  "Perf: nearby throughput",
			Focus: "GET /api/facilities/nearby",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, http.MethodGet, nearbyURL, nil)
			},
		},
		{
			Name:  "Perf: distance throughput",
			Focus: "GET /api/distance",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, http.MethodGet, base+"/api/distance?from=0,0&to=1,1", nil)
			},
		},
	}
}

func (r *Runner) doJSON(ctx context.Context, method, url string, payload, out any) (int, error) {
	var reader io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
		return resp.StatusCode, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (r *Runner) getRanked(ctx context.Context, url string) (rankedBody, time.Duration, error) {
	var body rankedBody
	start := time.Now()
	status, err := r.doJSON(ctx, http.MethodGet, url, nil, &body)
	latency := time.Since(start)
	if err != nil {
		return body, latency, err
	}
	if status != http.StatusOK {
		return body, latency, fmt.Errorf("status=%d", status)
	}
	return body, latency, nil
}

func ids(b rankedBody) string {
	out := make([]string, len(b.Facilities))
	for i, f := range b.Facilities {
		out[i] = f.ID
	}
	return strings.Join(out, ",")
}

func httpCaseMethod(name, method, url string, body any, okStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			status, err := r.doJSON(ctx, method, url, body, nil)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			latency := time.Since(start)
			if contains(okStatuses, status) {
				return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
		},
	}
}

func manualCase(name, note string) TestCase {
	return TestCase{
		Name:  name,
		Focus: "Manual",
		Run: func(ctx context.Context, r *Runner) Result {
			return Result{Status: StatusSkip, Note: note}
		},
	}
}

func concurrentNearby(ctx context.Context, r *Runner, url string) Result {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		orders   = map[string]int{}
		failures int
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, _, err := r.getRanked(ctx, url)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				return
			}
			orders[ids(body)]++
		}()
	}
	wg.Wait()

	if failures > 0 {
		return Result{Status: StatusFail, Note: fmt.Sprintf("failures=%d", failures)}
	}
	if len(orders) != 1 {
		return Result{Status: StatusFail, Note: fmt.Sprintf("distinct orderings=%d", len(orders))}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("requests=%d", r.cfg.Concurrency)}
}

func perfLoad(ctx context.Context, r *Runner, method, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount, non2xx int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, err := r.doJSON(ctx, method, url, payload, nil)
				mu.Lock()
				switch {
				case err != nil:
					errCount++
				case status >= 300:
					non2xx++
					count++
				default:
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	note := fmt.Sprintf("rps=%.1f errors=%d non2xx=%d", rps, errCount, non2xx)
	if non2xx > 0 {
		return Result{Status: StatusFail, Note: note}
	}
	return Result{Status: StatusPass, Note: note}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	cleaned := strings.Join(filtered, "\n")
	parts := strings.Split(cleaned, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
