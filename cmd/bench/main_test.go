package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("CAREFINDER_BENCH_BASE_URL", "")
	t.Setenv("CAREFINDER_DB_DSN", "")

	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Empty(t, cfg.DSN)
	assert.Equal(t, 20, cfg.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Duration)
	assert.Equal(t, 25.0330, cfg.Lat)
}

func TestParseFlags_Overrides(t *testing.T) {
	cfg, err := parseFlags([]string{"-base-url", "http://api:9090/", "-lat", "40.7128", "-lng", "-74.006", "-concurrency", "4"})
	require.NoError(t, err)
	assert.Equal(t, "http://api:9090", cfg.BaseURL)
	assert.Equal(t, 40.7128, cfg.Lat)
	assert.Equal(t, -74.006, cfg.Lng)
	assert.Equal(t, 4, cfg.Concurrency)
}

func TestParseFlags_Rejects(t *testing.T) {
	for _, args := range [][]string{
		{"-concurrency", "0"},
		{"-duration", "0s"},
		{"-lat", "91"},
		{"-unknown"},
	} {
		_, err := parseFlags(args)
		assert.Error(t, err, args)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Result{
		{Name: "a", Status: StatusPass},
		{Name: "b", Status: StatusSkip},
		{Name: "c", Status: StatusFail},
		{Name: "d", Status: StatusPass},
	})
	assert.Equal(t, 2, sum.Pass)
	assert.Equal(t, 1, sum.Skip)
	assert.Equal(t, 1, sum.Fail)
	assert.Equal(t, []string{"c"}, sum.Failed)
	assert.False(t, sum.OK())
	assert.Equal(t, "PASS=2 FAIL=1 SKIP=1\nfailed: c", sum.String())

	assert.True(t, Summarize([]Result{{Status: StatusSkip}}).OK())
}
