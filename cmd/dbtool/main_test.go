package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carefinder/internal/config"
	"carefinder/internal/modules/facility"
	"carefinder/internal/types"
)

func TestSplitTargets(t *testing.T) {
	assert.Equal(t, []string{"postgres", "redis"}, splitTargets(" Postgres, ,redis "))
	assert.Nil(t, splitTargets(""))
	assert.True(t, hasTarget([]string{"redis"}, "redis"))
	assert.False(t, hasTarget([]string{"redis"}, "postgres"))
}

func TestRun_SeedsRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	seed := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[
		{"id":"a","name":"Alpha","emergency":true,"lat":25.04,"lng":121.52},
		{"id":"b","name":"Beta","lat":25.05,"lng":121.53}
	]`), 0o600))

	var cfg config.Config
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.GeoKey = "test:geo"

	err := run(context.Background(), cfg, options{seedFile: seed, targets: []string{"redis"}}, zerolog.Nop())
	require.NoError(t, err)

	members, err := mr.ZMembers("test:geo")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, members)
}

func TestRun_BadSeedFile(t *testing.T) {
	err := run(context.Background(), config.Config{}, options{seedFile: filepath.Join(t.TempDir(), "missing.json")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestSeedFileInRepoIsValid(t *testing.T) {
	fs, err := facility.LoadSeedFile(filepath.Join("..", "..", "data", "seeds", "facilities.json"))
	require.NoError(t, err)
	require.NotEmpty(t, fs)

	ranked := facility.Rank(types.Point{Lat: 25.0330, Lng: 121.5654}, fs)
	assert.Equal(t, types.ID("tw-xinyi-clinic"), ranked[0].ID)
	assert.Equal(t, types.ID("tw-tmuh"), ranked[1].ID)
}
