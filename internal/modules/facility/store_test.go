package facility

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carefinder/internal/modules/location"
	"carefinder/internal/types"
)

func TestBoundingBox_ContainsCircle(t *testing.T) {
	center := types.Point{Lat: 40.7128, Lng: -74.0060}
	minLat, maxLat, minLng, maxLng := boundingBox(center, 5)

	for _, p := range []types.Point{
		{Lat: minLat, Lng: center.Lng},
		{Lat: maxLat, Lng: center.Lng},
		{Lat: center.Lat, Lng: minLng},
		{Lat: center.Lat, Lng: maxLng},
	} {
		assert.InDelta(t, 5.0, location.DistanceKm(center, p), 0.05, "%v", p)
	}
}

func TestBoundingBox_WidensAtEdges(t *testing.T) {
	_, _, minLng, maxLng := boundingBox(types.Point{Lat: 10, Lng: 179.99}, 5)
	assert.Equal(t, -180.0, minLng)
	assert.Equal(t, 180.0, maxLng)

	minLat, _, minLng, maxLng := boundingBox(types.Point{Lat: -89.99, Lng: 0}, 5)
	assert.Equal(t, -90.0, minLat)
	assert.Equal(t, -180.0, minLng)
	assert.Equal(t, 180.0, maxLng)
}

func TestPostgresStore_NilDB(t *testing.T) {
	s := NewPostgresStore(nil)
	_, err := s.Nearby(context.Background(), types.Point{}, 1)
	assert.Error(t, err)
	assert.Error(t, s.InitSchema(context.Background()))
	assert.Error(t, s.Upsert(context.Background(), []Facility{fac("a", 0, 0)}))
}

func TestPostgresStore_Roundtrip(t *testing.T) {
	dsn := os.Getenv("CAREFINDER_TEST_DSN")
	if dsn == "" {
		t.Skip("CAREFINDER_TEST_DSN not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPostgresStore(pool)
	require.NoError(t, store.InitSchema(ctx))

	prefix := fmt.Sprintf("test-%d-", time.Now().UnixNano())
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM facilities WHERE id LIKE $1`, prefix+"%")
	})

	near := Facility{ID: types.ID(prefix + "near"), Name: "Near", Emergency: true, Location: types.Point{Lat: 0.01, Lng: 0.01}}
	far := Facility{ID: types.ID(prefix + "far"), Name: "Far", Location: types.Point{Lat: 1, Lng: 1}}
	require.NoError(t, store.Upsert(ctx, []Facility{near, far}))

	near.Phone = "+1-555-0001"
	require.NoError(t, store.Upsert(ctx, []Facility{near}))

	got, err := store.Nearby(ctx, types.Point{}, 5)
	require.NoError(t, err)

	var mine []Facility
	for _, f := range got {
		if len(f.ID) > len(prefix) && string(f.ID[:len(prefix)]) == prefix {
			mine = append(mine, f)
		}
	}
	require.Len(t, mine, 1)
	assert.Equal(t, near, mine[0])
}
