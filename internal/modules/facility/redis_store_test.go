package facility

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carefinder/internal/types"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, ""), mr
}

func TestRedisStore_UpsertAndNearby(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	near := Facility{ID: "near", Name: "Near Hospital", Address: "1 A St", Phone: "+1-555-0001", Emergency: true, Location: types.Point{Lat: 0.01, Lng: 0.01}}
	mid := Facility{ID: "mid", Name: "Mid Clinic", Location: types.Point{Lat: 0.02, Lng: 0.02}}
	far := Facility{ID: "far", Name: "Far Hospital", Location: types.Point{Lat: 1, Lng: 1}}
	require.NoError(t, store.Upsert(ctx, []Facility{far, mid, near}))

	got, err := store.Nearby(ctx, types.Point{}, 5)
	require.NoError(t, err)

	require.Len(t, got, 2)
	ids := []types.ID{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []types.ID{"near", "mid"}, ids)

	for _, f := range got {
		if f.ID != "near" {
			continue
		}
		assert.Equal(t, "Near Hospital", f.Name)
		assert.Equal(t, "+1-555-0001", f.Phone)
		assert.True(t, f.Emergency)
		assert.InDelta(t, 0.01, f.Location.Lat, 1e-5)
		assert.InDelta(t, 0.01, f.Location.Lng, 1e-5)
	}
}

func TestRedisStore_EmptyIndex(t *testing.T) {
	store, _ := newRedisStore(t)
	got, err := store.Nearby(context.Background(), types.Point{Lat: 10, Lng: 10}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStore_MissingRecordFallsBackToID(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []Facility{{ID: "orphan", Name: "Orphan", Location: types.Point{Lat: 0.001, Lng: 0.001}}}))
	mr.HDel(DefaultGeoKey+metaKeySuffix, "orphan")

	got, err := store.Nearby(ctx, types.Point{}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.ID("orphan"), got[0].ID)
	assert.Equal(t, "orphan", got[0].Name)
	assert.InDelta(t, 0.001, got[0].Location.Lat, 1e-5)
	assert.InDelta(t, 0.001, got[0].Location.Lng, 1e-5)
}

func TestRedisStore_KeepsExactStoredPosition(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()
	nyc := types.Point{Lat: 40.7128, Lng: -74.0060}
	require.NoError(t, store.Upsert(ctx, []Facility{
		{ID: "here", Name: "Here Hospital", Location: nyc},
		{ID: "uptown", Name: "Uptown Hospital", Location: types.Point{Lat: 40.7580, Lng: -73.9855}},
	}))

	got, err := store.Nearby(ctx, nyc, 10)
	require.NoError(t, err)
	ranked := Rank(nyc, got)

	require.Len(t, ranked, 2)
	assert.Equal(t, types.ID("here"), ranked[0].ID)
	assert.Equal(t, nyc, ranked[0].Location)
	assert.Equal(t, 0.0, ranked[0].DistanceKm)
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()
	_, err := store.Nearby(context.Background(), types.Point{}, 1)
	assert.Error(t, err)
}
