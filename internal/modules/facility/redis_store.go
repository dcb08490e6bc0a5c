// README: Facility directory backed by a Redis GEO index plus a hash of records.
package facility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"carefinder/internal/types"
)

const (
	DefaultGeoKey = "facilities:geo"
	metaKeySuffix = ":meta"
)

type RedisStore struct {
	redis  *redis.Client
	geoKey string
}

func NewRedisStore(client *redis.Client, geoKey string) *RedisStore {
	if geoKey == "" {
		geoKey = DefaultGeoKey
	}
	return &RedisStore{redis: client, geoKey: geoKey}
}

func (s *RedisStore) metaKey() string {
	return s.geoKey + metaKeySuffix
}

// Upsert indexes facilities by position and stores their records.
func (s *RedisStore) Upsert(ctx context.Context, facilities []Facility) error {
	if s.redis == nil {
		return errors.New("redis facility store: client is nil")
	}
	if len(facilities) == 0 {
		return nil
	}

	pipe := s.redis.TxPipeline()
	for _, f := range facilities {
		raw, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encode facility %s: %w", f.ID, err)
		}
		pipe.GeoAdd(ctx, s.geoKey, &redis.GeoLocation{
			Name:      string(f.ID),
			Longitude: f.Location.Lng,
			Latitude:  f.Location.Lat,
		})
		pipe.HSet(ctx, s.metaKey(), string(f.ID), raw)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert facilities: %w", err)
	}
	return nil
}

// Nearby returns facilities within radiusKm of center. Records missing from
// the meta hash fall back to the GEO index position.
func (s *RedisStore) Nearby(ctx context.Context, center types.Point, radiusKm float64) ([]Facility, error) {
	if s.redis == nil {
		return nil, errors.New("redis facility store: client is nil")
	}

	locs, err := s.redis.GeoRadius(ctx, s.geoKey, center.Lng, center.Lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo radius: %w", err)
	}
	if len(locs) == 0 {
		return []Facility{}, nil
	}

	ids := make([]string, len(locs))
	for i, l := range locs {
		ids[i] = l.Name
	}
	raws, err := s.redis.HMGet(ctx, s.metaKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load facility records: %w", err)
	}

	out := make([]Facility, 0, len(locs))
	for i, l := range locs {
		// The GEO index rounds positions; the stored record keeps them exact.
		f := Facility{ID: types.ID(l.Name), Name: l.Name, Location: types.Point{Lat: l.Latitude, Lng: l.Longitude}}
		if raw, ok := raws[i].(string); ok {
			if err := json.Unmarshal([]byte(raw), &f); err != nil {
				return nil, fmt.Errorf("decode facility %s: %w", l.Name, err)
			}
		}
		f.ID = types.ID(l.Name)
		out = append(out, f)
	}
	return out, nil
}
