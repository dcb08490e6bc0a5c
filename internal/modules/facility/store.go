// README: Facility directory backed by PostgreSQL.
package facility

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carefinder/internal/types"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS facilities (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    address    TEXT NOT NULL DEFAULT '',
    phone      TEXT NOT NULL DEFAULT '',
    emergency  BOOLEAN NOT NULL DEFAULT FALSE,
    lat        DOUBLE PRECISION NOT NULL CHECK (lat BETWEEN -90 AND 90),
    lng        DOUBLE PRECISION NOT NULL CHECK (lng BETWEEN -180 AND 180)
);
CREATE INDEX IF NOT EXISTS idx_facilities_lat_lng ON facilities (lat, lng);
`

// kmPerDegreeLat is the mean length of one degree of latitude.
const kmPerDegreeLat = 111.195

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the facilities table if it does not exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	if s.db == nil {
		return errors.New("postgres facility store: db is nil")
	}
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init facility schema: %w", err)
	}
	return nil
}

// Upsert inserts or replaces facilities in a single transaction.
func (s *PostgresStore) Upsert(ctx context.Context, facilities []Facility) error {
	if s.db == nil {
		return errors.New("postgres facility store: db is nil")
	}
	if len(facilities) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, f := range facilities {
		batch.Queue(`
			INSERT INTO facilities (id, name, address, phone, emergency, lat, lng)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				address = EXCLUDED.address,
				phone = EXCLUDED.phone,
				emergency = EXCLUDED.emergency,
				lat = EXCLUDED.lat,
				lng = EXCLUDED.lng`,
			string(f.ID), f.Name, f.Address, f.Phone, f.Emergency, f.Location.Lat, f.Location.Lng,
		)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("upsert facilities: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert facilities: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("upsert facilities: commit: %w", err)
	}
	return nil
}

// Nearby returns facilities inside the bounding box that encloses the search
// circle. The box is a superset of the circle; ranking orders the corners last.
func (s *PostgresStore) Nearby(ctx context.Context, center types.Point, radiusKm float64) ([]Facility, error) {
	if s.db == nil {
		return nil, errors.New("postgres facility store: db is nil")
	}

	minLat, maxLat, minLng, maxLng := boundingBox(center, radiusKm)

	rows, err := s.db.Query(ctx, `
		SELECT id, name, address, phone, emergency, lat, lng
		FROM facilities
		WHERE lat BETWEEN $1 AND $2
		  AND lng BETWEEN $3 AND $4
		ORDER BY id`,
		minLat, maxLat, minLng, maxLng,
	)
	if err != nil {
		return nil, fmt.Errorf("query facilities: %w", err)
	}
	defer rows.Close()

	var out []Facility
	for rows.Next() {
		var f Facility
		var id string
		if err := rows.Scan(&id, &f.Name, &f.Address, &f.Phone, &f.Emergency, &f.Location.Lat, &f.Location.Lng); err != nil {
			return nil, fmt.Errorf("scan facility: %w", err)
		}
		f.ID = types.ID(id)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate facilities: %w", err)
	}
	return out, nil
}

// boundingBox approximates the lat/lng box around a circle. Near the poles or
// when the box would cross the antimeridian it widens to all longitudes.
func boundingBox(center types.Point, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	dLat := radiusKm / kmPerDegreeLat
	minLat = math.Max(center.Lat-dLat, -90)
	maxLat = math.Min(center.Lat+dLat, 90)

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < 1e-6 || minLat == -90 || maxLat == 90 {
		return minLat, maxLat, -180, 180
	}
	dLng := radiusKm / (kmPerDegreeLat * cosLat)
	minLng = center.Lng - dLng
	maxLng = center.Lng + dLng
	if minLng < -180 || maxLng > 180 {
		return minLat, maxLat, -180, 180
	}
	return minLat, maxLat, minLng, maxLng
}
