package facility

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"carefinder/internal/types"
)

// SeedRecord is one entry of a directory seed file.
type SeedRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
	Emergency bool    `json:"emergency"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// LoadSeedFile reads a JSON array of SeedRecord and validates every entry.
func LoadSeedFile(path string) ([]Facility, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed facilities: read %q: %w", path, err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) ([]Facility, error) {
	var data []SeedRecord
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("seed facilities: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	out := make([]Facility, 0, len(data))
	for i, rec := range data {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return nil, fmt.Errorf("seed facilities: entry %d: id cannot be empty", i+1)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("seed facilities: entry %d: duplicate id %q", i+1, id)
		}
		seen[id] = struct{}{}

		name := strings.TrimSpace(rec.Name)
		if name == "" {
			return nil, fmt.Errorf("seed facilities: entry %d: name cannot be empty", i+1)
		}

		p := types.Point{Lat: rec.Lat, Lng: rec.Lng}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("seed facilities: entry %d: %w", i+1, err)
		}

		out = append(out, Facility{
			ID:        types.ID(id),
			Name:      name,
			Address:   strings.TrimSpace(rec.Address),
			Phone:     strings.TrimSpace(rec.Phone),
			Emergency: rec.Emergency,
			Location:  p,
		})
	}
	return out, nil
}
