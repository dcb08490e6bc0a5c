package facility

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carefinder/internal/types"
)

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facilities.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": " ny-1 ", "name": "Bellevue", "address": "462 1st Ave", "phone": "", "emergency": true, "lat": 40.7392, "lng": -73.9754},
		{"id": "ny-2", "name": "Mount Sinai", "lat": 40.7903, "lng": -73.9524}
	]`), 0o600))

	got, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Facility{
		ID:        "ny-1",
		Name:      "Bellevue",
		Address:   "462 1st Ave",
		Emergency: true,
		Location:  types.Point{Lat: 40.7392, Lng: -73.9754},
	}, got[0])
}

func TestParseSeed_Rejects(t *testing.T) {
	tests := map[string]string{
		"not json":     `{`,
		"missing id":   `[{"name": "x", "lat": 0, "lng": 0}]`,
		"missing name": `[{"id": "a", "lat": 0, "lng": 0}]`,
		"duplicate":    `[{"id": "a", "name": "x"}, {"id": "a", "name": "y"}]`,
		"bad lat":      `[{"id": "a", "name": "x", "lat": 91, "lng": 0}]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSeed([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
