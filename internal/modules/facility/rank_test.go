package facility

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carefinder/internal/types"
)

func fac(id string, lat, lng float64) Facility {
	return Facility{
		ID:       types.ID(id),
		Name:     "Hospital " + id,
		Address:  id + " Main St",
		Location: types.Point{Lat: lat, Lng: lng},
	}
}

func ids(rs []Ranked) []types.ID {
	out := make([]types.ID, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestRank_OffsetsFromOrigin(t *testing.T) {
	in := []Facility{
		fac("far", 0.03, 0.025),
		fac("mid", 0.01, 0.01),
		fac("near", -0.008, 0.005),
	}

	got := Rank(types.Point{}, in)

	require.Len(t, got, 3)
	assert.Equal(t, []types.ID{"near", "mid", "far"}, ids(got))
	assert.InDelta(t, 1.049, got[0].DistanceKm, 0.01)
	assert.InDelta(t, 1.572, got[1].DistanceKm, 0.01)
	assert.InDelta(t, 4.341, got[2].DistanceKm, 0.01)
}

func TestRank_EquatorDegree(t *testing.T) {
	got := Rank(types.Point{}, []Facility{fac("a", 0, 1)})
	require.Len(t, got, 1)
	assert.InDelta(t, 111.19, got[0].DistanceKm, 0.5)
}

func TestRank_SamePositionIsZero(t *testing.T) {
	ny := types.Point{Lat: 40.7128, Lng: -74.0060}
	got := Rank(ny, []Facility{fac("ny", ny.Lat, ny.Lng)})
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].DistanceKm)
}

func TestRank_Empty(t *testing.T) {
	got := Rank(types.Point{}, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []Facility{fac("b", 1, 1), fac("a", 0.1, 0.1)}
	orig := append([]Facility(nil), in...)

	_ = Rank(types.Point{}, in)

	assert.Equal(t, orig, in)
}

func TestRank_PreservesDescriptiveAttributes(t *testing.T) {
	f := Facility{
		ID:        "st-mary",
		Name:      "St. Mary's",
		Address:   "1 Hill Rd",
		Phone:     "+1 555 0100",
		Emergency: true,
		Location:  types.Point{Lat: 0.02, Lng: 0.02},
	}
	got := Rank(types.Point{}, []Facility{f})
	require.Len(t, got, 1)
	assert.Equal(t, f, got[0].Facility)
}

func TestRank_TiesAreStable(t *testing.T) {
	in := []Facility{
		fac("east", 0, 0.01),
		fac("north", 0.01, 0),
		fac("west", 0, -0.01),
	}
	got := Rank(types.Point{}, in)
	assert.Equal(t, []types.ID{"east", "north", "west"}, ids(got))
}

func TestRank_NaNLast(t *testing.T) {
	in := []Facility{
		fac("broken", math.NaN(), 0),
		fac("b", 0.02, 0),
		fac("a", 0.01, 0),
	}
	got := Rank(types.Point{}, in)
	assert.Equal(t, []types.ID{"a", "b", "broken"}, ids(got))
	assert.True(t, math.IsNaN(got[2].DistanceKm))
}

func TestRank_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 50; round++ {
		origin := types.Point{Lat: rng.Float64()*160 - 80, Lng: rng.Float64()*340 - 170}
		n := rng.IntN(40)
		in := make([]Facility, n)
		for i := range in {
			in[i] = fac(fmt.Sprintf("f%d-%d", round, i),
				origin.Lat+rng.Float64()*0.2-0.1,
				origin.Lng+rng.Float64()*0.2-0.1)
		}

		got := Rank(origin, in)

		require.Len(t, got, n)
		want := map[types.ID]struct{}{}
		for _, f := range in {
			want[f.ID] = struct{}{}
		}
		seen := map[types.ID]struct{}{}
		for i, r := range got {
			assert.GreaterOrEqual(t, r.DistanceKm, 0.0)
			if i > 0 {
				assert.LessOrEqual(t, got[i-1].DistanceKm, r.DistanceKm)
			}
			seen[r.ID] = struct{}{}
		}
		assert.Equal(t, want, seen)

		assert.Equal(t, got, Rank(origin, in), "rank must be deterministic")
	}
}
