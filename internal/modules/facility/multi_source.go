package facility

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"carefinder/internal/types"
)

// NamedSource labels a Source for error messages and logs.
type NamedSource struct {
	Name   string
	Source Source
}

// MultiSource queries several directories concurrently. Results are merged
// in source order and deduplicated by ID, the first source to report an ID
// wins. A failure in any source fails the whole lookup.
type MultiSource struct {
	sources []NamedSource
}

func NewMultiSource(sources ...NamedSource) *MultiSource {
	return &MultiSource{sources: sources}
}

func (m *MultiSource) Nearby(ctx context.Context, center types.Point, radiusKm float64) ([]Facility, error) {
	results := make([][]Facility, len(m.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, ns := range m.sources {
		g.Go(func() error {
			fs, err := ns.Source.Nearby(gctx, center, radiusKm)
			if err != nil {
				return fmt.Errorf("source %s: %w", ns.Name, err)
			}
			results[i] = fs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[types.ID]struct{})
	var merged []Facility
	for _, fs := range results {
		for _, f := range fs {
			if _, dup := seen[f.ID]; dup {
				continue
			}
			seen[f.ID] = struct{}{}
			merged = append(merged, f)
		}
	}
	return merged, nil
}
