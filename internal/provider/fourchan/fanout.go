package fourchan

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/chandesk/chandesk/internal/board"
)

// fanOutCatalogs fetches several board catalogs concurrently, bounded so
// the home view doesn't hammer the API. Results align with the boards
// slice by index; a failed board yields an empty slice, matching the
// degrade-to-empty policy of the individual fetches.
func fanOutCatalogs(ctx context.Context, p *Provider, boards []string) [][]board.CatalogEntry {
	results := make([][]board.CatalogEntry, len(boards))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, b := range boards {
		i, b := i, b
		g.Go(func() error {
			results[i] = p.FetchCatalog(ctx, b)
			return nil
		})
	}
	// Fetches never return errors, so Wait only synchronizes
	g.Wait()

	return results
}
