package main

import (
	"context"

	"github.com/desertthunder/hymn/internal/repositories"
	"github.com/urfave/cli/v3"
)

func (r *Runner) catalogCache() (*repositories.CatalogRepository, error) {
	if r.cache != nil {
		return r.cache, nil
	}
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	r.cache = repositories.NewCatalogRepository(db)
	return r.cache, nil
}

// CacheStats prints the number of cached catalog responses.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.catalogCache()
	if err != nil {
		return err
	}

	n, err := cache.Count(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("Cached responses: %d\n", n)
}

// CachePurge removes stale catalog responses.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}

	cache, err := r.catalogCache()
	if err != nil {
		return err
	}

	ttl := cfg.CacheTTL()
	if d := cmd.Duration("older-than"); d > 0 {
		ttl = d
	}

	n, err := cache.Purge(ctx, ttl)
	if err != nil {
		return err
	}

	r.logger.Info("catalog cache purged", "removed", n, "older_than", ttl)
	return r.writePlain("✓ Removed %d cached responses\n", n)
}

// CacheClear empties the catalog cache.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.catalogCache()
	if err != nil {
		return err
	}

	if err := cache.Clear(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Catalog cache cleared\n")
}
