package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/hymn/internal/services"
	"github.com/desertthunder/hymn/internal/shared"
)

var _ services.Cache = (*CatalogRepository)(nil)

// CatalogRepository stores raw catalog response bodies in the catalog_cache table.
type CatalogRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCatalogRepository creates a new [CatalogRepository] with the given database connection
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db, now: time.Now}
}

// Get returns the payload cached under key. Entries older than maxAge count as a miss; a
// non-positive maxAge accepts any age.
func (r *CatalogRepository) Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, error) {
	var (
		payload   []byte
		fetchedAt time.Time
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM catalog_cache WHERE cache_key = ?`, key,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrCacheMiss, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog cache: %w", err)
	}

	if maxAge > 0 && r.now().Sub(fetchedAt) > maxAge {
		return nil, fmt.Errorf("%w: %s is stale", shared.ErrCacheMiss, key)
	}

	return payload, nil
}

// Put stores payload under key, replacing any previous entry.
func (r *CatalogRepository) Put(ctx context.Context, key string, payload []byte) error {
	query := `
		INSERT INTO catalog_cache (cache_key, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, payload, r.now().UTC()); err != nil {
		return fmt.Errorf("failed to store catalog cache entry: %w", err)
	}
	return nil
}

// Purge removes entries fetched more than maxAge ago and returns how many were removed.
func (r *CatalogRepository) Purge(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM catalog_cache WHERE fetched_at < ?`, r.now().Add(-maxAge).UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge catalog cache: %w", err)
	}
	return res.RowsAffected()
}

// Clear empties the cache.
func (r *CatalogRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM catalog_cache`); err != nil {
		return fmt.Errorf("failed to clear catalog cache: %w", err)
	}
	return nil
}

// Count returns the number of cached entries.
func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count catalog cache: %w", err)
	}
	return n, nil
}
