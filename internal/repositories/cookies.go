package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CookieRepository persists the identity provider's cookies in the sso_cookies table.
type CookieRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCookieRepository creates a new [CookieRepository] with the given database connection
func NewCookieRepository(db *sql.DB) *CookieRepository {
	return &CookieRepository{db: db, now: time.Now}
}

// Load returns the unexpired cookies stored for the host of u.
func (r *CookieRepository) Load(ctx context.Context, u *url.URL) ([]*http.Cookie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, value, path, expires_at FROM sso_cookies
		WHERE host = ? AND (expires_at IS NULL OR expires_at > ?)
		ORDER BY name
	`, u.Hostname(), r.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query cookies: %w", err)
	}
	defer rows.Close()

	var cookies []*http.Cookie
	for rows.Next() {
		var (
			c       http.Cookie
			expires sql.NullTime
		)
		if err := rows.Scan(&c.Name, &c.Value, &c.Path, &expires); err != nil {
			return nil, fmt.Errorf("failed to scan cookie: %w", err)
		}
		if expires.Valid {
			c.Expires = expires.Time
		}
		cookies = append(cookies, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cookies: %w", err)
	}
	return cookies, nil
}

// Restore loads the stored cookies for u into jar and returns how many were set.
func (r *CookieRepository) Restore(ctx context.Context, u *url.URL, jar http.CookieJar) (int, error) {
	cookies, err := r.Load(ctx, u)
	if err != nil {
		return 0, err
	}
	if len(cookies) > 0 {
		jar.SetCookies(u, cookies)
	}
	return len(cookies), nil
}

// Snapshot replaces the stored cookies for u with what jar currently sends to it.
func (r *CookieRepository) Snapshot(ctx context.Context, u *url.URL, jar http.CookieJar) error {
	return r.Replace(ctx, u, jar.Cookies(u))
}

// Replace stores cookies as the complete set for the host of u.
func (r *CookieRepository) Replace(ctx context.Context, u *url.URL, cookies []*http.Cookie) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sso_cookies WHERE host = ?`, u.Hostname()); err != nil {
			return fmt.Errorf("failed to delete cookies: %w", err)
		}
		return r.upsert(ctx, tx, u, cookies)
	})
}

// Import merges cookies into the stored set for the host of u.
func (r *CookieRepository) Import(ctx context.Context, u *url.URL, cookies []*http.Cookie) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return r.upsert(ctx, tx, u, cookies)
	})
}

// Clear removes every cookie stored for the host of u.
func (r *CookieRepository) Clear(ctx context.Context, u *url.URL) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sso_cookies WHERE host = ?`, u.Hostname()); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}

func (r *CookieRepository) upsert(ctx context.Context, tx *sql.Tx, u *url.URL, cookies []*http.Cookie) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sso_cookies (host, name, value, path, expires_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(host, name) DO UPDATE SET
			value = excluded.value, path = excluded.path,
			expires_at = excluded.expires_at, updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cookie insert: %w", err)
	}
	defer stmt.Close()

	now := r.now().UTC()
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}

		path := c.Path
		if path == "" {
			path = "/"
		}

		var expires sql.NullTime
		if !c.Expires.IsZero() {
			expires = sql.NullTime{Time: c.Expires.UTC(), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, u.Hostname(), c.Name, c.Value, path, expires, now); err != nil {
			return fmt.Errorf("failed to store cookie %s: %w", c.Name, err)
		}
	}
	return nil
}
