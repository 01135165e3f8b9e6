// package services defines the HTTP client wrapper, the route table, and the catalog services of the lyrics API
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymn/internal/shared"
)

// Relayer forwards a request to the lyrics API through the identity provider, which attaches the user's credentials.
//
// Implemented by the SSO gateway in package auth.
type Relayer interface {
	RelayToOwnAPI(ctx context.Context, url, method string, data any) (*Response, error)
}

// Cache stores raw catalog payloads keyed by request URL.
//
// Get returns [shared.ErrCacheMiss] when no entry younger than maxAge exists. Clear drops every entry
// and is called after a catalog write.
type Cache interface {
	Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Clear(ctx context.Context) error
}

// CatalogOption configures the read path shared by [BookService], [SongService] and [VerseService].
type CatalogOption func(*reader)

// WithCache enables the read-through cache for public catalog reads.
func WithCache(c Cache, maxAge time.Duration) CatalogOption {
	return func(r *reader) {
		r.cache = c
		r.maxAge = maxAge
	}
}

// WithLogger sets the logger of the catalog services.
func WithLogger(l *log.Logger) CatalogOption {
	return func(r *reader) { r.logger = l }
}

// reader performs anonymous GETs against the public catalog, consulting the cache first when one is set.
type reader struct {
	client *Client
	cache  Cache
	maxAge time.Duration
	logger *log.Logger
}

func newReader(client *Client, opts ...CatalogOption) *reader {
	r := &reader{client: client, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *reader) get(ctx context.Context, url string) ([]byte, error) {
	if r.cache != nil {
		payload, err := r.cache.Get(ctx, url, r.maxAge)
		switch {
		case err == nil:
			r.logger.Debug("catalog cache hit", "url", url)
			return payload, nil
		case !errors.Is(err, shared.ErrCacheMiss):
			r.logger.Warn("catalog cache read failed", "url", url, "error", err)
		}
	}

	resp, err := r.client.Request(ctx, url, RequestConfig{Method: http.MethodGet})
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, url, resp.Body); err != nil {
			r.logger.Warn("catalog cache write failed", "url", url, "error", err)
		}
	}

	return resp.Body, nil
}

// invalidate drops cached catalog payloads once a write has changed the catalog.
func (r *reader) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Clear(ctx); err != nil {
		r.logger.Warn("catalog cache invalidation failed", "error", err)
	}
}

func getJSON[T any](ctx context.Context, r *reader, url string) (T, error) {
	payload, err := r.get(ctx, url)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeJSON[T](&Response{Body: payload, URL: url})
}

// notFound re-tags a 404 with a more specific sentinel while keeping the original chain.
func notFound(err, sentinel error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

// Catalog bundles the services built on one client and route table.
type Catalog struct {
	Books  *BookService
	Songs  *SongService
	Verses *VerseService
}

// NewCatalog creates the book, song and verse services sharing one read path.
func NewCatalog(client *Client, relayer Relayer, routes RouteTable, opts ...CatalogOption) *Catalog {
	r := newReader(client, opts...)
	return &Catalog{
		Books:  &BookService{reader: r, routes: routes},
		Songs:  &SongService{reader: r, relayer: relayer, routes: routes},
		Verses: &VerseService{reader: r, routes: routes},
	}
}
