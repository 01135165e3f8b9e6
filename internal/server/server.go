package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymn/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which path patterns it serves.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers and applies middleware.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

const shutdownTimeout = 2 * time.Second

// Serve listens on addr and serves the callback handler until it produces a result or ctx ends.
//
// ready, when not nil, is closed once the listener is bound (or binding failed).
func Serve(ctx context.Context, addr string, cb *CallbackHandler, logger *log.Logger, ready chan<- struct{}) (CallbackResult, error) {
	router := NewBasicRouter()
	router.Use(Recover(logger), RequestLogger(logger))
	router.Handler(cb)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if ready != nil {
			close(ready)
		}
		return CallbackResult{}, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Debug("callback server listening", "addr", ln.Addr().String())
	if ready != nil {
		close(ready)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("callback server shutdown failed", "error", err)
		}
	}()

	select {
	case res := <-cb.Result():
		return res, res.Err
	case err := <-errCh:
		return CallbackResult{}, fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	}
}
