package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymn/internal/shared"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(&strings.Builder{}, log.Options{Level: log.DebugLevel})
}

func TestBasicRouter(t *testing.T) {
	t.Run("middleware runs in registration order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			order = append(order, "handler")
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order: %v", order)
		}
	})

	t.Run("rejects other methods", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodGet {
			t.Errorf("unexpected Allow header %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("recover turns panics into 500", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(Recover(testLogger()))
		r.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestCallbackHandler(t *testing.T) {
	state := NewState()

	tests := []struct {
		name    string
		query   string
		status  int
		token   string
		wantErr error
	}{
		{name: "valid", query: "?state=" + state + "&token=abc", status: http.StatusOK, token: "abc"},
		{name: "missing token", query: "?state=" + state, status: http.StatusBadRequest, wantErr: shared.ErrNotAuthenticated},
		{name: "provider error", query: "?state=" + state + "&error=denied", status: http.StatusBadRequest, wantErr: shared.ErrNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCallbackHandler(state)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil))

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}

			res := <-h.Result()
			if tt.wantErr != nil {
				if !errors.Is(res.Err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, res.Err)
				}
				return
			}
			if res.Err != nil || res.Token != tt.token {
				t.Errorf("unexpected result %+v", res)
			}
		})
	}

	t.Run("foreign state does not end the login", func(t *testing.T) {
		h := NewCallbackHandler(state)
		for _, q := range []string{"?state=" + NewState() + "&token=stale", "?state=nope&token=abc", "?token=abc"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback"+q, nil))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", q, rec.Code)
			}
		}

		select {
		case res := <-h.Result():
			t.Fatalf("expected no result yet, got %+v", res)
		default:
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state="+state+"&token=abc", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if res := <-h.Result(); res.Err != nil || res.Token != "abc" {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("checkState", func(t *testing.T) {
		h := NewCallbackHandler(state)
		if err := h.checkState(state); err != nil {
			t.Errorf("expected own state accepted, got %v", err)
		}
		for _, s := range []string{"", "nope", NewState()} {
			if err := h.checkState(s); !errors.Is(err, shared.ErrInvalidState) {
				t.Errorf("checkState(%q) = %v, want ErrInvalidState", s, err)
			}
		}
	})

	t.Run("only one callback is processed", func(t *testing.T) {
		h := NewCallbackHandler(state)
		req := func() int {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state="+state+"&token=abc", nil))
			return rec.Code
		}

		if code := req(); code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if code := req(); code != http.StatusBadRequest {
			t.Errorf("expected 400 on replay, got %d", code)
		}

		if _, ok := <-h.Result(); !ok {
			t.Fatal("expected a result")
		}
		if _, ok := <-h.Result(); ok {
			t.Error("expected channel closed after one result")
		}
	})
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestServe(t *testing.T) {
	t.Run("returns the callback token", func(t *testing.T) {
		state := NewState()
		addr := freeAddr(t)
		h := NewCallbackHandler(state)
		ready := make(chan struct{})

		go func() {
			<-ready
			resp, err := http.Get("http://" + addr + "/callback?state=" + state + "&token=tok")
			if err == nil {
				resp.Body.Close()
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := Serve(ctx, addr, h, testLogger(), ready)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Token != "tok" {
			t.Errorf("expected tok, got %q", res.Token)
		}
	})

	t.Run("stops when context ends", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := Serve(ctx, freeAddr(t), NewCallbackHandler(NewState()), testLogger(), nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}
