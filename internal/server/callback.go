package server

import (
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/hymn/internal/shared"
	"github.com/google/uuid"
)

// CallbackResult is what the identity provider sent back to the callback.
type CallbackResult struct {
	Token string
	Err   error
}

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: {{.Color}}; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

// CallbackHandler receives the identity provider's redirect.
type CallbackHandler struct {
	state   string
	results chan CallbackResult
	once    sync.Once
	mu      sync.Mutex
	hit     bool
}

// NewState generates the state value for one login attempt.
func NewState() string {
	return shared.GenerateID()
}

// NewCallbackHandler creates a handler expecting state on the callback.
func NewCallbackHandler(state string) *CallbackHandler {
	return &CallbackHandler{state: state, results: make(chan CallbackResult, 1)}
}

func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles one callback. Requests with a foreign state are rejected without ending the login.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if err := h.checkState(q.Get("state")); err != nil {
		render(w, http.StatusBadRequest, "Sign in failed", "The sign in request did not come from this terminal.")
		return
	}

	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	token := q.Get("token")
	if token == "" {
		err := fmt.Errorf("%w: callback carried no token", shared.ErrNotAuthenticated)
		if msg := q.Get("error"); msg != "" {
			err = fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, msg)
		}
		h.Send(CallbackResult{Err: err})
		render(w, http.StatusBadRequest, "Sign in failed", "No session was returned. Try again from the terminal.")
		return
	}

	h.Send(CallbackResult{Token: token})
	render(w, http.StatusOK, "Signed in", "You can close this window and return to the terminal.")
}

func (h *CallbackHandler) checkState(state string) error {
	if _, err := uuid.Parse(state); err != nil || state != h.state {
		return shared.ErrInvalidState
	}
	return nil
}

// Send delivers result unless one was already delivered.
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result returns the channel receiving exactly one result.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.results
}

func render(w http.ResponseWriter, status int, title, message string) {
	color := "#04B575"
	if status >= http.StatusBadRequest {
		color = "#E0245E"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = page.Execute(w, map[string]any{"Title": title, "Message": message, "Color": template.CSS(color)})
}
