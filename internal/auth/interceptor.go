package auth

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymn/internal/services"
)

// Authenticator is what the [Interceptor] drives after a 401. Both [Gateway] and the session provider implement it.
type Authenticator interface {
	Reset()
	SignIn(ctx context.Context) SignInResult
}

// Interceptor watches every response of a [services.Client] and re-establishes the session on a 401.
//
// The failed call is not retried; only the session is refreshed for later calls.
type Interceptor struct {
	auth       Authenticator
	signOutURL string
	logger     *log.Logger
	once       sync.Once
}

// NewInterceptor creates an interceptor that ignores 401s from the sign-out route.
func NewInterceptor(auth Authenticator, routes services.RouteTable, logger *log.Logger) *Interceptor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Interceptor{auth: auth, signOutURL: routes.Post().SSOSignOutAuthRedirect, logger: logger}
}

// Attach registers the interceptor on c. Only the first call has an effect.
func (i *Interceptor) Attach(c *services.Client) {
	i.once.Do(func() { c.Observe(i.observe) })
}

func (i *Interceptor) observe(ctx context.Context, _ *services.Response, err error) {
	reqErr, ok := services.AsRequestError(err)
	if !ok || reqErr.StatusCode != http.StatusUnauthorized || i.isSignOut(reqErr.URL) {
		return
	}

	i.logger.Debug("unauthorized response, renewing session", "method", reqErr.Method, "url", reqErr.URL)

	i.auth.Reset()
	result := i.auth.SignIn(ctx)

	i.logger.Debug("session renewal finished", "result", result.Kind)
}

func (i *Interceptor) isSignOut(u string) bool {
	base, _, _ := strings.Cut(u, "?")
	return base == i.signOutURL
}
