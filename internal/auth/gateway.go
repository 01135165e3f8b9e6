package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymn/internal/models"
	"github.com/desertthunder/hymn/internal/services"
	"github.com/desertthunder/hymn/internal/shared"
)

// ResultKind discriminates a [SignInResult].
type ResultKind int

const (
	// Failed means no session could be established and no redirect is available.
	Failed ResultKind = iota
	// Authorized means a token and a user profile are held.
	Authorized
	// Redirect means the user must sign in at the identity provider first.
	Redirect
)

func (k ResultKind) String() string {
	switch k {
	case Authorized:
		return "authorized"
	case Redirect:
		return "redirect"
	default:
		return "failed"
	}
}

// SignInResult is the outcome of [Gateway.SignIn]. User is set only for Authorized, URL only for Redirect.
type SignInResult struct {
	Kind ResultKind
	User *models.UserProfile
	URL  string
}

func authorized(u *models.UserProfile) SignInResult { return SignInResult{Kind: Authorized, User: u} }
func redirect(u string) SignInResult                { return SignInResult{Kind: Redirect, URL: u} }
func failed() SignInResult                          { return SignInResult{Kind: Failed} }

// SignOutResult is the outcome of [Gateway.SignOut]. The local session is cleared either way.
type SignOutResult struct {
	Succeeded   bool
	RedirectURL string
}

// tokenResponse is the token route's body. ExpiresIn is in seconds and absent for session-bound tokens.
type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
}

func (t tokenResponse) expiry() time.Time {
	if t.ExpiresIn <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
}

type authInitiatorRequest struct {
	ServiceURL string `json:"serviceUrl"`
}

type authInitiatorResponse struct {
	AuthURL string `json:"authUrl"`
}

type relayEnvelope struct {
	APIHost   string `json:"apiHost"`
	APIURL    string `json:"apiUrl"`
	APIMethod string `json:"apiMethod"`
	Data      any    `json:"data"`
}

// Gateway orchestrates sign-in, sign-out and relayed requests against the identity provider.
type Gateway struct {
	client *services.Client
	routes services.RouteTable
	store  *Store
	logger *log.Logger

	mu         sync.RWMutex
	serviceURL string
}

// GatewayOption configures a [Gateway].
type GatewayOption func(*Gateway)

// WithGatewayLogger sets the gateway's logger.
func WithGatewayLogger(l *log.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = l }
}

// WithServiceURL sets the URL the identity provider returns the user to after signing in.
func WithServiceURL(u string) GatewayOption {
	return func(g *Gateway) { g.serviceURL = u }
}

// NewGateway creates a [Gateway] over store.
func NewGateway(client *services.Client, routes services.RouteTable, store *Store, opts ...GatewayOption) *Gateway {
	g := &Gateway{client: client, routes: routes, store: store, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetServiceURL replaces the return URL sent with sign-in and sign-out requests.
func (g *Gateway) SetServiceURL(u string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.serviceURL = u
}

func (g *Gateway) getServiceURL() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.serviceURL
}

// Store returns the session store.
func (g *Gateway) Store() *Store { return g.store }

// IsUserAuthorized reports whether a token is held.
func (g *Gateway) IsUserAuthorized() bool { return g.store.HasToken() }

// Token returns the current token, empty when anonymous.
func (g *Gateway) Token() string { return g.store.Token() }

// Reset clears the local session without contacting the identity provider.
func (g *Gateway) Reset() { g.store.Clear() }

// SignIn establishes a session.
//
// With a token and user already held it returns them without any request. Otherwise it fetches a
// token with the provider session cookie and then the user profile. When no provider session
// exists it asks for an authorization URL and returns Redirect. A sign-in already in progress
// makes this call return Failed immediately.
func (g *Gateway) SignIn(ctx context.Context) SignInResult {
	if snap := g.store.Snapshot(); snap.Authorized() {
		return authorized(snap.User)
	}

	if !g.store.BeginAuth() {
		g.logger.Debug("sign in already in progress")
		return failed()
	}
	defer g.store.EndAuth()

	if !g.store.HasToken() {
		if err := g.fetchToken(ctx); err != nil {
			g.logger.Debug("no provider session, requesting authorization url", "error", err)

			authURL, err := g.requestAuthURL(ctx)
			if err != nil {
				g.logger.Warn("sign in failed", "error", err)
				return failed()
			}
			g.store.SetRedirectURL(authURL)
			return redirect(authURL)
		}
	}

	user, err := g.fetchUser(ctx)
	if err != nil {
		g.logger.Warn("failed to fetch user profile", "error", err)
		return failed()
	}

	g.store.SetUser(user)
	g.logger.Info("signed in", "user", user.FullName())
	return authorized(user)
}

// Reauthorize silently restores a session from the provider session cookie.
//
// It never requests a redirect. A token is fetched only if none is held.
func (g *Gateway) Reauthorize(ctx context.Context) *models.UserProfile {
	if !g.store.BeginAuth() {
		return nil
	}
	defer g.store.EndAuth()

	if !g.store.HasToken() {
		if err := g.fetchToken(ctx); err != nil {
			g.logger.Debug("no session to restore", "error", err)
			return nil
		}
	}

	user, err := g.fetchUser(ctx)
	if err != nil {
		g.logger.Debug("failed to restore user profile", "error", err)
		return nil
	}

	g.store.SetUser(user)
	return user
}

// SignOut ends the provider session if a token is held and always clears the local session.
//
// A 401 from the provider means the session was already gone and counts as success.
func (g *Gateway) SignOut(ctx context.Context) SignOutResult {
	defer g.store.Clear()

	if !g.store.HasToken() {
		return SignOutResult{Succeeded: true}
	}

	resp, err := g.RelayRequest(ctx, g.routes.Post().SSOSignOutAuthRedirect, http.MethodPost,
		authInitiatorRequest{ServiceURL: g.getServiceURL()})
	if err != nil {
		if services.StatusOf(err) == http.StatusUnauthorized {
			return SignOutResult{Succeeded: true}
		}
		g.logger.Warn("sign out failed", "error", err)
		return SignOutResult{}
	}

	result := SignOutResult{Succeeded: true}
	if len(resp.Body) > 0 {
		if body, err := services.DecodeJSON[authInitiatorResponse](resp); err == nil {
			result.RedirectURL = body.AuthURL
		}
	}
	return result
}

// AcceptToken seeds the session with a token delivered to the local callback.
func (g *Gateway) AcceptToken(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidInput)
	}
	g.store.SetToken(token)
	return nil
}

// RelayRequest performs a credentialed request with the current token attached.
func (g *Gateway) RelayRequest(ctx context.Context, target, method string, data any) (*services.Response, error) {
	cfg := services.RequestConfig{Method: method, WithCredentials: true, Body: data}

	if token := g.store.Token(); token != "" {
		if isIdempotent(method) {
			cfg.Header = http.Header{"X-CSRF-Token": {token}}
		} else {
			body, err := withToken(data, token)
			if err != nil {
				return nil, err
			}
			cfg.Body = body
		}
	}

	return g.client.Request(ctx, target, cfg)
}

// RelayToOwnAPI asks the identity provider to forward a request to the lyrics API on the user's behalf.
func (g *Gateway) RelayToOwnAPI(ctx context.Context, target, method string, data any) (*services.Response, error) {
	u, err := url.Parse(target)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: relay target %q must be an absolute URL", shared.ErrInvalidInput, target)
	}

	envelope := relayEnvelope{
		APIHost:   u.Scheme + "://" + u.Host,
		APIURL:    u.RequestURI(),
		APIMethod: method,
		Data:      data,
	}
	return g.RelayRequest(ctx, g.routes.Post().SSODataToAPI, http.MethodPost, envelope)
}

func (g *Gateway) fetchToken(ctx context.Context) error {
	resp, err := g.client.Request(ctx, g.routes.Get().SSOToken, services.RequestConfig{
		Method:          http.MethodGet,
		WithCredentials: true,
	})
	if err != nil {
		if services.StatusOf(err) == http.StatusUnauthorized {
			g.store.Clear()
		}
		return err
	}

	body, err := services.DecodeJSON[tokenResponse](resp)
	if err != nil {
		return err
	}
	if body.Token == "" {
		return fmt.Errorf("%w: empty token in response", shared.ErrAuthFailed)
	}

	g.store.SetExpiringToken(body.Token, body.expiry())
	return nil
}

func (g *Gateway) fetchUser(ctx context.Context) (*models.UserProfile, error) {
	resp, err := g.RelayRequest(ctx, g.routes.Post().SSOUser, http.MethodPost, nil)
	if err != nil {
		return nil, err
	}

	user, err := services.DecodeJSON[*models.UserProfile](resp)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no user in response", shared.ErrAuthFailed)
	}
	return user, nil
}

func (g *Gateway) requestAuthURL(ctx context.Context) (string, error) {
	resp, err := g.client.Request(ctx, g.routes.Post().SSOSignInAuthRedirect, services.RequestConfig{
		Method:          http.MethodPost,
		Body:            authInitiatorRequest{ServiceURL: g.getServiceURL()},
		WithCredentials: true,
	})
	if err != nil {
		return "", err
	}

	body, err := services.DecodeJSON[authInitiatorResponse](resp)
	if err != nil {
		return "", err
	}
	if body.AuthURL == "" {
		return "", errors.New("identity provider returned no authorization url")
	}
	return body.AuthURL, nil
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete, "":
		return true
	default:
		return false
	}
}

// withToken returns data as a JSON object with a "token" field added. A nil data yields {"token": ...}.
func withToken(data any, token string) (map[string]any, error) {
	body := map[string]any{}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		if string(raw) != "null" {
			if err := json.Unmarshal(raw, &body); err != nil {
				return nil, fmt.Errorf("%w: relayed data must be a JSON object", shared.ErrInvalidInput)
			}
		}
	}
	body["token"] = token
	return body, nil
}
