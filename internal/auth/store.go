package auth

import (
	"sync"
	"time"

	"github.com/desertthunder/hymn/internal/models"
	"golang.org/x/oauth2"
)

// tokenType marks tokens issued by the identity provider's token route.
const tokenType = "CSRF"

// Session is a point-in-time copy of the [Store].
//
// User is only set together with a token; a token without a user is a sign-in still in progress.
type Session struct {
	Token          *oauth2.Token
	User           *models.UserProfile
	SSORedirectURL string
	AuthInProgress bool
}

// Authorized reports whether the session holds a valid token and a user.
func (s Session) Authorized() bool {
	return s.Token.Valid() && s.User != nil
}

// Store holds the session in memory. It is safe for concurrent use and hands out copies only.
type Store struct {
	mu          sync.Mutex
	token       *oauth2.Token
	user        *models.UserProfile
	redirectURL string
	processing  bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a consistent copy of the session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Session{SSORedirectURL: s.redirectURL, AuthInProgress: s.processing}
	if s.token != nil {
		tok := *s.token
		snap.Token = &tok
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Token returns the raw token, empty when none is held.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.token.Valid() {
		return ""
	}
	return s.token.AccessToken
}

// HasToken reports whether a valid token is held.
func (s *Store) HasToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token.Valid()
}

// SetToken replaces the token with one that does not expire. An empty value clears it along with the user.
func (s *Store) SetToken(raw string) {
	s.SetExpiringToken(raw, time.Time{})
}

// SetExpiringToken replaces the token with one that stops being valid at expiry. A zero expiry never expires.
func (s *Store) SetExpiringToken(raw string, expiry time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw == "" {
		s.token, s.user = nil, nil
		return
	}
	s.token = &oauth2.Token{AccessToken: raw, TokenType: tokenType, Expiry: expiry}
	s.redirectURL = ""
}

// SetUser replaces the user profile with a copy of u.
func (s *Store) SetUser(u *models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}

// SetRedirectURL records the identity provider URL the user must visit to sign in.
func (s *Store) SetRedirectURL(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirectURL = u
}

// BeginAuth marks a sign-in as in progress. It returns false if one already is.
func (s *Store) BeginAuth() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return false
	}
	s.processing = true
	return true
}

// EndAuth clears the in-progress mark.
func (s *Store) EndAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
}

// Clear drops the token, the user and the redirect URL. A sign-in in progress stays marked as such.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user, s.redirectURL = nil, nil, ""
}
