// Package session exposes the signed-in user and their favorite songs to the rest of the application.
package session

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymn/internal/auth"
	"github.com/desertthunder/hymn/internal/models"
)

// Gateway is the part of [auth.Gateway] the provider drives.
type Gateway interface {
	SignIn(ctx context.Context) auth.SignInResult
	SignOut(ctx context.Context) auth.SignOutResult
	Reauthorize(ctx context.Context) *models.UserProfile
	Reset()
}

// FavoritesService is the part of [services.SongService] the provider uses.
type FavoritesService interface {
	Favorites(ctx context.Context) ([]models.Song, error)
	AddFavorite(ctx context.Context, song models.Song) error
	RemoveFavorite(ctx context.Context, song models.Song) error
}

// State is a snapshot of the session as seen by consumers.
type State struct {
	User           *models.UserProfile
	Favorites      FavoriteSet
	SSOAuthURL     string
	AuthProcessing bool
}

// Provider owns the session [State] and notifies subscribers after every committed change.
//
// It implements [auth.Authenticator], so the 401 interceptor keeps provider state in step with the gateway.
type Provider struct {
	gateway Gateway
	songs   FavoritesService
	logger  *log.Logger

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

// NewProvider creates a provider with an anonymous state.
func NewProvider(gateway Gateway, songs FavoritesService, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Provider{gateway: gateway, songs: songs, logger: logger, subscribers: make(map[int]func(State))}
}

// State returns the current snapshot.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

func (p *Provider) snapshot() State {
	s := p.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Subscribe registers fn to receive the state after every change. The returned func unsubscribes.
func (p *Provider) Subscribe(fn func(State)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subscribers, id)
	}
}

// commit applies mutate atomically and then notifies subscribers outside the lock.
func (p *Provider) commit(mutate func(*State)) {
	p.mu.Lock()
	mutate(&p.state)
	snap := p.snapshot()
	subs := make([]func(State), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// beginProcessing marks a sign-in as running. It returns false if one already is.
func (p *Provider) beginProcessing() bool {
	started := false
	p.commit(func(s *State) {
		if !s.AuthProcessing {
			s.AuthProcessing = true
			started = true
		}
	})
	return started
}

// SignIn signs the user in through the gateway.
//
// An existing user is returned as is. A redirect is recorded in SSOAuthURL until a later sign-in
// or [Provider.ReauthorizeUser] produces a user.
func (p *Provider) SignIn(ctx context.Context) auth.SignInResult {
	if user := p.State().User; user != nil {
		return auth.SignInResult{Kind: auth.Authorized, User: user}
	}
	if !p.beginProcessing() {
		return auth.SignInResult{Kind: auth.Failed}
	}

	result := p.gateway.SignIn(ctx)
	switch result.Kind {
	case auth.Authorized:
		p.commit(func(s *State) {
			s.User = result.User
			s.SSOAuthURL = ""
		})
		p.FetchFavorites(ctx)
		p.commit(func(s *State) { s.AuthProcessing = false })
		// A 401 on the favorites fetch resets the session before we get here.
		current := p.State().User
		if current == nil {
			return auth.SignInResult{Kind: auth.Failed}
		}
		result.User = current
	case auth.Redirect:
		p.commit(func(s *State) {
			s.SSOAuthURL = result.URL
			s.AuthProcessing = false
		})
	default:
		p.commit(func(s *State) { s.AuthProcessing = false })
	}

	return result
}

// SignInUser is [Provider.SignIn] reduced to whether it produced a user or a redirect.
func (p *Provider) SignInUser(ctx context.Context) bool {
	return p.SignIn(ctx).Kind != auth.Failed
}

// SignOutUser signs the user out. The local session is cleared even when the remote call fails.
func (p *Provider) SignOutUser(ctx context.Context) auth.SignOutResult {
	p.commit(func(s *State) { s.AuthProcessing = true })

	result := p.gateway.SignOut(ctx)
	if !result.Succeeded {
		p.logger.Warn("remote sign out failed, local session cleared")
	}

	p.commit(func(s *State) {
		s.User = nil
		s.Favorites = FavoriteSet{}
		s.SSOAuthURL = ""
		s.AuthProcessing = false
	})
	return result
}

// ReauthorizeUser silently restores the session, typically at start-up.
func (p *Provider) ReauthorizeUser(ctx context.Context) *models.UserProfile {
	if !p.beginProcessing() {
		return p.State().User
	}

	user := p.gateway.Reauthorize(ctx)
	p.commit(func(s *State) {
		s.User = user
		if user != nil {
			s.SSOAuthURL = ""
		}
	})
	if user != nil {
		p.FetchFavorites(ctx)
	}
	p.commit(func(s *State) { s.AuthProcessing = false })

	return p.State().User
}

// FetchFavorites replaces the favorite set with the server's. Any failure leaves the set empty.
func (p *Provider) FetchFavorites(ctx context.Context) bool {
	if p.State().User == nil {
		p.commit(func(s *State) { s.Favorites = FavoriteSet{} })
		return false
	}

	songs, err := p.songs.Favorites(ctx)
	if err != nil {
		p.logger.Warn("failed to fetch favorites", "error", err)
		p.commit(func(s *State) { s.Favorites = FavoriteSet{} })
		return false
	}

	set := NewFavoriteSet(songs)
	p.commit(func(s *State) { s.Favorites = set })
	return true
}

// AddFavorite adds song once the server confirms it.
func (p *Provider) AddFavorite(ctx context.Context, song models.Song) bool {
	if err := p.songs.AddFavorite(ctx, song); err != nil {
		p.logger.Warn("failed to add favorite", "song", song.ID, "error", err)
		return false
	}
	p.commit(func(s *State) { s.Favorites = s.Favorites.With(song) })
	return true
}

// RemoveFavorite removes song once the server confirms it.
func (p *Provider) RemoveFavorite(ctx context.Context, song models.Song) bool {
	if err := p.songs.RemoveFavorite(ctx, song); err != nil {
		p.logger.Warn("failed to remove favorite", "song", song.ID, "error", err)
		return false
	}
	p.commit(func(s *State) { s.Favorites = s.Favorites.Without(song.ID) })
	return true
}

// IsFavorite reports whether song is a favorite.
func (p *Provider) IsFavorite(song models.Song) bool {
	return p.State().Favorites.Has(song.ID)
}

// FavoriteByID returns a favorite song by id.
func (p *Provider) FavoriteByID(songID string) (models.Song, bool) {
	return p.State().Favorites.Get(songID)
}

// UserFullName returns the signed-in user's name in title case, or "".
func (p *Provider) UserFullName() string {
	return p.State().User.FullName()
}

// Reset clears the local session and the gateway's store without contacting the identity provider.
func (p *Provider) Reset() {
	p.gateway.Reset()
	p.commit(func(s *State) {
		s.User = nil
		s.Favorites = FavoriteSet{}
		s.SSOAuthURL = ""
	})
}
