package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/hymn/internal/models"
	"github.com/desertthunder/hymn/internal/shared"
)

// SongService reads songs from the public catalog and performs the user-scoped song operations.
//
// Favorites and admin changes are relayed through the identity provider by the [Relayer].
type SongService struct {
	reader  *reader
	relayer Relayer
	routes  RouteTable
}

// NewSongService creates a [SongService].
func NewSongService(client *Client, relayer Relayer, routes RouteTable, opts ...CatalogOption) *SongService {
	return &SongService{reader: newReader(client, opts...), relayer: relayer, routes: routes}
}

// All returns every song ordered by number.
func (s *SongService) All(ctx context.Context) ([]models.Song, error) {
	songs, err := getJSON[[]models.Song](ctx, s.reader, s.routes.Get().Songs.All)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch songs: %w", err)
	}
	return models.SortSongs(songs), nil
}

// ByBook returns the songs of a book ordered by number.
func (s *SongService) ByBook(ctx context.Context, bookID string) ([]models.Song, error) {
	if bookID == "" {
		return nil, fmt.Errorf("%w: book id", shared.ErrMissingArgument)
	}

	songs, err := getJSON[[]models.Song](ctx, s.reader, WithID(s.routes.Get().Songs.ByBookID, bookID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch songs of book %s: %w", bookID, notFound(err, shared.ErrBookNotFound))
	}
	return models.SortSongs(songs), nil
}

// ByID returns one song.
func (s *SongService) ByID(ctx context.Context, songID string) (*models.Song, error) {
	if songID == "" {
		return nil, fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	song, err := getJSON[models.Song](ctx, s.reader, WithID(s.routes.Get().Songs.BySongID, songID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch song %s: %w", songID, notFound(err, shared.ErrSongNotFound))
	}
	return &song, nil
}

// Favorites returns the signed-in user's favorite songs.
func (s *SongService) Favorites(ctx context.Context) ([]models.Song, error) {
	resp, err := s.relayer.RelayToOwnAPI(ctx, s.routes.Get().Songs.Favorites, http.MethodGet, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorite songs: %w", err)
	}

	songs, err := DecodeJSON[[]models.Song](resp)
	if err != nil {
		return nil, err
	}
	return songs, nil
}

type favoriteRequest struct {
	SongID string `json:"songId"`
}

// AddFavorite marks a song as a favorite of the signed-in user.
func (s *SongService) AddFavorite(ctx context.Context, song models.Song) error {
	_, err := s.relayer.RelayToOwnAPI(ctx, s.routes.Post().Songs.AddFavorite, http.MethodPost, favoriteRequest{SongID: song.ID})
	if err != nil {
		return fmt.Errorf("failed to add favorite %s: %w", song.ID, err)
	}
	return nil
}

// RemoveFavorite unmarks a favorite song of the signed-in user.
func (s *SongService) RemoveFavorite(ctx context.Context, song models.Song) error {
	_, err := s.relayer.RelayToOwnAPI(ctx, s.routes.Post().Songs.RemoveFavorite, http.MethodPost, favoriteRequest{SongID: song.ID})
	if err != nil {
		return fmt.Errorf("failed to remove favorite %s: %w", song.ID, err)
	}
	return nil
}

// Save adds or updates a song. Only admins may call it; other users are rejected without a request.
// A successful save clears the catalog cache.
func (s *SongService) Save(ctx context.Context, user *models.UserProfile, update models.SongUpdate) error {
	if err := requireAdmin(user); err != nil {
		return err
	}

	if _, err := s.relayer.RelayToOwnAPI(ctx, s.routes.Post().Songs.AddOrUpdate, http.MethodPost, update); err != nil {
		return fmt.Errorf("failed to save song %q: %w", update.Name, err)
	}
	s.reader.invalidate(ctx)
	return nil
}

// Delete removes a song. Only admins may call it; other users are rejected without a request.
// A successful delete clears the catalog cache.
func (s *SongService) Delete(ctx context.Context, user *models.UserProfile, songID string) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	if songID == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	if _, err := s.relayer.RelayToOwnAPI(ctx, s.routes.Delete().Song, http.MethodDelete, models.DeleteSong{SongID: songID}); err != nil {
		return fmt.Errorf("failed to delete song %s: %w", songID, err)
	}
	s.reader.invalidate(ctx)
	return nil
}

func requireAdmin(user *models.UserProfile) error {
	if user == nil {
		return shared.ErrNotAuthenticated
	}
	if !user.IsAdmin {
		return fmt.Errorf("%w: admin rights required", shared.ErrForbidden)
	}
	return nil
}
