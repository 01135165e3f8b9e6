package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/hymn/internal/models"
	"github.com/desertthunder/hymn/internal/shared"
)

// VerseService reads song verses from the public catalog.
type VerseService struct {
	reader *reader
	routes RouteTable
}

// NewVerseService creates a [VerseService].
func NewVerseService(client *Client, routes RouteTable, opts ...CatalogOption) *VerseService {
	return &VerseService{reader: newReader(client, opts...), routes: routes}
}

// BySong returns the verses of a song in ascending verse number order, whatever order the API used.
func (s *VerseService) BySong(ctx context.Context, songID string) ([]models.Verse, error) {
	if songID == "" {
		return nil, fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	verses, err := getJSON[[]models.Verse](ctx, s.reader, WithID(s.routes.Get().Verses.BySongID, songID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch verses of song %s: %w", songID, notFound(err, shared.ErrSongNotFound))
	}
	return models.SortVerses(verses), nil
}

// ByID returns one verse.
func (s *VerseService) ByID(ctx context.Context, verseID string) (*models.Verse, error) {
	if verseID == "" {
		return nil, fmt.Errorf("%w: verse id", shared.ErrMissingArgument)
	}

	verse, err := getJSON[models.Verse](ctx, s.reader, WithID(s.routes.Get().Verses.ByVerseID, verseID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch verse %s: %w", verseID, err)
	}
	return &verse, nil
}
