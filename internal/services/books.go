package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/hymn/internal/models"
	"github.com/desertthunder/hymn/internal/shared"
)

// BookService reads hymnals from the public catalog.
type BookService struct {
	reader *reader
	routes RouteTable
}

// NewBookService creates a [BookService].
func NewBookService(client *Client, routes RouteTable, opts ...CatalogOption) *BookService {
	return &BookService{reader: newReader(client, opts...), routes: routes}
}

// All returns every book ordered by name.
func (s *BookService) All(ctx context.Context) ([]models.Book, error) {
	books, err := getJSON[[]models.Book](ctx, s.reader, s.routes.Get().Books.All)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}
	return models.SortBooks(books), nil
}

// ByID returns one book.
func (s *BookService) ByID(ctx context.Context, bookID string) (*models.Book, error) {
	if bookID == "" {
		return nil, fmt.Errorf("%w: book id", shared.ErrMissingArgument)
	}

	book, err := getJSON[models.Book](ctx, s.reader, WithID(s.routes.Get().Books.ByID, bookID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book %s: %w", bookID, notFound(err, shared.ErrBookNotFound))
	}
	return &book, nil
}
