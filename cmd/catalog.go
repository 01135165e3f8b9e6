package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/hymn/internal/formatter"
	"github.com/desertthunder/hymn/internal/models"
	"github.com/desertthunder/hymn/internal/shared"
	"github.com/urfave/cli/v3"
)

// Books lists the hymnals.
func (r *Runner) Books(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	books, err := r.catalog.Books.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch books: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, true)
	}

	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{b.ID, b.Abbrv, b.Name, b.Language(), strconv.Itoa(b.NumOfSongs)})
	}
	return r.writeTable([]string{"ID", "Abbrv", "Name", "Language", "Songs"}, rows)
}

// Songs lists the songs of one book, or every song.
func (r *Runner) Songs(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	var (
		songs []models.Song
		err   error
	)
	if bookID := cmd.String("book"); bookID != "" {
		songs, err = r.catalog.Songs.ByBook(ctx, bookID)
	} else {
		songs, err = r.catalog.Songs.All(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch songs: %w", err)
	}
	songs = models.SortSongs(songs)

	switch {
	case cmd.Bool("csv"):
		data, err := formatter.SongsCSV(songs)
		if err != nil {
			return err
		}
		return r.emit(cmd.String("output"), data)
	case cmd.Bool("json"):
		if out := cmd.String("output"); out != "" {
			data, err := shared.MarshalJSON(songs, true)
			if err != nil {
				return err
			}
			return r.emit(out, data)
		}
		return r.writeJSON(songs, true)
	}

	return r.writeSongTable(songs)
}

// Song prints a song's lyrics with verses in order.
func (r *Runner) Song(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	song, err := r.catalog.Songs.ByID(ctx, songID)
	if err != nil {
		return err
	}

	verses, err := r.catalog.Verses.BySong(ctx, song.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch verses: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"song": song, "verses": verses}, true)
	}

	var book models.Book
	if song.CatID != "" {
		if b, err := r.catalog.Books.ByID(ctx, song.CatID); err == nil {
			book = *b
		} else {
			r.logger.Debug("book lookup failed", "book", song.CatID, "error", err)
		}
	}

	if _, err := r.output.Write(formatter.SongText(book, *song, verses)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if r.provider.IsFavorite(*song) {
		r.writePlainln("★ favorite")
	}
	return nil
}

// loadSong fetches everything needed to render one song. An empty bookID means the song's own book.
func (r *Runner) loadSong(ctx context.Context, bookID, songID string) (models.Book, models.Song, []models.Verse, error) {
	if songID == "" {
		return models.Book{}, models.Song{}, nil, fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	if err := r.connect(ctx); err != nil {
		return models.Book{}, models.Song{}, nil, err
	}

	song, err := r.catalog.Songs.ByID(ctx, songID)
	if err != nil {
		return models.Book{}, models.Song{}, nil, err
	}

	if bookID == "" {
		bookID = song.CatID
	}
	if bookID == "" {
		return models.Book{}, models.Song{}, nil, fmt.Errorf("%w: song %s has no book, pass --book", shared.ErrMissingArgument, song.ID)
	}

	book, err := r.catalog.Books.ByID(ctx, bookID)
	if err != nil {
		return models.Book{}, models.Song{}, nil, err
	}

	verses, err := r.catalog.Verses.BySong(ctx, song.ID)
	if err != nil {
		return models.Book{}, models.Song{}, nil, fmt.Errorf("failed to fetch verses: %w", err)
	}

	return *book, *song, verses, nil
}

func (r *Runner) writeSongTable(songs []models.Song) error {
	rows := make([][]string, 0, len(songs))
	for _, s := range songs {
		fav := ""
		if r.provider != nil && r.provider.IsFavorite(s) {
			fav = "★"
		}
		rows = append(rows, []string{strconv.Itoa(s.BookNum), s.Name, s.ID, fav})
	}
	return r.writeTable([]string{"#", "Name", "ID", ""}, rows)
}

// emit writes data to path, or to the output writer when path is empty.
func (r *Runner) emit(path string, data []byte) error {
	if path == "" {
		_, err := r.output.Write(data)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	written, err := formatter.WriteFile(path, data)
	if err != nil {
		return err
	}
	r.logger.Info("file written", "path", written)
	return r.writePlain("✓ Saved to %s\n", written)
}
