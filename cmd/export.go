package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/hymn/internal/formatter"
	"github.com/desertthunder/hymn/internal/presenter"
	"github.com/urfave/cli/v3"
)

// Export renders a song as text, markdown or a mailto link.
//
// An --output ending in a path separator, or naming an existing directory, receives a file named after the song.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if err := formatter.ValidateFormat(format); err != nil {
		return err
	}

	book, song, verses, err := r.loadSong(ctx, cmd.String("book"), cmd.StringArg("id"))
	if err != nil {
		return err
	}

	data, err := formatter.Render(format, book, song, verses)
	if err != nil {
		return err
	}

	out := cmd.String("output")
	if out == "" {
		if format == formatter.FormatEmail {
			data = append(data, '\n')
		}
		return r.emit("", data)
	}

	if strings.HasSuffix(out, string(os.PathSeparator)) || isDir(out) {
		out = filepath.Join(out, formatter.SongFileName(song, formatter.Extension(format)))
	}
	return r.emit(out, data)
}

// Present shows a song as slides.
func (r *Runner) Present(ctx context.Context, cmd *cli.Command) error {
	book, song, verses, err := r.loadSong(ctx, cmd.String("book"), cmd.StringArg("id"))
	if err != nil {
		return err
	}

	port := r.presenter
	if port == nil {
		port = presenter.NewTerminal(r.input, nil, cmd.Bool("fullscreen"))
	}

	deck := presenter.BuildDeck(book, song, verses)
	r.logger.Debug("presenting", "song", song.ID, "slides", deck.Len())
	return port.Present(ctx, deck)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
