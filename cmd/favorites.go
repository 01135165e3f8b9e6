package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/hymn/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the user's favorite songs.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	state, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	songs := state.Favorites.Songs()
	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}
	if len(songs) == 0 {
		return r.writePlain("No favorites yet\n")
	}
	return r.writeSongTable(songs)
}

// FavoritesAdd adds a song to the user's favorites.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	if _, err := r.requireUser(ctx); err != nil {
		return err
	}

	song, err := r.catalog.Songs.ByID(ctx, songID)
	if err != nil {
		return err
	}

	if r.provider.IsFavorite(*song) {
		return r.writePlain("%s is already a favorite\n", song.Name)
	}
	if !r.provider.AddFavorite(ctx, *song) {
		return fmt.Errorf("%w: could not add %s to favorites", shared.ErrAPIRequest, song.Name)
	}

	return r.writePlain("✓ Added %s to favorites\n", song.Name)
}

// FavoritesRemove removes a song from the user's favorites.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	if _, err := r.requireUser(ctx); err != nil {
		return err
	}

	song, ok := r.provider.FavoriteByID(songID)
	if !ok {
		return r.writePlain("%s is not a favorite\n", songID)
	}
	if !r.provider.RemoveFavorite(ctx, song) {
		return fmt.Errorf("%w: could not remove %s from favorites", shared.ErrAPIRequest, song.Name)
	}

	return r.writePlain("✓ Removed %s from favorites\n", song.Name)
}
