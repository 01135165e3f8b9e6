package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/hymn/internal/models"
	"github.com/desertthunder/hymn/internal/shared"
	"github.com/urfave/cli/v3"
)

// AdminSave creates or updates a song from a JSON [models.SongDraft].
func (r *Runner) AdminSave(ctx context.Context, cmd *cli.Command) error {
	data, err := shared.VerifyAndReadFile(cmd.String("file"))
	if err != nil {
		return err
	}

	var draft models.SongDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return fmt.Errorf("%w: song draft: %v", shared.ErrInvalidInput, err)
	}

	update, err := draft.Build()
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	state, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	if err := r.catalog.Songs.Save(ctx, state.User, update); err != nil {
		return fmt.Errorf("failed to save song: %w", err)
	}

	r.logger.Info("song saved", "name", update.Name, "verses", len(update.Verses))
	if update.SongID == nil {
		return r.writePlain("✓ Created %s\n", update.Name)
	}
	return r.writePlain("✓ Updated %s\n", update.Name)
}

// AdminDelete deletes a song.
func (r *Runner) AdminDelete(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	state, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	if err := r.catalog.Songs.Delete(ctx, state.User, songID); err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	r.logger.Info("song deleted", "id", songID)
	return r.writePlain("✓ Deleted %s\n", songID)
}
