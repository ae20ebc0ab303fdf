package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
	"github.com/urfave/cli/v3"
)

// StudiosList prints the studio reference list.
//
// The live list is fetched by default and mirrored into the local cache;
// --cached reads the cache without touching the API, and an unreachable API
// falls back to the cache with a warning.
func (r *Runner) StudiosList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("cached") {
		repo, err := r.refdata()
		if err != nil {
			return err
		}
		studios, err := repo.Studios()
		if err != nil {
			return err
		}
		return r.printStudios(cmd, studios, true)
	}

	studios, err := r.catalog.ListStudios(ctx)
	if err != nil {
		r.logger.Warn("studio fetch failed, trying cache", "error", err)
		repo, cacheErr := r.refdata()
		if cacheErr != nil {
			return err
		}
		cached, cacheErr := repo.Studios()
		if cacheErr != nil || len(cached) == 0 {
			return err
		}
		return r.printStudios(cmd, cached, true)
	}

	if repo, err := r.refdata(); err == nil {
		if err := repo.ReplaceStudios(studios); err != nil {
			r.logger.Warn("failed to refresh studio cache", "error", err)
		}
	}

	return r.printStudios(cmd, studios, false)
}

// GenresList prints the genre reference list, with the same cache semantics
// as StudiosList.
func (r *Runner) GenresList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("cached") {
		repo, err := r.refdata()
		if err != nil {
			return err
		}
		genres, err := repo.Genres()
		if err != nil {
			return err
		}
		return r.printGenres(cmd, genres, true)
	}

	genres, err := r.catalog.ListGenres(ctx)
	if err != nil {
		r.logger.Warn("genre fetch failed, trying cache", "error", err)
		repo, cacheErr := r.refdata()
		if cacheErr != nil {
			return err
		}
		cached, cacheErr := repo.Genres()
		if cacheErr != nil || len(cached) == 0 {
			return err
		}
		return r.printGenres(cmd, cached, true)
	}

	if repo, err := r.refdata(); err == nil {
		if err := repo.ReplaceGenres(genres); err != nil {
			r.logger.Warn("failed to refresh genre cache", "error", err)
		}
	}

	return r.printGenres(cmd, genres, false)
}

func (r *Runner) printStudios(cmd *cli.Command, studios []models.Studio, fromCache bool) error {
	if len(studios) == 0 {
		if fromCache {
			return fmt.Errorf("%w: studio cache is empty, run without --cached first", shared.ErrInvalidArgument)
		}
		return r.writePlain("No studios found\n")
	}

	if cmd.Bool("json") {
		return r.writeJSON(studios, true)
	}

	if fromCache {
		r.writePlain("(cached)\n")
	}
	for _, studio := range studios {
		r.writePlain("%s  %s\n", studio.ID, studio.Name)
	}
	return nil
}

func (r *Runner) printGenres(cmd *cli.Command, genres []models.Genre, fromCache bool) error {
	if len(genres) == 0 {
		if fromCache {
			return fmt.Errorf("%w: genre cache is empty, run without --cached first", shared.ErrInvalidArgument)
		}
		return r.writePlain("No genres found\n")
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, true)
	}

	if fromCache {
		r.writePlain("(cached)\n")
	}
	for _, genre := range genres {
		r.writePlain("%s  %s\n", genre.ID, genre.Name)
	}
	return nil
}
