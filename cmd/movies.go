package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/mvx/internal/formatter"
	"github.com/desertthunder/mvx/internal/forms"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/paging"
	"github.com/desertthunder/mvx/internal/shared"
	"github.com/desertthunder/mvx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// filtersFromFlags reads the shared listing filter flags into MovieFilters.
// Normalization (year clamping, range swapping) happens in the service layer.
func filtersFromFlags(cmd *cli.Command) models.MovieFilters {
	filters := models.MovieFilters{
		Query:    cmd.String("query"),
		StudioID: cmd.String("studio"),
		GenreID:  cmd.String("genre"),
	}

	if cmd.IsSet("start-year") {
		y := int(cmd.Int("start-year"))
		filters.StartYear = &y
	}
	if cmd.IsSet("end-year") {
		y := int(cmd.Int("end-year"))
		filters.EndYear = &y
	}
	if cmd.IsSet("runtime-min") {
		n := int(cmd.Int("runtime-min"))
		filters.RuntimeMin = &n
	}
	if cmd.IsSet("runtime-max") {
		n := int(cmd.Int("runtime-max"))
		filters.RuntimeMax = &n
	}

	return filters
}

func (r *Runner) pageSize(cmd *cli.Command) int {
	if cmd.IsSet("page-size") {
		return int(cmd.Int("page-size"))
	}
	if r.config.API.PageSize > 0 {
		return r.config.API.PageSize
	}
	return paging.DefaultPageSize
}

// MoviesList fetches and prints one page of the filtered movie listing.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	filters := filtersFromFlags(cmd)
	page := int(cmd.Int("page"))
	pageSize := r.pageSize(cmd)

	r.logger.Info("listing movies", "page", page, "query", filters.Query)

	listing, err := r.catalog.ListMovies(ctx, filters, page, pageSize)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(listing, cmd.Bool("pretty"))
	}

	if len(listing.Items) == 0 {
		return r.writePlain("No movies found\n")
	}

	for i, movie := range listing.Items {
		studio := "-"
		if movie.Studio != nil {
			studio = movie.Studio.Name
		}
		r.writePlain("%2d. %s (%d)  %s  %s  %s  %d%%\n",
			(page-1)*pageSize+i+1,
			movie.Title,
			movie.ReleaseYear,
			formatter.FormatRuntime(movie.RuntimeMinutes),
			movie.Status,
			studio,
			movie.Approbation,
		)
	}

	pageCount := paging.PageCount(listing.Total, pageSize)
	return r.writePlain("\nPage %d of %d (%d movies)\n", page, pageCount, listing.Total)
}

// MoviesGet fetches and prints a single movie.
func (r *Runner) MoviesGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: movie ID is required", shared.ErrMissingArgument)
	}

	r.logger.Info("fetching movie", "id", id)

	movie, err := r.catalog.GetMovie(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, true)
	}

	title := movie.Title
	if movie.Subtitle != "" {
		title = fmt.Sprintf("%s: %s", movie.Title, movie.Subtitle)
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d)", title, movie.ReleaseYear))
	r.writePlain("Original title: %s\n", movie.OriginalTitle)
	r.writePlain("Runtime:        %s\n", formatter.FormatRuntime(movie.RuntimeMinutes))
	r.writePlain("Status:         %s\n", movie.Status)
	r.writePlain("Rating:         %s\n", movie.ContentRating)
	r.writePlain("Approbation:    %d%%\n", movie.Approbation)
	r.writePlain("Budget:         %s\n", formatter.MoneyUSD(movie.Budget))
	r.writePlain("Revenue:        %s\n", formatter.MoneyUSD(movie.Revenue))
	r.writePlain("Profit:         %s\n", formatter.MoneyUSD(movie.Profit))

	if movie.Studio != nil {
		r.writePlain("Studio:         %s\n", movie.Studio.Name)
	}
	if names := movie.GenreNames(); len(names) > 0 {
		r.writePlain("Genres:         %s\n", strings.Join(names, ", "))
	}
	if movie.TrailerYouTubeID != "" {
		r.writePlain("Trailer:        https://youtu.be/%s\n", movie.TrailerYouTubeID)
	}
	if movie.Overview != "" {
		r.writePlain("\n%s\n", movie.Overview)
	}

	return nil
}

// movieInputFromFlags builds the validation input from CLI flags. When base is
// non-nil its current values seed the input and set flags override them, so an
// edit resubmits the full record the way the form does.
func movieInputFromFlags(cmd *cli.Command, base *models.Movie) forms.MovieInput {
	var input forms.MovieInput

	if base != nil {
		input = forms.MovieInput{
			Title:            base.Title,
			OriginalTitle:    base.OriginalTitle,
			Subtitle:         base.Subtitle,
			ReleaseYear:      strconv.Itoa(base.ReleaseYear),
			TrailerYouTubeID: base.TrailerYouTubeID,
			Overview:         base.Overview,
			ContentRating:    string(base.ContentRating),
			Status:           string(base.Status),
			Approbation:      strconv.Itoa(base.Approbation),
		}
		if base.RuntimeMinutes != nil {
			input.RuntimeMinutes = strconv.Itoa(*base.RuntimeMinutes)
		}
		if base.Budget != nil {
			input.Budget = strconv.FormatInt(*base.Budget, 10)
		}
		if base.Revenue != nil {
			input.Revenue = strconv.FormatInt(*base.Revenue, 10)
		}
		if base.Profit != nil {
			input.Profit = strconv.FormatInt(*base.Profit, 10)
		}
		if base.Studio != nil {
			input.StudioID = base.Studio.ID
		}
		for _, g := range base.Genres {
			input.Genres = append(input.Genres, g.ID)
		}
	}

	set := func(flag string, dest *string) {
		if cmd.IsSet(flag) {
			*dest = cmd.String(flag)
		}
	}

	set("title", &input.Title)
	set("original-title", &input.OriginalTitle)
	set("subtitle", &input.Subtitle)
	set("year", &input.ReleaseYear)
	set("runtime", &input.RuntimeMinutes)
	set("budget", &input.Budget)
	set("revenue", &input.Revenue)
	set("profit", &input.Profit)
	set("rating", &input.ContentRating)
	set("status", &input.Status)
	set("studio", &input.StudioID)
	set("approbation", &input.Approbation)
	set("trailer", &input.TrailerYouTubeID)
	set("overview", &input.Overview)
	set("poster", &input.PosterPath)

	if cmd.IsSet("genre") {
		input.Genres = cmd.StringSlice("genre")
	}

	return input
}

func (r *Runner) reportFieldErrors(fieldErrs forms.FieldErrors) error {
	r.writePlain("✗ Validation failed:\n")
	for _, field := range []string{
		"title", "originalTitle", "releaseYear", "runtimeMinutes",
		"budget", "revenue", "profit", "contentRating", "status",
		"studioId", "approbation", "posterFile",
	} {
		if msg, ok := fieldErrs[field]; ok {
			r.writePlain("  %s: %s\n", field, msg)
		}
	}
	return fmt.Errorf("%w: %d invalid fields", shared.ErrValidation, len(fieldErrs))
}

// MoviesCreate creates a movie from flag values.
func (r *Runner) MoviesCreate(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	input := movieInputFromFlags(cmd, nil)
	payload, fieldErrs := input.Validate()
	if len(fieldErrs) > 0 {
		return r.reportFieldErrors(fieldErrs)
	}

	r.logger.Info("creating movie", "title", payload.Title)

	movie, err := r.catalog.CreateMovie(ctx, payload, input.PosterPath)
	if err != nil {
		return err
	}

	r.writePlain("✓ Created %q (%s)\n", movie.Title, movie.ID)
	return nil
}

// MoviesEdit updates a movie. The current record seeds the payload so unset
// flags keep their stored values.
func (r *Runner) MoviesEdit(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: movie ID is required", shared.ErrMissingArgument)
	}

	current, err := r.catalog.GetMovie(ctx, id)
	if err != nil {
		return err
	}

	input := movieInputFromFlags(cmd, current)
	payload, fieldErrs := input.Validate()
	if len(fieldErrs) > 0 {
		return r.reportFieldErrors(fieldErrs)
	}

	r.logger.Info("updating movie", "id", id, "title", payload.Title)

	movie, err := r.catalog.UpdateMovie(ctx, id, payload, cmd.String("poster"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Saved %q\n", movie.Title)
	return nil
}

// MoviesDelete removes a movie after confirmation.
func (r *Runner) MoviesDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: movie ID is required", shared.ErrMissingArgument)
	}

	movie, err := r.catalog.GetMovie(ctx, id)
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		r.writePlain("This will delete %q (%d).\n", movie.Title, movie.ReleaseYear)
		return r.writePlain("Re-run with --yes to confirm.\n")
	}

	r.logger.Info("deleting movie", "id", id, "title", movie.Title)

	if err := r.catalog.DeleteMovie(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Deleted %q\n", movie.Title)
	return nil
}

// MoviesExport walks the filtered listing and writes every page to disk.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	filters := filtersFromFlags(cmd)
	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate-limit"),
		PageSize:   r.pageSize(cmd),
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = r.config.API.RateLimit
	}

	r.logger.Info("starting export", "format", opts.Format)
	r.writePlain("Exporting movie listing...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchMovies:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportPages:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Export(ctx, progressCh, filters, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Movies:  %d across %d pages\n", result.TotalMovies, result.TotalPages)
	r.writePlain("Written: %d pages\n", result.SuccessfulExports)
	r.writePlain("Output:  %s\n", result.OutputDirectory)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d pages:\n", result.FailedExports)
		for _, page := range result.Results {
			if page.Error != nil {
				r.writePlain("  - page %d: %v\n", page.Page, page.Error)
			}
		}
	}

	return nil
}
