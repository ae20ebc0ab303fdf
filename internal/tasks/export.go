package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/mvx/internal/formatter"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/paging"
	"github.com/desertthunder/mvx/internal/shared"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for bulk listing exports.
type ExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: catalog_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
	PageSize   int     // Listing page size (default: paging.DefaultPageSize)
}

// PageExportJob is one fetched listing page queued for writing.
type PageExportJob struct {
	Page   int
	Export *models.CatalogExport
}

// PageExportResult is the outcome of writing one listing page.
type PageExportResult struct {
	Page    int
	Name    string
	Success bool
	Files   []string
	Error   error
}

// ExportResult summarizes a full listing export.
type ExportResult struct {
	TotalPages        int
	TotalMovies       int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []PageExportResult
}

// Export walks the filtered movie listing and writes every page to disk.
//
// Pages are fetched sequentially under a rate limiter and written by a worker
// pool. Partial failures are recorded per page rather than aborting the run,
// and a manifest file summarizing the export is written last.
func (e *CatalogEngine) Export(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	filters models.MovieFilters,
	opts ExportOpts,
) (*ExportResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("catalog_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.PageSize <= 0 {
		opts.PageSize = paging.DefaultPageSize
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(prog, fetchingPageUpdate(1, 1))

	first, err := e.catalog.ListMovies(ctx, filters, 1, opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	pageCount := paging.PageCount(first.Total, opts.PageSize)
	label := filtersLabel(filters)

	result := &ExportResult{
		TotalPages:      pageCount,
		TotalMovies:     first.Total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]PageExportResult, 0, pageCount),
	}

	e.sendProgress(prog, listingSizeUpdate(pageCount, first.Total))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan PageExportJob, pageCount)
	results := make(chan PageExportResult, pageCount)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		jobs <- PageExportJob{Page: 1, Export: pageExport(1, label, first.Items)}

		for page := 2; page <= pageCount; page++ {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			e.sendProgress(prog, fetchingPageUpdate(page, pageCount))

			listing, err := e.catalog.ListMovies(ctx, filters, page, opts.PageSize)
			if err != nil {
				results <- PageExportResult{
					Page:    page,
					Name:    pageName(page),
					Success: false,
					Error:   fmt.Errorf("failed to fetch page: %w", err),
				}
				continue
			}

			jobs <- PageExportJob{Page: page, Export: pageExport(page, label, listing.Items)}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, pageCount, res.Name, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, pageCount, res.Name, res.Error))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Page < result.Results[j].Page
	})

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that writes listing pages from the jobs channel.
func (e *CatalogEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan PageExportJob,
	results chan<- PageExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportSinglePage(job, opts)
	}
}

// exportSinglePage writes a single listing page in the appropriate format.
func exportSinglePage(j PageExportJob, opts ExportOpts) PageExportResult {
	result := PageExportResult{
		Page:    j.Page,
		Name:    j.Export.Name,
		Success: false,
		Files:   []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.Export.Name)
		csvRes, err := formatter.WriteCSVExport(j.Export, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.MoviesFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, j.Export.Name)
		mdRes, err := formatter.WriteMarkdownExport(j.Export, outputDir, "")
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_movies.txt", j.Export.Name))
		written, err := formatter.WriteTextExport(j.Export, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{written}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.Export.Name))
		data, err := shared.MarshalJSON(j.Export, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}

func pageExport(page int, label string, movies []models.Movie) *models.CatalogExport {
	return &models.CatalogExport{
		Name:    pageName(page),
		Filters: label,
		Movies:  movies,
	}
}

func pageName(page int) string {
	return fmt.Sprintf("page_%03d", page)
}

// filtersLabel renders active filters as a stable human-readable string for
// export metadata, e.g. "q=dune startYear=2000".
func filtersLabel(f models.MovieFilters) string {
	f = f.Normalize()

	var parts []string
	if f.Query != "" {
		parts = append(parts, "q="+f.Query)
	}
	if f.StartYear != nil {
		parts = append(parts, fmt.Sprintf("startYear=%d", *f.StartYear))
	}
	if f.EndYear != nil {
		parts = append(parts, fmt.Sprintf("endYear=%d", *f.EndYear))
	}
	if f.RuntimeMin != nil {
		parts = append(parts, fmt.Sprintf("runtimeMin=%d", *f.RuntimeMin))
	}
	if f.RuntimeMax != nil {
		parts = append(parts, fmt.Sprintf("runtimeMax=%d", *f.RuntimeMax))
	}
	if f.StudioID != "" {
		parts = append(parts, "studioId="+f.StudioID)
	}
	if f.GenreID != "" {
		parts = append(parts, "genreId="+f.GenreID)
	}
	return strings.Join(parts, " ")
}

type manifestData struct {
	Format            string             `json:"format"`
	TotalPages        int                `json:"total_pages"`
	TotalMovies       int                `json:"total_movies"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	OutputDirectory   string             `json:"output_directory"`
	Pages             []manifestPageData `json:"pages"`
}

type manifestPageData struct {
	Page    int      `json:"page"`
	Name    string   `json:"name"`
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func writeManifest(result *ExportResult, format, path string) error {
	if format == "" {
		format = "json"
	}

	manifest := manifestData{
		Format:            format,
		TotalPages:        result.TotalPages,
		TotalMovies:       result.TotalMovies,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		OutputDirectory:   result.OutputDirectory,
	}
	for _, res := range result.Results {
		page := manifestPageData{
			Page:    res.Page,
			Name:    res.Name,
			Success: res.Success,
			Files:   res.Files,
		}
		if res.Error != nil {
			page.Error = res.Error.Error()
		}
		manifest.Pages = append(manifest.Pages, page)
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
