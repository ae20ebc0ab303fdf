// package tasks implements long-running catalog operations.
//
// The core abstraction is Engine, which orchestrates bulk listing exports and
// API state dumps. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/shared"
)

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// DumpResult contains all data fetched from the catalog API.
type DumpResult struct {
	Health  any              // Health status
	Movies  any              // First page of the movie listing
	Studios any              // Studio reference list
	Genres  any              // Genre reference list
	Errors  []EndpointResult // Failed endpoint fetches
}

// DumpData is the JSON shape written by `mvx api dump`.
type DumpData struct {
	Health  any   `json:"health"`
	Movies  any   `json:"movies,omitempty"`
	Studios any   `json:"studios,omitempty"`
	Genres  any   `json:"genres,omitempty"`
	Errors  []any `json:"errors,omitempty"`
}

type endpointOperation struct {
	name    string
	path    string
	target  *any
	phase   Phase
	message string
}

// Engine defines the long-running catalog operations.
type Engine interface {
	// Export walks the filtered movie listing page by page and writes every
	// page to disk in the configured format.
	Export(ctx context.Context, progress chan<- ProgressUpdate, filters models.MovieFilters, opts ExportOpts) (*ExportResult, error)

	// Dump fetches debugging state from the catalog API: health, the first
	// listing page, and both reference lists.
	Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error)
}

// CatalogEngine implements Engine against the catalog API.
type CatalogEngine struct {
	catalog services.Catalog
	api     APIClient
}

// APIClient defines the interface for making raw API requests.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// NewCatalogEngine creates a new CatalogEngine with the provided dependencies.
func NewCatalogEngine(catalog services.Catalog, api APIClient) *CatalogEngine {
	return &CatalogEngine{
		catalog: catalog,
		api:     api,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Dump fetches health, movies, studios, and genres from the catalog API.
// Endpoint failures are collected per endpoint rather than aborting the dump.
func (e *CatalogEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{}

	operations := []endpointOperation{
		{name: "health", path: "/health", target: &result.Health, phase: FetchHealth, message: "Checking API health..."},
		{name: "movies", path: "/movies?page=1&pageSize=10", target: &result.Movies, phase: FetchMovies, message: "Fetching movie listing..."},
		{name: "studios", path: "/studios", target: &result.Studios, phase: FetchStudios, message: "Fetching studios..."},
		{name: "genres", path: "/genres", target: &result.Genres, phase: FetchGenres, message: "Fetching genres..."},
	}

	total := len(operations)
	for i, op := range operations {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, operationUpdate(op, i+1, total))

		resp, err := e.api.Get(ctx, op.path)
		if err != nil {
			result.Errors = append(result.Errors, EndpointResult{Endpoint: op.name, Error: err})
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: op.name,
				Error:    fmt.Errorf("unexpected status %d", resp.StatusCode),
			})
			continue
		}

		if resp.IsJSON {
			*op.target = resp.JSONData
		} else {
			*op.target = string(resp.Body)
		}
	}

	return result, nil
}

// Data converts a DumpResult to its JSON shape.
func (r *DumpResult) Data() DumpData {
	data := DumpData{
		Health:  r.Health,
		Movies:  r.Movies,
		Studios: r.Studios,
		Genres:  r.Genres,
	}
	for _, e := range r.Errors {
		data.Errors = append(data.Errors, map[string]string{
			"endpoint": e.Endpoint,
			"error":    e.Error.Error(),
		})
	}
	return data
}
