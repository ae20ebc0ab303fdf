package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchHealth Phase = iota
	FetchMovies
	FetchStudios
	FetchGenres
	ExportPages
)

func (p Phase) String() string {
	switch p {
	case FetchHealth:
		return "fetch_health"
	case FetchMovies:
		return "fetch_movies"
	case FetchStudios:
		return "fetch_studios"
	case FetchGenres:
		return "fetch_genres"
	case ExportPages:
		return "export_pages"
	default:
		return ""
	}
}

func operationUpdate(endpoint endpointOperation, step int, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   endpoint.phase,
		Step:    step,
		Total:   total,
		Message: endpoint.message,
	}
}

func listingSizeUpdate(pageCount, totalMovies int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMovies,
		Step:    1,
		Total:   pageCount,
		Message: fmt.Sprintf("Found %d movies across %d pages", totalMovies, pageCount),
	}
}

func fetchingPageUpdate(page, pageCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMovies,
		Step:    page,
		Total:   pageCount,
		Message: fmt.Sprintf("[%d/%d] Fetching page...", page, pageCount),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
