// package services defines interfaces and REST clients for the external catalog API
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/mvx/internal/forms"
	"github.com/desertthunder/mvx/internal/models"
)

// Catalog defines the movie catalog operations provided by the external API.
type Catalog interface {
	// ListMovies retrieves one page of a filtered movie listing.
	ListMovies(ctx context.Context, filters models.MovieFilters, page, pageSize int) (*models.MoviePage, error)

	// GetMovie retrieves a single movie by ID.
	GetMovie(ctx context.Context, id string) (*models.Movie, error)

	// CreateMovie creates a movie. When posterPath is non-empty the payload and
	// poster binary are sent as one multipart request; otherwise plain JSON.
	CreateMovie(ctx context.Context, payload *forms.MoviePayload, posterPath string) (*models.Movie, error)

	// UpdateMovie updates an existing movie, with the same poster semantics as CreateMovie.
	UpdateMovie(ctx context.Context, id string, payload *forms.MoviePayload, posterPath string) (*models.Movie, error)

	// DeleteMovie removes a movie by ID.
	DeleteMovie(ctx context.Context, id string) error

	// ListStudios retrieves the read-only studio reference list.
	ListStudios(ctx context.Context) ([]models.Studio, error)

	// ListGenres retrieves the read-only genre reference list.
	ListGenres(ctx context.Context) ([]models.Genre, error)
}

// Auth defines the authentication operations provided by the external API.
type Auth interface {
	// Login exchanges credentials for an access token and user identity.
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)

	// Register creates a new catalog user.
	Register(ctx context.Context, name, email, password string) (*models.User, error)
}

// StatusError is returned (wrapped) when the API answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// normalizeList decodes a reference-data response that is either a bare JSON
// array or an object wrapping the array in an "items" field. The original API
// is inconsistent between the two shapes, so the normalization lives here, at
// the boundary, instead of at every call site.
func normalizeList[T any](data []byte) ([]T, error) {
	var bare []T
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}

	var wrapped struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}
	return wrapped.Items, nil
}
