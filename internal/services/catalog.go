// Catalog API implementation of [Catalog]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/desertthunder/mvx/internal/forms"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
	"golang.org/x/oauth2"
)

// CatalogService implements [Catalog] against the external catalog REST API.
//
// Authenticated requests carry a bearer token injected by an [oauth2]
// transport. A 401 from any endpoint fires the unauthorized hook exactly once
// per occurrence and surfaces [shared.ErrSessionExpired]; per-call-site 401
// handling is deliberately absent.
type CatalogService struct {
	baseURL        string
	httpClient     *http.Client
	token          *oauth2.Token
	onUnauthorized func()
}

// NewCatalogService creates a catalog client for the given base URL.
func NewCatalogService(baseURL string, client *http.Client) *CatalogService {
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &CatalogService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// SetToken installs the session's bearer token. Subsequent requests go through
// an [oauth2.Transport] that adds the Authorization header.
func (s *CatalogService) SetToken(ctx context.Context, token *oauth2.Token) {
	s.token = token
	if token != nil {
		s.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	}
}

// ClearToken drops the bearer token, reverting to unauthenticated requests.
func (s *CatalogService) ClearToken() {
	s.token = nil
	s.httpClient = http.DefaultClient
}

// Authenticated reports whether a bearer token is installed.
func (s *CatalogService) Authenticated() bool {
	return s.token != nil && s.token.AccessToken != ""
}

// OnUnauthorized registers the hook fired when the API answers 401.
// The session layer uses it to clear the stored session.
func (s *CatalogService) OnUnauthorized(fn func()) {
	s.onUnauthorized = fn
}

// doRequest performs an HTTP request against the catalog API and decodes a
// JSON response into result when result is non-nil.
func (s *CatalogService) doRequest(ctx context.Context, method, endpoint string, query url.Values, body io.Reader, contentType string, result any) error {
	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if s.onUnauthorized != nil {
			s.onUnauthorized()
		}
		return fmt.Errorf("%w: %s %s", shared.ErrSessionExpired, method, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, &StatusError{Code: resp.StatusCode, Body: string(data)})
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ListMovies retrieves one page of the filtered listing. Filters are
// normalized (clamped, ordered) before they reach the wire.
func (s *CatalogService) ListMovies(ctx context.Context, filters models.MovieFilters, page, pageSize int) (*models.MoviePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	query := filterQuery(filters.Normalize())
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var listing models.MoviePage
	if err := s.doRequest(ctx, http.MethodGet, "/movies", query, nil, "", &listing); err != nil {
		return nil, err
	}

	return &listing, nil
}

// GetMovie retrieves a single movie by ID.
func (s *CatalogService) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	var movie models.Movie
	err := s.doRequest(ctx, http.MethodGet, "/movies/"+url.PathEscape(id), nil, nil, "", &movie)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
		}
		return nil, err
	}
	return &movie, nil
}

// CreateMovie creates a movie via POST /movies/create.
func (s *CatalogService) CreateMovie(ctx context.Context, payload *forms.MoviePayload, posterPath string) (*models.Movie, error) {
	return s.submitMovie(ctx, http.MethodPost, "/movies/create", payload, posterPath)
}

// UpdateMovie updates a movie via PUT /movies/{id}.
func (s *CatalogService) UpdateMovie(ctx context.Context, id string, payload *forms.MoviePayload, posterPath string) (*models.Movie, error) {
	return s.submitMovie(ctx, http.MethodPut, "/movies/"+url.PathEscape(id), payload, posterPath)
}

// submitMovie sends payload as JSON, or as multipart form data when a poster
// file accompanies it: the scalar fields travel in a single JSON-encoded
// "data" field and the binary in a "poster" field.
func (s *CatalogService) submitMovie(ctx context.Context, method, endpoint string, payload *forms.MoviePayload, posterPath string) (*models.Movie, error) {
	var body io.Reader
	var contentType string

	if posterPath != "" {
		buf, ct, err := buildMovieForm(payload, posterPath)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	} else {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	var movie models.Movie
	if err := s.doRequest(ctx, method, endpoint, nil, body, contentType, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// DeleteMovie removes a movie. The API answers 204 on success.
func (s *CatalogService) DeleteMovie(ctx context.Context, id string) error {
	err := s.doRequest(ctx, http.MethodDelete, "/movies/"+url.PathEscape(id), nil, nil, "", nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
		}
		return err
	}
	return nil
}

// ListStudios retrieves the studio reference list, accepting either response shape.
func (s *CatalogService) ListStudios(ctx context.Context) ([]models.Studio, error) {
	var raw json.RawMessage
	if err := s.doRequest(ctx, http.MethodGet, "/studios", nil, nil, "", &raw); err != nil {
		return nil, err
	}
	return normalizeList[models.Studio](raw)
}

// ListGenres retrieves the genre reference list, accepting either response shape.
func (s *CatalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var raw json.RawMessage
	if err := s.doRequest(ctx, http.MethodGet, "/genres", nil, nil, "", &raw); err != nil {
		return nil, err
	}
	return normalizeList[models.Genre](raw)
}

// filterQuery converts normalized filters to listing query parameters,
// omitting unset fields entirely.
func filterQuery(f models.MovieFilters) url.Values {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.StartYear != nil {
		q.Set("startYear", strconv.Itoa(*f.StartYear))
	}
	if f.EndYear != nil {
		q.Set("endYear", strconv.Itoa(*f.EndYear))
	}
	if f.RuntimeMin != nil {
		q.Set("runtimeMin", strconv.Itoa(*f.RuntimeMin))
	}
	if f.RuntimeMax != nil {
		q.Set("runtimeMax", strconv.Itoa(*f.RuntimeMax))
	}
	if f.StudioID != "" {
		q.Set("studioId", f.StudioID)
	}
	if f.GenreID != "" {
		q.Set("genreId", f.GenreID)
	}
	return q
}

// buildMovieForm assembles the multipart body for poster submissions.
func buildMovieForm(payload *forms.MoviePayload, posterPath string) (*bytes.Buffer, string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("data", string(data)); err != nil {
		return nil, "", fmt.Errorf("failed to write data field: %w", err)
	}

	f, err := os.Open(posterPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open poster: %w", err)
	}
	defer f.Close()

	part, err := w.CreateFormFile("poster", filepath.Base(posterPath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create poster field: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("failed to copy poster: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
