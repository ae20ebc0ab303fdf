// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/mvx/internal/forms"
	"github.com/desertthunder/mvx/internal/models"
)

// MockCatalog is a test double for [services.Catalog]. Zero value returns empty
// results; set the fields to script responses or failures.
type MockCatalog struct {
	Movies  []models.Movie
	Movie   *models.Movie
	Studios []models.Studio
	Genres  []models.Genre
	Err     error

	ListCalls   int
	LastFilters models.MovieFilters
	LastPage    int
	Deleted     []string
}

func (m *MockCatalog) ListMovies(ctx context.Context, filters models.MovieFilters, page, pageSize int) (*models.MoviePage, error) {
	m.ListCalls++
	m.LastFilters = filters
	m.LastPage = page
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.MoviePage{Items: m.Movies, Total: len(m.Movies)}, nil
}

func (m *MockCatalog) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Movie != nil {
		return m.Movie, nil
	}
	return &models.Movie{ID: id}, nil
}

func (m *MockCatalog) CreateMovie(ctx context.Context, payload *forms.MoviePayload, posterPath string) (*models.Movie, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Movie{ID: "created", Title: payload.Title}, nil
}

func (m *MockCatalog) UpdateMovie(ctx context.Context, id string, payload *forms.MoviePayload, posterPath string) (*models.Movie, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Movie{ID: id, Title: payload.Title}, nil
}

func (m *MockCatalog) DeleteMovie(ctx context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *MockCatalog) ListStudios(ctx context.Context) ([]models.Studio, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Studios, nil
}

func (m *MockCatalog) ListGenres(ctx context.Context) ([]models.Genre, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Genres, nil
}

// MockAuth is a test double for [services.Auth].
type MockAuth struct {
	Response *models.AuthResponse
	User     *models.User
	Err      error
}

func (m *MockAuth) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Response != nil {
		return m.Response, nil
	}
	return &models.AuthResponse{
		User:        models.User{ID: "u1", Name: "Test User", Email: email},
		AccessToken: "test-token",
	}, nil
}

func (m *MockAuth) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.User != nil {
		return m.User, nil
	}
	return &models.User{ID: "u1", Name: name, Email: email}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
