package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/mvx/internal/forms"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
	"golang.org/x/oauth2"
)

func testPayload() *forms.MoviePayload {
	return &forms.MoviePayload{
		Title:         "Dune",
		OriginalTitle: "Dune",
		ReleaseYear:   2021,
		ContentRating: models.RatingAllAges,
		Status:        models.StatusReleased,
		StudioID:      "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		Approbation:   84,
	}
}

func TestCatalogService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewCatalogService("", nil)
			if srv.baseURL != "http://localhost:8080/api" {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("With Custom Client", func(t *testing.T) {
			client := &http.Client{}
			srv := NewCatalogService("http://example.com", client)
			if srv.httpClient != client {
				t.Error("expected custom client to be used")
			}
		})
	})

	t.Run("ListMovies", func(t *testing.T) {
		t.Run("sends filters and pagination as query params", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/movies" {
					t.Errorf("expected path /movies, got %s", r.URL.Path)
				}

				q := r.URL.Query()
				if q.Get("q") != "dune" {
					t.Errorf("expected q=dune, got %s", q.Get("q"))
				}
				if q.Get("startYear") != "2000" || q.Get("endYear") != "2021" {
					t.Errorf("unexpected year range: %s-%s", q.Get("startYear"), q.Get("endYear"))
				}
				if q.Get("page") != "2" || q.Get("pageSize") != "10" {
					t.Errorf("unexpected pagination: page=%s pageSize=%s", q.Get("page"), q.Get("pageSize"))
				}

				json.NewEncoder(w).Encode(models.MoviePage{
					Items: []models.Movie{{ID: "m1", Title: "Dune"}},
					Total: 11,
				})
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, nil)
			start, end := 2000, 2021
			page, err := srv.ListMovies(context.Background(), models.MovieFilters{
				Query:     "dune",
				StartYear: &start,
				EndYear:   &end,
			}, 2, 10)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if page.Total != 11 || len(page.Items) != 1 {
				t.Errorf("unexpected page: %+v", page)
			}
		})

		t.Run("normalizes inverted and out-of-range filters", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				// 1700 clamps to 1888, and the inverted range is swapped.
				if q.Get("startYear") != "1888" {
					t.Errorf("expected startYear=1888, got %s", q.Get("startYear"))
				}
				if q.Get("endYear") != "2020" {
					t.Errorf("expected endYear=2020, got %s", q.Get("endYear"))
				}
				json.NewEncoder(w).Encode(models.MoviePage{})
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, nil)
			start, end := 2020, 1700
			if _, err := srv.ListMovies(context.Background(), models.MovieFilters{StartYear: &start, EndYear: &end}, 1, 10); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("omits unset filters", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				for _, key := range []string{"q", "startYear", "endYear", "runtimeMin", "runtimeMax", "studioId", "genreId"} {
					if q.Has(key) {
						t.Errorf("expected %s to be omitted", key)
					}
				}
				json.NewEncoder(w).Encode(models.MoviePage{})
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, nil)
			if _, err := srv.ListMovies(context.Background(), models.MovieFilters{}, 1, 10); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("GetMovie", func(t *testing.T) {
		t.Run("found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/movies/m1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(models.Movie{ID: "m1", Title: "Dune"})
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, nil)
			movie, err := srv.GetMovie(context.Background(), "m1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if movie.Title != "Dune" {
				t.Errorf("unexpected movie: %+v", movie)
			}
		})

		t.Run("not found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, nil)
			_, err := srv.GetMovie(context.Background(), "missing")
			if !errors.Is(err, shared.ErrMovieNotFound) {
				t.Errorf("expected ErrMovieNotFound, got %v", err)
			}
		})
	})

	t.Run("CreateMovie", func(t *testing.T) {
		t.Run("without poster sends one JSON POST", func(t *testing.T) {
			requests := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				if r.Method != http.MethodPost || r.URL.Path != "/movies/create" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("expected application/json, got %s", ct)
				}

				var body map[string]any
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if body["title"] != "Dune" || body["releaseYear"] != float64(2021) {
					t.Errorf("unexpected body: %v", body)
				}
				if body["approbation"] != float64(84) {
					t.Errorf("unexpected approbation: %v", body["approbation"])
				}
				for _, absent := range []string{"budget", "revenue", "profit"} {
					if _, ok := body[absent]; ok {
						t.Errorf("expected %s to be absent", absent)
					}
				}

				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(models.Movie{ID: "m-new", Title: "Dune"})
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, nil)
			movie, err := srv.CreateMovie(context.Background(), testPayload(), "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if movie.ID != "m-new" {
				t.Errorf("unexpected movie: %+v", movie)
			}
			if requests != 1 {
				t.Errorf("expected exactly one request, got %d", requests)
			}
		})

		t.Run("with poster sends multipart", func(t *testing.T) {
			posterPath := filepath.Join(t.TempDir(), "poster.png")
			if err := os.WriteFile(posterPath, []byte{0x89, 'P', 'N', 'G'}, 0644); err != nil {
				t.Fatalf("failed to write poster: %v", err)
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					t.Fatalf("expected multipart form: %v", err)
				}

				var payload forms.MoviePayload
				if err := json.Unmarshal([]byte(r.FormValue("data")), &payload); err != nil {
					t.Fatalf("failed to decode data field: %v", err)
				}
				if payload.Title != "Dune" {
					t.Errorf("unexpected payload: %+v", payload)
				}

				file, header, err := r.FormFile("poster")
				if err != nil {
					t.Fatalf("expected poster file: %v", err)
				}
				file.Close()
				if header.Filename != "poster.png" {
					t.Errorf("unexpected filename %s", header.Filename)
				}

				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(models.Movie{ID: "m-new"})
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, nil)
			if _, err := srv.CreateMovie(context.Background(), testPayload(), posterPath); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("UpdateMovie", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/movies/m1" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			json.NewEncoder(w).Encode(models.Movie{ID: "m1", Title: "Dune: Part Two"})
		}))
		defer server.Close()

		srv := NewCatalogService(server.URL, nil)
		movie, err := srv.UpdateMovie(context.Background(), "m1", testPayload(), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if movie.Title != "Dune: Part Two" {
			t.Errorf("unexpected movie: %+v", movie)
		}
	})

	t.Run("DeleteMovie", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/movies/m1" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		srv := NewCatalogService(server.URL, nil)
		if err := srv.DeleteMovie(context.Background(), "m1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("ListStudios", func(t *testing.T) {
		t.Run("bare array response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode([]models.Studio{{ID: "s1", Name: "Warner Bros"}})
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, nil)
			studios, err := srv.ListStudios(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(studios) != 1 || studios[0].Name != "Warner Bros" {
				t.Errorf("unexpected studios: %+v", studios)
			}
		})

		t.Run("wrapped items response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"items": []models.Studio{{ID: "s1", Name: "A24"}},
				})
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, nil)
			studios, err := srv.ListStudios(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(studios) != 1 || studios[0].Name != "A24" {
				t.Errorf("unexpected studios: %+v", studios)
			}
		})
	})

	t.Run("ListGenres", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"items": []models.Genre{{ID: "g1", Name: "Drama"}, {ID: "g2", Name: "Science Fiction"}},
			})
		}))
		defer server.Close()

		srv := NewCatalogService(server.URL, nil)
		genres, err := srv.ListGenres(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(genres) != 2 || genres[1].Name != "Science Fiction" {
			t.Errorf("unexpected genres: %+v", genres)
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		srv := NewCatalogService(server.URL, nil)
		hookFired := false
		srv.OnUnauthorized(func() { hookFired = true })

		_, err := srv.ListMovies(context.Background(), models.MovieFilters{}, 1, 10)
		if !errors.Is(err, shared.ErrSessionExpired) {
			t.Errorf("expected ErrSessionExpired, got %v", err)
		}
		if !hookFired {
			t.Error("expected unauthorized hook to fire")
		}
	})

	t.Run("SetToken attaches bearer header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
				t.Errorf("expected bearer header, got %q", got)
			}
			json.NewEncoder(w).Encode(models.MoviePage{})
		}))
		defer server.Close()

		srv := NewCatalogService(server.URL, nil)
		srv.SetToken(context.Background(), &oauth2.Token{AccessToken: "token-123"})

		if !srv.Authenticated() {
			t.Error("expected service to report authenticated")
		}
		if _, err := srv.ListMovies(context.Background(), models.MovieFilters{}, 1, 10); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		srv.ClearToken()
		if srv.Authenticated() {
			t.Error("expected service to report unauthenticated after ClearToken")
		}
	})
}
