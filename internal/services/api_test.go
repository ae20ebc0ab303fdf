package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			service := NewAPIService("", nil)
			if service.baseURL != "http://localhost:8080/api" {
				t.Errorf("expected default base URL, got %s", service.baseURL)
			}
			if service.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("With Custom Values", func(t *testing.T) {
			client := &http.Client{}
			service := NewAPIService("http://example.com", client)
			if service.baseURL != "http://example.com" {
				t.Errorf("expected custom base URL, got %s", service.baseURL)
			}
			if service.httpClient != client {
				t.Error("expected custom client to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/health" {
					t.Errorf("expected /health path, got %s", r.URL.Path)
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status": "ok"}`))
			}))
			defer server.Close()

			service := NewAPIService(server.URL, nil)
			resp, err := service.Get(context.Background(), "/health")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if !resp.IsJSON {
				t.Error("expected response to be JSON")
			}

			data, ok := resp.JSONData.(map[string]any)
			if !ok {
				t.Fatal("expected JSON object")
			}
			if data["status"] != "ok" {
				t.Errorf("unexpected JSON data: %v", data)
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("plain text"))
			}))
			defer server.Close()

			service := NewAPIService(server.URL, nil)
			resp, err := service.Get(context.Background(), "/anything")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected non-JSON response")
			}
			if string(resp.Body) != "plain text" {
				t.Errorf("unexpected body: %s", resp.Body)
			}
		})

		t.Run("With Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer raw-token" {
					t.Errorf("expected bearer header, got %q", got)
				}
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			service := NewAPIService(server.URL, nil)
			service.SetToken("raw-token")
			if _, err := service.Get(context.Background(), "/movies"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST method, got %s", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %s", ct)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "m1"}`))
		}))
		defer server.Close()

		service := NewAPIService(server.URL, nil)
		resp, err := service.Post(context.Background(), "/movies/create", []byte(`{"title": "Dune"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("expected status 201, got %d", resp.StatusCode)
		}
	})
}

func TestNormalizeList(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name  string
		data  string
		want  int
		first string
	}{
		{"bare array", `[{"name": "Drama"}, {"name": "Horror"}]`, 2, "Drama"},
		{"wrapped items", `{"items": [{"name": "Comedy"}]}`, 1, "Comedy"},
		{"empty array", `[]`, 0, ""},
		{"empty object", `{}`, 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := normalizeList[item]([]byte(tc.data))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(items) != tc.want {
				t.Errorf("expected %d items, got %d", tc.want, len(items))
			}
			if tc.want > 0 && items[0].Name != tc.first {
				t.Errorf("expected first item %s, got %s", tc.first, items[0].Name)
			}
		})
	}

	t.Run("invalid payload", func(t *testing.T) {
		if _, err := normalizeList[item]([]byte(`"nope"`)); err == nil {
			t.Error("expected an error for a non-list payload")
		}
	})
}
