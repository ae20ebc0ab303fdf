package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
)

func TestAuthService(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}

				var creds map[string]string
				if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
					t.Fatalf("failed to decode credentials: %v", err)
				}
				if creds["email"] != "admin@example.com" || creds["password"] != "hunter2" {
					t.Errorf("unexpected credentials: %v", creds)
				}

				json.NewEncoder(w).Encode(models.AuthResponse{
					User:        models.User{ID: "u1", Name: "Admin", Email: "admin@example.com"},
					AccessToken: "token-abc",
				})
			}))
			defer server.Close()

			srv := NewAuthService(server.URL, nil)
			auth, err := srv.Login(context.Background(), "admin@example.com", "hunter2")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if auth.AccessToken != "token-abc" || auth.User.Name != "Admin" {
				t.Errorf("unexpected auth response: %+v", auth)
			}
		})

		t.Run("bad credentials", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			srv := NewAuthService(server.URL, nil)
			_, err := srv.Login(context.Background(), "admin@example.com", "wrong")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("missing access token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(models.AuthResponse{})
			}))
			defer server.Close()

			srv := NewAuthService(server.URL, nil)
			_, err := srv.Login(context.Background(), "admin@example.com", "hunter2")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("server error is not mapped to auth failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			srv := NewAuthService(server.URL, nil)
			_, err := srv.Login(context.Background(), "admin@example.com", "hunter2")
			if errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected a plain API error, got %v", err)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/register" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}

				var body map[string]string
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if body["name"] != "New User" {
					t.Errorf("unexpected body: %v", body)
				}

				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(models.User{ID: "u2", Name: "New User", Email: "new@example.com"})
			}))
			defer server.Close()

			srv := NewAuthService(server.URL, nil)
			user, err := srv.Register(context.Background(), "New User", "new@example.com", "hunter2")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.ID != "u2" {
				t.Errorf("unexpected user: %+v", user)
			}
		})

		t.Run("conflict", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
			}))
			defer server.Close()

			srv := NewAuthService(server.URL, nil)
			_, err := srv.Register(context.Background(), "New User", "new@example.com", "hunter2")

			var se *StatusError
			if !errors.As(err, &se) || se.Code != http.StatusConflict {
				t.Errorf("expected 409 status error, got %v", err)
			}
		})
	})
}
