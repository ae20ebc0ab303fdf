// Auth API implementation of [Auth]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
)

// AuthService implements [Auth] against the catalog API's auth endpoints.
// Login and register are unauthenticated; no bearer token is attached.
type AuthService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthService creates an auth client for the given base URL.
func NewAuthService(baseURL string, client *http.Client) *AuthService {
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &AuthService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

func (s *AuthService) post(ctx context.Context, endpoint string, payload, result any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, &StatusError{Code: resp.StatusCode, Body: string(body)})
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Login exchanges credentials for tokens via POST /auth/login.
// A 401 here means bad credentials, not an expired session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	payload := map[string]string{"email": email, "password": password}

	var auth models.AuthResponse
	if err := s.post(ctx, "/auth/login", payload, &auth); err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: check email and password", shared.ErrAuthFailed)
		}
		return nil, err
	}

	if auth.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token in response", shared.ErrAuthFailed)
	}

	return &auth, nil
}

// Register creates a user via POST /auth/register.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}

	var user models.User
	if err := s.post(ctx, "/auth/register", payload, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
