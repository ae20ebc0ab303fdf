package models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the locally persisted login session: the authenticated user's
// identity plus the bearer tokens issued by the catalog API.
type Session struct {
	id           string
	sequence     int
	userID       string
	userName     string
	userEmail    string
	accessToken  string
	refreshToken string
	expiresAt    *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewSession creates a Session for the given auth response.
//
// The access token's expiry is read from its registered JWT claims when the
// token parses as a JWT; the client never verifies the signature (it does not
// hold the signing key), it only inspects the expiry to avoid sending requests
// that are guaranteed to 401.
func NewSession(sequence int, user User, accessToken, refreshToken string) *Session {
	now := time.Now()
	s := &Session{
		sequence:     sequence,
		userID:       user.ID,
		userName:     user.Name,
		userEmail:    user.Email,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		createdAt:    now,
		updatedAt:    now,
	}
	s.expiresAt = tokenExpiry(accessToken)
	return s
}

// tokenExpiry extracts the exp claim from a JWT access token without verifying it.
// Returns nil for opaque tokens or tokens without an expiry.
func tokenExpiry(token string) *time.Time {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	t := claims.ExpiresAt.Time
	return &t
}

func (s *Session) ID() string            { return s.id }
func (s *Session) Sequence() int         { return s.sequence }
func (s *Session) UserID() string        { return s.userID }
func (s *Session) UserName() string      { return s.userName }
func (s *Session) UserEmail() string     { return s.userEmail }
func (s *Session) AccessToken() string   { return s.accessToken }
func (s *Session) RefreshToken() string  { return s.refreshToken }
func (s *Session) ExpiresAt() *time.Time { return s.expiresAt }
func (s *Session) CreatedAt() time.Time  { return s.createdAt }
func (s *Session) UpdatedAt() time.Time  { return s.updatedAt }
func (s *Session) DeletedAt() *time.Time { return s.deletedAt }

func (s *Session) SetID(id string)               { s.id = id }
func (s *Session) SetSequence(n int)             { s.sequence = n }
func (s *Session) SetCreatedAt(t time.Time)      { s.createdAt = t }
func (s *Session) SetUpdatedAt(t time.Time)      { s.updatedAt = t }
func (s *Session) SetDeletedAt(t *time.Time)     { s.deletedAt = t }
func (s *Session) SetExpiresAt(t *time.Time)     { s.expiresAt = t }
func (s *Session) SetAccessToken(token string)   { s.accessToken = token; s.expiresAt = tokenExpiry(token) }
func (s *Session) SetRefreshToken(token string)  { s.refreshToken = token }

// User reconstructs the User DTO stored in this session.
func (s *Session) User() User {
	return User{ID: s.userID, Name: s.userName, Email: s.userEmail}
}

// Expired reports whether the access token has a known expiry in the past.
func (s *Session) Expired() bool {
	return s.expiresAt != nil && time.Now().After(*s.expiresAt)
}

// Validate checks that the session carries a user identity and an access token.
func (s *Session) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("session user ID is required")
	}
	if s.userEmail == "" {
		return fmt.Errorf("session user email is required")
	}
	if s.accessToken == "" {
		return fmt.Errorf("session access token is required")
	}
	return nil
}
