// Package session remembers who is signed in to the CLI.
//
// A session records the backend user id (and, when the backend issued one,
// an access token sent with mutation requests). The collection view uses
// the user id only to decide whether a collection is the viewer's own; the
// edit workflow uses it as the artist id of newly registered songs.
//
// # Usage
//
//	store, err := session.NewCLIStore("") // ~/.config/setlist/sessions/
//	sess, err := session.New(42, "mina", token, session.DefaultTTL)
//	err = store.SaveSession(ctx, sess)
//
//	sess, err = store.GetSession(ctx) // nil, nil when signed out or expired
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strconv"
	"time"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// Session stores the signed-in user.
type Session struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	AccessToken string    `json:"access_token,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// CurrentUserID returns the user id in the backend's path form, or "" for a
// nil session. It is compared against collection owner ids.
func (s *Session) CurrentUserID() string {
	if s == nil || s.UserID <= 0 {
		return ""
	}
	return strconv.FormatInt(s.UserID, 10)
}

// UserIDHeader names the signed-in user on backend requests.
const UserIDHeader = "X-User-Id"

// Headers returns the request headers that identify this session.
func (s *Session) Headers() map[string]string {
	if s == nil || s.UserID <= 0 {
		return nil
	}
	h := map[string]string{UserIDHeader: s.CurrentUserID()}
	if s.AccessToken != "" {
		h["Authorization"] = "Bearer " + s.AccessToken
	}
	return h
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// DefaultTTL is the default session duration.
const DefaultTTL = 30 * 24 * time.Hour

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// New creates a session for the given user.
func New(userID int64, userName, accessToken string, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:          id,
		UserID:      userID,
		UserName:    userName,
		AccessToken: accessToken,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}, nil
}
