// Package session persists the markers that keep a signed-in session alive.
// A token is honored only while its marker exists; signing out deletes it.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Store maps a session id to the user it belongs to.
type Store interface {
	Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
