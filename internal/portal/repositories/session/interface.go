// Package session persists the authenticated-session record across process
// restarts. The database holds at most one record; it is saved whole after
// every state change and restored whole on startup.
package session

import (
	"context"

	"github.com/cdcsn/portal/internal/portal/models"
)

// Record is the durable subset of the session state.
type Record struct {
	Token           string       `json:"token,omitempty"`
	User            *models.User `json:"user,omitempty"`
	IsAuthenticated bool         `json:"is_authenticated"`
}

// Repository stores and retrieves the single session record.
type Repository interface {
	// Load returns the persisted record, or a zero Record when none exists.
	Load(ctx context.Context) (Record, error)

	// Save replaces the persisted record.
	Save(ctx context.Context, rec Record) error

	// Clear removes the persisted record.
	Clear(ctx context.Context) error
}
