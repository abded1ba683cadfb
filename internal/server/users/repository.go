package users

import (
	"context"
	"errors"
)

// ErrDuplicateExternalID reports that an insert lost the race against a
// concurrent first-seen request for the same external id. The resolver
// recovers by re-fetching; it never reaches a caller.
var ErrDuplicateExternalID = errors.New("external id already registered")

type Repository interface {
	// Create inserts a new user. Returns ErrDuplicateExternalID when the
	// external id is already present.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByExternalID returns common.ErrNotFound for an unknown id.
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
}
