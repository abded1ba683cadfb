package notes

import "context"

// Repository persists ciphertext envelopes. Every method scopes by the
// owning user id in the query itself; there is no way to address another
// user's rows through this interface.
type Repository interface {
	Create(ctx context.Context, note *Note) (*Note, error)
	GetByID(ctx context.Context, userID, noteID string) (*Note, error)

	// List returns the user's notes, newest first. A non-empty tag
	// restricts the result to notes carrying it.
	List(ctx context.Context, userID, tag string) ([]*Note, error)

	// Update replaces the envelope and tags wholesale. Returns
	// common.ErrNotFound when the note does not exist or belongs to
	// someone else.
	Update(ctx context.Context, note *Note) (*Note, error)

	Delete(ctx context.Context, userID, noteID string) error
}
