package attachments

import "context"

type Repository interface {
	Create(ctx context.Context, att *Attachment) (*Attachment, error)

	// GetByID returns common.ErrNotFound unless the attachment exists,
	// hangs off the given note and belongs to the given user.
	GetByID(ctx context.Context, userID, noteID, attID string) (*Attachment, error)
}
