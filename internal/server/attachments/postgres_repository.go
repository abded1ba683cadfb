package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/notesafe/notesafe/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, att *Attachment) (*Attachment, error) {

	query :=
		`INSERT INTO attachments (id, note_id, user_id, file_name, content_type, storage_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		att.ID, att.NoteID, att.UserID, att.FileName, att.ContentType, att.StorageKey).
		Scan(&att.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return att, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, noteID, attID string) (*Attachment, error) {

	query :=
		`SELECT id, note_id, user_id, file_name, content_type, storage_key, created_at FROM attachments
		 WHERE id = $1 AND note_id = $2 AND user_id = $3
		 `

	att := &Attachment{}
	err := r.db.QueryRowContext(ctx, query, attID, noteID, userID).
		Scan(&att.ID, &att.NoteID, &att.UserID, &att.FileName, &att.ContentType, &att.StorageKey, &att.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return att, nil
}
