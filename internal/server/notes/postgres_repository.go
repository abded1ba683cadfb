package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/notesafe/notesafe/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, note *Note) (*Note, error) {

	query :=
		`INSERT INTO notes (id, user_id, nonce, ciphertext, tag, tags)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		note.ID, note.UserID, note.Nonce, note.Ciphertext, note.Tag, pq.Array(note.Tags)).
		Scan(&note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, noteID string) (*Note, error) {

	query :=
		`SELECT id, user_id, nonce, ciphertext, tag, tags, created_at, updated_at FROM notes
		 WHERE id = $1 AND user_id = $2
		 `

	note := &Note{}
	err := r.db.QueryRowContext(ctx, query, noteID, userID).
		Scan(&note.ID, &note.UserID, &note.Nonce, &note.Ciphertext, &note.Tag,
			pq.Array(&note.Tags), &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID, tag string) ([]*Note, error) {

	query :=
		`SELECT id, user_id, nonce, ciphertext, tag, tags, created_at, updated_at FROM notes
		 WHERE user_id = $1 AND ($2 = '' OR $2 = ANY(tags))
		 ORDER BY updated_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, tag)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*Note
	for rows.Next() {
		note := &Note{}
		err := rows.Scan(&note.ID, &note.UserID, &note.Nonce, &note.Ciphertext, &note.Tag,
			pq.Array(&note.Tags), &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, note *Note) (*Note, error) {

	query :=
		`UPDATE notes
		 SET nonce = $1, ciphertext = $2, tag = $3, tags = $4, updated_at = now()
		 WHERE id = $5 AND user_id = $6
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		note.Nonce, note.Ciphertext, note.Tag, pq.Array(note.Tags), note.ID, note.UserID).
		Scan(&note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, noteID string) error {

	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, noteID, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
