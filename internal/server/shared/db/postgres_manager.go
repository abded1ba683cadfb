package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/notesafe/notesafe/internal/server/attachments"
	"github.com/notesafe/notesafe/internal/server/migrations"
	"github.com/notesafe/notesafe/internal/server/notes"
	"github.com/notesafe/notesafe/internal/server/users"
)

type PostgresRepositoryManager struct {
	db          *sql.DB
	users       users.Repository
	notes       notes.Repository
	attachments attachments.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Notes() notes.Repository {
	return m.notes
}

func (m *PostgresRepositoryManager) Attachments() attachments.Repository {
	return m.attachments
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	users, err := users.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}

	notes, err := notes.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("note repo creation error: %w", err)
	}

	attachments, err := attachments.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("attachment repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:          db,
		users:       users,
		notes:       notes,
		attachments: attachments,
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
