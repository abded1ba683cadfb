package db

import (
	"context"
	"database/sql"

	"github.com/notesafe/notesafe/internal/server/attachments"
	"github.com/notesafe/notesafe/internal/server/notes"
	"github.com/notesafe/notesafe/internal/server/users"
)

// RepositoryManager bundles the storage-backed repositories behind one
// construction point so the application wires a single dependency.
type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Notes() notes.Repository
	Attachments() attachments.Repository
}
