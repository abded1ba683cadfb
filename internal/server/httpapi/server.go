// Package httpapi exposes the note service over HTTP. Every note and
// attachment route sits behind the authorization gate middleware, which
// runs the verify → resolve → derive pipeline and attaches the resulting
// principal to the request context.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/notesafe/notesafe/internal/logging"
	"github.com/notesafe/notesafe/internal/server/attachments"
	"github.com/notesafe/notesafe/internal/server/auth"
	"github.com/notesafe/notesafe/internal/server/notes"
	"github.com/notesafe/notesafe/internal/server/users"
)

// TokenVerifier validates a bearer token and extracts the identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// UserResolver maps an external id to the internal user, creating one on
// first sight.
type UserResolver interface {
	Resolve(ctx context.Context, externalID, email, name string) (*users.User, error)
}

// KeyProvider returns the derived content key for a resolved user.
type KeyProvider interface {
	KeyFor(userID, externalID string) ([]byte, error)
}

type Server struct {
	address     string
	logger      logging.Logger
	verifier    TokenVerifier
	resolver    UserResolver
	keys        KeyProvider
	notes       *notes.Service
	attachments *attachments.Service
}

func NewServer(address string, logger logging.Logger, verifier TokenVerifier, resolver UserResolver, keys KeyProvider, ns *notes.Service, as *attachments.Service) *Server {
	return &Server{
		address:     address,
		logger:      logger.With("module", "http_server"),
		verifier:    verifier,
		resolver:    resolver,
		keys:        keys,
		notes:       ns,
		attachments: as,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/notes", func(r chi.Router) {
		r.Use(s.authorizationGate)

		r.Post("/", s.handleCreateNote)
		r.Get("/", s.handleListNotes)

		r.Route("/{noteID}", func(r chi.Router) {
			r.Get("/", s.handleGetNote)
			r.Put("/", s.handleUpdateNote)
			r.Delete("/", s.handleDeleteNote)

			r.Post("/attachments", s.handleRegisterAttachment)
			r.Get("/attachments/{attachmentID}", s.handleAttachmentURL)
		})
	})

	return r
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
