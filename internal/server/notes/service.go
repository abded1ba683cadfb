package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/notesafe/notesafe/internal/common"
	"github.com/notesafe/notesafe/internal/cryptox"
	"github.com/notesafe/notesafe/internal/logging"
)

// Service encrypts note bodies on the way into storage and decrypts them on
// the way out. Every operation is scoped to the Owner built by the
// authorization gate; the envelope's associated data is the owner's
// external id, so an envelope smuggled under another user's row still
// fails to open.
type Service struct {
	repo   Repository
	logger logging.Logger
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("module", "notes")}
}

func (s *Service) seal(owner Owner, body string) (*cryptox.Envelope, error) {
	return cryptox.Encrypt(owner.Key, []byte(body), []byte(owner.ExternalID))
}

// open decrypts a stored note. Failures are logged with enough context for
// operators but surface to the caller as the bare sentinel, never with
// detail that distinguishes a bad key from tampering.
func (s *Service) open(ctx context.Context, owner Owner, note *Note) (string, error) {
	env := &cryptox.Envelope{Nonce: note.Nonce, Ciphertext: note.Ciphertext, Tag: note.Tag}
	plaintext, err := cryptox.Decrypt(owner.Key, env, []byte(owner.ExternalID))
	if err != nil {
		s.logger.Error(ctx, "note decryption failed", "user_id", owner.UserID, "note_id", note.ID)
		return "", common.ErrDecryptionFailed
	}
	return string(plaintext), nil
}

func (s *Service) toPlain(note *Note, body string) *PlainNote {
	return &PlainNote{
		ID:        note.ID,
		Body:      body,
		Tags:      note.Tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func (s *Service) Create(ctx context.Context, owner Owner, body string, tags []string) (*PlainNote, error) {

	env, err := s.seal(owner, body)
	if err != nil {
		return nil, fmt.Errorf("error encrypting note: %w", err)
	}

	note := &Note{
		ID:         uuid.NewString(),
		UserID:     owner.UserID,
		Nonce:      env.Nonce,
		Ciphertext: env.Ciphertext,
		Tag:        env.Tag,
		Tags:       tags,
	}

	note, err = s.repo.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	return s.toPlain(note, body), nil
}

func (s *Service) Get(ctx context.Context, owner Owner, noteID string) (*PlainNote, error) {

	note, err := s.repo.GetByID(ctx, owner.UserID, noteID)
	if err != nil {
		return nil, err
	}

	body, err := s.open(ctx, owner, note)
	if err != nil {
		return nil, err
	}

	return s.toPlain(note, body), nil
}

func (s *Service) List(ctx context.Context, owner Owner, tag string) ([]*PlainNote, error) {

	stored, err := s.repo.List(ctx, owner.UserID, tag)
	if err != nil {
		return nil, err
	}

	result := make([]*PlainNote, 0, len(stored))
	for _, note := range stored {
		body, err := s.open(ctx, owner, note)
		if err != nil {
			return nil, err
		}
		result = append(result, s.toPlain(note, body))
	}

	return result, nil
}

// Update replaces the note body and tags. The envelope is rebuilt from
// scratch with a fresh nonce; the old nonce is never reused.
func (s *Service) Update(ctx context.Context, owner Owner, noteID, body string, tags []string) (*PlainNote, error) {

	env, err := s.seal(owner, body)
	if err != nil {
		return nil, fmt.Errorf("error encrypting note: %w", err)
	}

	note := &Note{
		ID:         noteID,
		UserID:     owner.UserID,
		Nonce:      env.Nonce,
		Ciphertext: env.Ciphertext,
		Tag:        env.Tag,
		Tags:       tags,
	}

	note, err = s.repo.Update(ctx, note)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error updating note: %w", err)
	}

	return s.toPlain(note, body), nil
}

func (s *Service) Delete(ctx context.Context, owner Owner, noteID string) error {
	return s.repo.Delete(ctx, owner.UserID, noteID)
}
