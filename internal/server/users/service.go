package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/notesafe/notesafe/internal/common"
)

// Service resolves identity-provider subjects to internal users, creating
// an account on first sight. Concurrent first-seen requests for one
// external id converge on a single row: the storage-level uniqueness
// constraint arbitrates and the loser of the insert race re-fetches.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve returns the internal user for externalID, creating one if
// needed. email and name are stored on creation only; an existing user's
// external id is never mutated.
func (s *Service) Resolve(ctx context.Context, externalID, email, name string) (*User, error) {

	if externalID == "" {
		return nil, fmt.Errorf("resolving user: empty external id")
	}

	user, err := s.repo.GetByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("resolving user: %w", err)
	}

	user, err = s.repo.Create(ctx, &User{ExternalID: externalID, Email: email, Name: name})
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrDuplicateExternalID) {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	// lost the first-use race; the winner's row is there now
	user, err = s.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("re-fetching user after insert conflict: %w", err)
	}

	return user, nil
}
