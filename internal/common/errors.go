// Package common defines shared constants and sentinel errors used across
// the notesafe server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrInternal covers failures the caller can do nothing about; the
	// transport layer maps it to a detail-free response.
	ErrInternal = errors.New("internal error")

	// Token errors. A request carrying a bad token is rejected before any
	// user or note state is touched; the caller must obtain a fresh token.
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrDecryptionFailed is the only error the cipher layer ever returns
	// from a failed open. Bad key, truncated envelope and tampered
	// ciphertext are deliberately indistinguishable to the caller.
	ErrDecryptionFailed = errors.New("decryption failed")
)
