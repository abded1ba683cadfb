// Package keyring derives the per-user symmetric keys that protect note
// content. Keys are deterministic functions of the process-wide root secret
// and the user's external id, so they never have to be stored: the same
// inputs reproduce the same key across requests and restarts.
//
// Derivation is HKDF-SHA256 with a fixed salt and the external id as the
// info string. The salt carries a version component; changing either the
// salt or the info encoding orphans every previously written envelope, so
// any change must bump the version and keep the old path readable.
package keyring

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the derived key length in bytes (AES-256).
const KeySize = 32

// Frozen v1 derivation scheme. The info string has a single variable
// component, so distinct external ids can never encode to the same bytes.
const (
	saltV1       = "notesafe/keyring/v1"
	infoPrefixV1 = "uid:"
)

var (
	ErrEmptyRootSecret = errors.New("keyring: empty root secret")
	ErrEmptyExternalID = errors.New("keyring: empty external id")
)

// Engine derives per-user keys from the root secret. The secret is captured
// at construction and treated as read-only for the process lifetime; Engine
// is safe for concurrent use.
type Engine struct {
	rootSecret []byte
}

// NewEngine returns an Engine over the given root secret. An empty secret
// is a fatal misconfiguration and is rejected here so the process fails at
// startup, not at first request.
func NewEngine(rootSecret []byte) (*Engine, error) {
	if len(rootSecret) == 0 {
		return nil, ErrEmptyRootSecret
	}
	secret := make([]byte, len(rootSecret))
	copy(secret, rootSecret)
	return &Engine{rootSecret: secret}, nil
}

// DeriveKey returns the KeySize-byte key bound to externalID. The result is
// deterministic and must never be logged or persisted.
func (e *Engine) DeriveKey(externalID string) ([]byte, error) {

	if externalID == "" {
		return nil, ErrEmptyExternalID
	}

	r := hkdf.New(sha256.New, e.rootSecret, []byte(saltV1), []byte(infoPrefixV1+externalID))

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}

	return key, nil
}
