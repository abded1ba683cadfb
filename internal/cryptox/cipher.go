// Package cryptox implements the authenticated encryption used for note
// content at rest. Every note body is sealed with AES-256-GCM under the
// owner's derived key into a self-contained envelope (nonce + ciphertext +
// tag). The nonce is generated here, never by callers, and is fresh for
// every call.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/notesafe/notesafe/internal/common"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// NonceSize is the GCM nonce length in bytes.
	NonceSize = 12
	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

var errInvalidKeySize = errors.New("cryptox: invalid key size")

// Envelope is the self-contained result of one encryption call. The nonce
// and tag are fixed-width, the ciphertext carries the remaining bytes, so
// the three fields are unambiguous whether stored separately or packed.
// None of the fields are secret; without the key they are useless.
type Envelope struct {
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// Encrypt seals plaintext under key with a freshly generated random nonce.
//
// aad is bound as associated data and must be presented unchanged to
// Decrypt; callers pass the owning user's external id so that an envelope
// cannot be replayed under another user's key derivation path.
//
// The key must be exactly KeySize bytes.
func Encrypt(key, plaintext, aad []byte) (*Envelope, error) {

	if len(key) != KeySize {
		return nil, errInvalidKeySize
	}

	nonce := common.GenerateRandByteArray(NonceSize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	sealed := aesgcm.Seal(nil, nonce, plaintext, aad)

	// Seal appends the tag to the ciphertext; split it into its own field.
	split := len(sealed) - TagSize
	return &Envelope{
		Nonce:      nonce,
		Ciphertext: sealed[:split],
		Tag:        sealed[split:],
	}, nil
}

// Decrypt opens env under key and returns the plaintext.
//
// On any failure (wrong key, tampered or truncated envelope, mismatched
// aad) it returns common.ErrDecryptionFailed and nothing else. The caller
// must not be able to tell the failure modes apart.
func Decrypt(key []byte, env *Envelope, aad []byte) ([]byte, error) {

	if env == nil || len(key) != KeySize || len(env.Nonce) != NonceSize || len(env.Tag) != TagSize {
		return nil, common.ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+TagSize)
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	plaintext, err := aesgcm.Open(nil, env.Nonce, sealed, aad)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}

	return plaintext, nil
}
