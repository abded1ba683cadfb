package auth

import (
	"context"
	"crypto"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnknownKeyID = errors.New("unknown signing key id")

// StaticKeyResolver serves signing keys from a fixed in-memory set, loaded
// once at startup from a PEM bundle. It covers deployments where the
// provider's keys are distributed as configuration; a JWKS-fetching
// implementation can replace it without touching the verifier.
type StaticKeyResolver struct {
	keys map[string]crypto.PublicKey
}

func NewStaticKeyResolver(keys map[string]crypto.PublicKey) *StaticKeyResolver {
	return &StaticKeyResolver{keys: keys}
}

// NewStaticKeyResolverFromPEM parses every PUBLIC KEY block in the bundle.
// A block's key id is taken from its "kid" PEM header; blocks without one
// get "key-<index>".
func NewStaticKeyResolverFromPEM(bundle []byte) (*StaticKeyResolver, error) {

	keys := make(map[string]crypto.PublicKey)

	rest := bundle
	for i := 0; ; i++ {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}

		pub, err := jwt.ParseRSAPublicKeyFromPEM(pem.EncodeToMemory(block))
		if err != nil {
			return nil, fmt.Errorf("parsing signing key block %d: %w", i, err)
		}

		kid := block.Headers["kid"]
		if kid == "" {
			kid = fmt.Sprintf("key-%d", i)
		}
		keys[kid] = pub
	}

	if len(keys) == 0 {
		return nil, errors.New("no signing keys in PEM bundle")
	}

	return &StaticKeyResolver{keys: keys}, nil
}

// ResolveKey returns the key for kid. A token without a kid header is
// accepted only when exactly one key is configured.
func (r *StaticKeyResolver) ResolveKey(_ context.Context, kid string) (crypto.PublicKey, error) {

	if kid == "" && len(r.keys) == 1 {
		for _, key := range r.keys {
			return key, nil
		}
	}

	key, ok := r.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKeyID, kid)
	}
	return key, nil
}
