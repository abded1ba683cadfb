// Package auth verifies externally issued identity tokens and carries the
// authenticated principal through the request context.
//
// Tokens are compact JWTs signed by a third-party identity provider. The
// provider's signing keys are consumed through the KeyResolver capability;
// fetching and rotating the key set is the surrounding application's job.
package auth

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notesafe/notesafe/internal/common"
)

// KeyResolver resolves the identity provider's current public signing key
// for a key id taken from a token header. Implementations may hit the
// network and must honor ctx.
type KeyResolver interface {
	ResolveKey(ctx context.Context, kid string) (crypto.PublicKey, error)
}

// Identity is the result of a successful token verification. ExternalID is
// the provider-stable subject; the profile fields are advisory display
// metadata and are never used as key material.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
}

type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Verifier validates identity tokens against a fixed issuer and audience.
// Verification is pure: no state is kept between calls.
type Verifier struct {
	issuer   string
	audience string
	leeway   time.Duration
	keys     KeyResolver
}

// DefaultLeeway is the clock-skew tolerance applied to exp/nbf/iat checks.
const DefaultLeeway = 5 * time.Minute

func NewVerifier(issuer, audience string, leeway time.Duration, keys KeyResolver) *Verifier {
	if leeway <= 0 {
		leeway = DefaultLeeway
	}
	return &Verifier{issuer: issuer, audience: audience, leeway: leeway, keys: keys}
}

// Verify checks the token's signature and registered claims and extracts
// the identity. Any failure comes back as common.ErrTokenExpired or
// common.ErrInvalidToken; a token is never partially trusted.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {

	claims := &identityClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			kid, _ := t.Header["kid"].(string)
			return v.keys.ResolveKey(ctx, kid)
		},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", common.ErrInvalidToken)
	}

	return &Identity{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
	}, nil
}
