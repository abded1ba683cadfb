package auth

import "context"

// Principal is what the authorization gate attaches to a request after the
// full verify → resolve → derive pipeline succeeds. Downstream note
// handlers take the user id and key from here and nowhere else; a user id
// arriving in a request body or query string is never an override.
type Principal struct {
	UserID     string
	ExternalID string
	Key        []byte
}

type ctxKey string

const principalKey ctxKey = "principal"

// ContextWithPrincipal returns a child context carrying the principal.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the principal, or nil when the gate has
// not run.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok {
		return nil
	}
	return p
}
