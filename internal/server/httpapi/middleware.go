package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/notesafe/notesafe/internal/common"
	"github.com/notesafe/notesafe/internal/server/auth"
)

// authorizationGate walks each request through the authentication pipeline:
// extract bearer token, verify it, resolve the internal user, derive the
// per-user key, attach the principal. Any failure rejects the request
// before the next stage runs: an invalid token never reaches the user
// resolver, let alone a handler.
func (s *Server) authorizationGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := bearerToken(r)
		if err != nil {
			status, code := httpStatus(err)
			writeError(w, status, code)
			return
		}

		identity, err := s.verifier.Verify(ctx, token)
		if err != nil {
			s.logger.Warn(ctx, "token rejected", "reason", err.Error(), "path", r.URL.Path)
			status, code := httpStatus(err)
			writeError(w, status, code)
			return
		}

		user, err := s.resolver.Resolve(ctx, identity.ExternalID, identity.Email, identity.Name)
		if err != nil {
			s.logger.Error(ctx, "user resolution failed", "error", err.Error())
			status, code := httpStatus(common.ErrInternal)
			writeError(w, status, code)
			return
		}

		key, err := s.keys.KeyFor(user.ID, user.ExternalID)
		if err != nil {
			s.logger.Error(ctx, "key derivation failed", "user_id", user.ID)
			status, code := httpStatus(common.ErrInternal)
			writeError(w, status, code)
			return
		}

		principal := &auth.Principal{
			UserID:     user.ID,
			ExternalID: user.ExternalID,
			Key:        key,
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithPrincipal(ctx, principal)))
	})
}

// bearerToken extracts the token from the Authorization header. A missing
// header, wrong scheme or empty token all count as missing.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" {
		return "", common.ErrMissingToken
	}

	token, found := strings.CutPrefix(header, common.BearerPrefix)
	if !found || token == "" {
		return "", common.ErrMissingToken
	}

	return token, nil
}

// httpStatus maps sentinel errors to response codes. Decryption failures
// surface as a bare internal error; the distinction between bad key,
// corruption and tampering exists only in server logs.
func httpStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrMissingToken):
		return http.StatusUnauthorized, "missing_token"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "invalid_token"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
