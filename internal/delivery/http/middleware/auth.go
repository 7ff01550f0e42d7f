package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventpass/internal/delivery/http/helpers"
	"eventpass/internal/domain"
)

type contextKey string

const (
	adminIDKey contextKey = "adminID"
	tokenKey   contextKey = "token"
)

// accessTokenParam carries the token for clients that cannot set headers, such as EventSource.
const accessTokenParam = "access_token"

// SetAdminID returns a context with the admin ID set and records it for the request log.
func SetAdminID(ctx context.Context, adminID string) context.Context {
	if f := requestFieldsFrom(ctx); f != nil {
		f.adminID = adminID
	}
	return context.WithValue(ctx, adminIDKey, adminID)
}

// AdminIDFromContext returns the authenticated admin ID from the context, if present.
func AdminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminIDKey).(string)
	return id, ok
}

// SetToken returns a context carrying the raw bearer token.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token the request was authenticated with.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok
}

var (
	errMissingAuth   = errors.New("missing authorization header")
	errInvalidFormat = errors.New("invalid authorization format")
	errMissingToken  = errors.New("missing token")
)

// BearerToken extracts the token from the Authorization header, falling back to the
// access_token query parameter when the header is absent.
func BearerToken(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		if t := strings.TrimSpace(r.URL.Query().Get(accessTokenParam)); t != "" {
			return t, nil
		}
		return "", errMissingAuth
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", errInvalidFormat
	}
	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}

// RequireAuth returns a wrapper that resolves the Bearer token to a live admin session and
// sets the admin ID in the request context.
// If the token is missing, invalid, or its session has ended, it responds with 401 and does not call next.
func RequireAuth(verifier domain.SessionVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, err.Error())
				return
			}
			adminID, err := verifier.VerifySession(r.Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					logger.ErrorContext(r.Context(), "session check failed", "path", r.URL.Path, "err", err)
				}
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			ctx := SetToken(SetAdminID(r.Context(), adminID), token)
			next(w, r.WithContext(ctx))
		}
	}
}
