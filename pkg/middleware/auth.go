package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/utafrali/StallReview/pkg/errors"
	"github.com/utafrali/StallReview/pkg/httputil"
	"github.com/utafrali/StallReview/pkg/logger"
)

type contextKeyType string

const claimsKey contextKeyType = "auth_claims"

// Claims identifies the caller behind a validated bearer token.
type Claims struct {
	UserID   int64
	Username string
}

// TokenValidator resolves a raw bearer token to the caller's claims. It is
// supplied by the service so the middleware stays independent of the token
// format and the user store. Rejected credentials must be reported as
// apperrors.ErrUnauthorized; any other error is a server-side failure.
type TokenValidator func(ctx context.Context, token string) (*Claims, error)

// Auth rejects requests without a valid "Authorization: Bearer <token>"
// header with 401 and stores the resolved Claims in the request context.
// The request-scoped logger is enriched with the caller's identity.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeAuthError(w, "missing or malformed bearer token")
				return
			}

			claims, err := validate(r.Context(), token)
			if err != nil && !errors.Is(err, apperrors.ErrUnauthorized) {
				httputil.WriteError(w, r, err, nil)
				return
			}
			if err != nil || claims == nil {
				writeAuthError(w, "could not validate credentials")
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logger.WithUser(ctx, strconv.FormatInt(claims.UserID, 10), claims.Username)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(
				slog.Int64("user_id", claims.UserID),
				slog.String("username", claims.Username),
			))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by Auth.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// WithClaims returns a context carrying claims, as Auth would store them.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	httputil.WriteErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}
