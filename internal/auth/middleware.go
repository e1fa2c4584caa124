package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

type contextKey struct{}

var promoterKey contextKey

// PromoterID extracts the authenticated promoter from the request context.
func PromoterID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(promoterKey).(uuid.UUID)
	return id, ok
}

// Middleware authenticates requests with a Bearer access token and stores the
// promoter id in the request context.
func Middleware(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			subject, err := tokens.Verify(parts[1], tokenTypeAccess)
			if err != nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}
			id, err := uuid.Parse(subject)
			if err != nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), promoterKey, id)))
		})
	}
}
