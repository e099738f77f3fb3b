package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Dan9191/tweet-service/internal/models"
	"github.com/Dan9191/tweet-service/internal/utils"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ctxKeyIdentity struct{}

// TokenVerifier turns a bearer token into the identity it was issued for
type TokenVerifier interface {
	VerifyToken(token string) (models.Identity, error)
}

// AuthMiddleware rejects requests without a valid bearer token. A missing token is answered
// with 401, a token that fails verification with 403. Verified requests carry the caller's
// identity in their context.
func AuthMiddleware(verifier TokenVerifier, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				utils.WriteMessage(w, http.StatusUnauthorized, "Missing token")
				return
			}

			identity, err := verifier.VerifyToken(token)
			if err != nil {
				log.WithField("path", r.URL.Path).Debugf("Token rejected: %v", err)
				utils.WriteMessage(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, identity)
}

// IdentityFromContext returns the identity attached by AuthMiddleware
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(ctxKeyIdentity{}).(models.Identity)
	return identity, ok
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
