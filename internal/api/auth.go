package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"carrental/internal/identity"
	"carrental/internal/models"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Auth guards handlers behind bearer-token verification. Two variants:
// RequireUser accepts any valid token, RequireAdmin additionally demands
// the admin role claim. Both attach the resolved identity to the request
// context before the wrapped handler runs.
type Auth struct {
	verifier identity.Verifier
}

func NewAuth(verifier identity.Verifier) *Auth {
	return &Auth{verifier: verifier}
}

func (a *Auth) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		next(w, withIdentity(r, id))
	}
}

func (a *Auth) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		if !id.IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, withIdentity(r, id))
	}
}

func (a *Auth) authenticate(w http.ResponseWriter, r *http.Request) (*models.Identity, bool) {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "No authorization token provided")
		return nil, false
	}
	token = strings.TrimPrefix(token, "Bearer ")

	id, err := a.verifier.Verify(r.Context(), token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		} else {
			// Provider transport failure still denies access.
			writeError(w, http.StatusUnauthorized, "Authentication failed")
		}
		return nil, false
	}

	return id, true
}

func withIdentity(r *http.Request, id *models.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityContextKey, id))
}

// IdentityFromContext returns the verified identity attached by the guard.
func IdentityFromContext(ctx context.Context) *models.Identity {
	id, _ := ctx.Value(identityContextKey).(*models.Identity)
	return id
}
