// Package identity resolves bearer tokens to subjects. Token issuance and
// account management stay with the external identity provider; this package
// only verifies what the provider issued, either locally against the
// provider's signing secret or by calling its userinfo endpoint.
package identity

import (
	"context"
	"errors"

	"carrental/internal/models"
)

var (
	// ErrInvalidToken covers missing, malformed, expired and forged tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Verifier resolves a bearer token to an identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.Identity, error)
}
