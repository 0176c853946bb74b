package ports

import (
	"context"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

type AuthService interface {
	// Login matches username and password exactly, issues a token and
	// persists the session.
	Login(ctx context.Context, username, password string) (string, *domain.Session, error)
	// Authenticate maps the subject and id of a verified token to the live
	// session, with the role the user holds now. A revoked or expired token,
	// or one whose user was removed, yields domain.ErrSessionRevoked.
	Authenticate(ctx context.Context, username, tokenID string) (*domain.Session, error)
	// Logout revokes tokenID when confirmed is true and reports whether it did.
	Logout(ctx context.Context, tokenID string, confirmed bool) (bool, error)
}
