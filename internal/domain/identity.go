package domain

import (
	"context"

	"github.com/google/uuid"
)

// Session is the identity provider's view of an authenticated caller.
// It is passed explicitly into use cases; the core holds no ambient session
// state.
type Session struct {
	UserID uuid.UUID
	Email  string
}

// SessionListener is invoked on every session transition. A nil session
// means the caller signed out.
type SessionListener func(*Session)

// IdentityProvider is the fully-typed surface of the external auth service.
type IdentityProvider interface {
	// CurrentSession resolves an access token to a session. An invalid or
	// expired token yields (nil, nil), not an error.
	CurrentSession(ctx context.Context, accessToken string) (*Session, error)

	// SignInWithIdentifier starts a passwordless sign-in for email.
	SignInWithIdentifier(ctx context.Context, email string) error

	// ExchangeCallback trades a login callback code for a session and its
	// access token.
	ExchangeCallback(ctx context.Context, code string) (*Session, string, error)

	// SignOut invalidates the session behind accessToken.
	SignOut(ctx context.Context, accessToken string) error

	// OnSessionChange registers a listener fired after sign-in and
	// sign-out transitions.
	OnSessionChange(listener SessionListener)
}
