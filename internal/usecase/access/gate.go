package access

import (
	"context"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

// RedirectHint tells the routing shell where to send a caller that was not
// allowed through.
type RedirectHint string

const (
	RedirectNone     RedirectHint = ""
	RedirectLogin    RedirectHint = "login"
	RedirectRegister RedirectHint = "register"
)

// AccessDecision is the gate's answer for one request.
type AccessDecision struct {
	Allowed  bool
	Redirect RedirectHint

	// Email carries the session's verified address into the registration
	// step. The form pre-fills it and locks the field so the profile can
	// never disagree with the session.
	Email string
}

// Gate decides whether a caller may reach the record pages. Session state is
// passed in explicitly; the gate holds none of its own.
type Gate struct {
	ProfileRepo domain.ProfileRepository
}

// NewGate creates a new Gate instance
func NewGate(profileRepo domain.ProfileRepository) *Gate {
	return &Gate{ProfileRepo: profileRepo}
}

// CheckAccess classifies the caller:
//   - no session: not allowed, redirect to login
//   - session but no profile row: not allowed, redirect to registration
//     carrying the session email
//   - session and profile: allowed
//
// A store failure during the profile lookup degrades to not-allowed with the
// error propagated for logging.
func (g *Gate) CheckAccess(ctx context.Context, session *domain.Session) (AccessDecision, error) {
	if session == nil {
		return AccessDecision{Redirect: RedirectLogin}, nil
	}

	profile, err := g.ProfileRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return AccessDecision{Redirect: RedirectLogin}, err
	}
	if profile == nil {
		return AccessDecision{Redirect: RedirectRegister, Email: session.Email}, nil
	}

	return AccessDecision{Allowed: true}, nil
}
