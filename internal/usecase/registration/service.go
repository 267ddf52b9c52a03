package registration

import (
	"context"
	"strings"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	InvitationCode string
}

// RegistrationService creates the one-time profile row for an identity.
type RegistrationService struct {
	ProfileRepo domain.ProfileRepository
}

// NewRegistrationService creates a new RegistrationService instance
func NewRegistrationService(profileRepo domain.ProfileRepository) *RegistrationService {
	return &RegistrationService{ProfileRepo: profileRepo}
}

// Register validates the form and persists the profile. The session's
// verified email always wins over the submitted one, so a profile can never
// disagree with the session it was registered under. The invitation code is
// lowercased before persistence. Duplicate email or phone surface as
// *domain.ConstraintViolation naming the rule.
func (s *RegistrationService) Register(ctx context.Context, session *domain.Session, input RegisterInput) (*domain.UserProfile, error) {
	if session == nil {
		return nil, domain.ErrUnauthorized
	}

	email := strings.TrimSpace(input.Email)
	if session.Email != "" {
		email = session.Email
	}

	if res := validate(input, email); !res.OK() {
		return nil, res.Err()
	}

	profile := &domain.UserProfile{
		ID:             session.UserID,
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Email:          email,
		Phone:          strings.TrimSpace(input.Phone),
		InvitationCode: strings.ToLower(strings.TrimSpace(input.InvitationCode)),
		IsActive:       true,
	}

	if err := s.ProfileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func validate(input RegisterInput, email string) domain.ValidationResult {
	var res domain.ValidationResult

	if strings.TrimSpace(input.FirstName) == "" {
		res.Add("firstName", domain.ValidationRequired, "first name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		res.Add("lastName", domain.ValidationRequired, "last name is required")
	}
	if email == "" {
		res.Add("email", domain.ValidationRequired, "email is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		res.Add("phone", domain.ValidationRequired, "phone is required")
	}
	if strings.TrimSpace(input.InvitationCode) == "" {
		res.Add("invitationCode", domain.ValidationRequired, "invitation code is required")
	}

	return res
}
