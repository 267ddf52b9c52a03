package domain

import "github.com/google/uuid"

// UserProfile is the registration row for an identity. ID equals the
// identity's session subject. Email and Phone are each globally unique at the
// store. A profile is created once, during registration, and never updated or
// deleted by this core.
type UserProfile struct {
	ID             uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	InvitationCode string // normalized to lowercase before persistence
	IsActive       bool
}
