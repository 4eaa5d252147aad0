// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the Finance Tracker system.
type User struct {
	ID              uuid.UUID
	Email           string
	Name            string
	PasswordHash    string
	TermsAcceptedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser creates a new User with default values.
func NewUser(email, name, passwordHash string, termsAcceptedAt time.Time) *User {
	now := time.Now().UTC()
	return &User{
		ID:              uuid.New(),
		Email:           email,
		Name:            name,
		PasswordHash:    passwordHash,
		TermsAcceptedAt: termsAcceptedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Identity is the authenticated principal every read and write is scoped to.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
}

// DefaultDisplayName is shown when the user has no name on record.
const DefaultDisplayName = "User"

// IdentityOf builds the Identity for a stored user.
func IdentityOf(u *User) *Identity {
	name := u.Name
	if name == "" {
		name = DefaultDisplayName
	}
	return &Identity{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: name,
	}
}
