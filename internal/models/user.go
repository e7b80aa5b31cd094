package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleClient Role = "client"
)

// Allowed reports whether r is among the given roles.
func (r Role) Allowed(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}

type User struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`

	// Secret fields. Never serialized and only populated when the
	// repository is asked for them explicitly.
	HashedPassword string     `json:"-"`
	ResetTokenHash *string    `json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
}
