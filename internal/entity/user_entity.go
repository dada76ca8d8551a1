package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"

	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// User is the identity collaborator consumed by the dispute core. Lookups
// resolve existence, display name and role; this service never mutates
// users outside of seeding.
type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName is the actor attribution written into dispute timelines.
func (u *User) DisplayName() string {
	return u.FullName
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
