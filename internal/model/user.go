package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Criteria is an equality filter over user fields, keyed by the public field
// name (id, email, firstName, lastName).
type Criteria map[string]string

// UserRepository looks users up under a session.
// Absence is reported as a nil user or an empty slice, never as an error.
type UserRepository interface {
	ValidateIDField(id string) bool
	Find(ctx context.Context, id string) (*User, error)
	FindBy(ctx context.Context, criteria Criteria) ([]*User, error)
}

// User represents an account.
type User struct {
	ID        uuid.UUID
	Email     string
	Password  string
	Salt      string
	Roles     []string
	FirstName string
	LastName  string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewUser returns a blank user with no roles.
func NewUser() *User {
	return &User{Roles: []string{}}
}

// IsNew reports whether the user has not been saved yet.
func (u *User) IsNew() bool {
	return u.ID == uuid.Nil
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.Roles = append([]string{}, u.Roles...)
	if u.DeletedAt != nil {
		deletedAt := *u.DeletedAt
		c.DeletedAt = &deletedAt
	}
	return &c
}

// UserView is the public representation of a user. Password and salt are
// never part of it.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View returns the public representation of the user.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Version:   u.Version,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Validator checks a user against field-level rules and returns one message
// per violation.
type Validator interface {
	Validate(user *User) []string
}

// Deserializer copies untrusted request fields into a user in place.
type Deserializer interface {
	Deserialize(target *User, data map[string]any) error
}

// PasswordHasher derives and verifies salted password hashes.
type PasswordHasher interface {
	Salt() (string, error)
	Hash(password, salt string) string
	Verify(password, salt, hash string) bool
}
