package model

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAdmin
}

// Identity is the authenticated user's profile as returned by the auth endpoints.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

var ErrMalformedIdentity = errors.New("malformed identity")

// Validate rejects identities that cannot back a session.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.Join(ErrMalformedIdentity, errors.New("missing id"))
	}
	if !i.Role.Valid() {
		return errors.Join(ErrMalformedIdentity, errors.New("unknown role "+string(i.Role)))
	}
	return nil
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// ProfilePatch carries the fields a user may change on their own profile.
type ProfilePatch struct {
	Name  *string `json:"name,omitempty" validate:"omitnil,min=2,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitnil,phone_chars,phone_digits"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name" validate:"min=2,max=100"`
	Email    string `json:"email" validate:"required,max=120,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,phone_chars,phone_digits"`
}
