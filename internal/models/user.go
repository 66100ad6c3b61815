package models

import (
	"fmt"
	"net/mail"
	"time"
)

// User represents an account that owns recipients, messages and mailings.
// Email is the login identity. The "Managers" group is flattened to the
// IsManager flag; CanDisableMailing is an independent elevated permission.
type User struct {
	ID                int       `json:"id" db:"id"`
	Email             string    `json:"email" db:"email"`
	Username          string    `json:"username" db:"username"`
	PasswordHash      string    `json:"-" db:"password_hash"`
	Phone             *string   `json:"phone,omitempty" db:"phone"`
	Country           *string   `json:"country,omitempty" db:"country"`
	AvatarURL         *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	IsStaff           bool      `json:"is_staff" db:"is_staff"`
	IsSuperuser       bool      `json:"is_superuser" db:"is_superuser"`
	IsManager         bool      `json:"is_manager" db:"is_manager"`
	CanDisableMailing bool      `json:"can_disable_mailing" db:"can_disable_mailing"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// Validate checks if the user fields are valid
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("invalid email address: %s", u.Email)
	}
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}

// String returns the user's login identity
func (u *User) String() string {
	return u.Email
}
