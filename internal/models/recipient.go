package models

import (
	"fmt"
	"net/mail"
	"time"
)

// Recipient represents a mailing-list recipient
type Recipient struct {
	ID        int       `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	Comment   string    `json:"comment,omitempty" db:"comment"`
	OwnerID   *int      `json:"owner_id,omitempty" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate checks if the recipient fields are valid
func (r *Recipient) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("invalid email address: %s", r.Email)
	}
	if r.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	return nil
}

// String returns the recipient's display form
func (r *Recipient) String() string {
	return fmt.Sprintf("%s (%s)", r.FullName, r.Email)
}
