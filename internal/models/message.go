package models

import (
	"fmt"
	"time"
)

// Message represents an immutable message template referenced by mailings
type Message struct {
	ID        int       `json:"id" db:"id"`
	Subject   string    `json:"subject" db:"subject"`
	Body      string    `json:"body" db:"body"`
	OwnerID   *int      `json:"owner_id,omitempty" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate checks if the message fields are valid
func (m *Message) Validate() error {
	if m.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if m.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}
