package models

import "time"

// AttemptStatus represents the outcome of one delivery attempt
type AttemptStatus string

const (
	AttemptStatusSuccess AttemptStatus = "success"
	AttemptStatusFailure AttemptStatus = "failure"
)

// MailingAttempt is an append-only log record of one delivery try to one
// recipient. Rows are never mutated after creation.
type MailingAttempt struct {
	ID             int           `json:"id" db:"id"`
	AttemptTime    time.Time     `json:"attempt_time" db:"attempt_time"`
	Status         AttemptStatus `json:"status" db:"status"`
	ServerResponse string        `json:"server_response,omitempty" db:"server_response"`
	MailingID      int           `json:"mailing_id" db:"mailing_id"`
	RecipientID    int           `json:"recipient_id" db:"recipient_id"`
}

// MailingAttemptWithDetails includes the recipient email and mailing
// subject for attempt listings
type MailingAttemptWithDetails struct {
	MailingAttempt
	RecipientEmail string `json:"recipient_email"`
	MailingSubject string `json:"mailing_subject"`
}
