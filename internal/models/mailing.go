package models

import (
	"fmt"
	"time"
)

// MailingStatus represents valid mailing lifecycle statuses
type MailingStatus string

const (
	MailingStatusCreated  MailingStatus = "created"
	MailingStatusRunning  MailingStatus = "running"
	MailingStatusFinished MailingStatus = "finished"
)

// Mailing represents a scheduled campaign sending one message to a set of recipients
type Mailing struct {
	ID           int           `json:"id" db:"id"`
	StartTime    time.Time     `json:"start_time" db:"start_time"`
	EndTime      time.Time     `json:"end_time" db:"end_time"`
	Status       MailingStatus `json:"status" db:"status"`
	MessageID    int           `json:"message_id" db:"message_id"`
	RecipientIDs []int         `json:"recipient_ids,omitempty" db:"-"`
	OwnerID      *int          `json:"owner_id,omitempty" db:"owner_id"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// MailingStats represents attempt counts for one mailing
type MailingStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// MailingWithStats represents a mailing with its attempt statistics
type MailingWithStats struct {
	Mailing
	Stats MailingStats `json:"stats"`
}

// ResolveStatus derives the lifecycle status of a mailing from the current
// time and its scheduled window. The stored status column is only a cache
// of this function; every read path and the dispatcher delegate here.
func ResolveStatus(now, start, end time.Time) MailingStatus {
	if now.Before(start) {
		return MailingStatusCreated
	}
	if now.After(end) {
		return MailingStatusFinished
	}
	return MailingStatusRunning
}

// CurrentStatus resolves the mailing's status at the given time
func (m *Mailing) CurrentStatus(now time.Time) MailingStatus {
	return ResolveStatus(now, m.StartTime, m.EndTime)
}

// IsActive reports whether now falls inside the mailing's send window
func (m *Mailing) IsActive(now time.Time) bool {
	return m.CurrentStatus(now) == MailingStatusRunning
}

// Validate checks the scheduling invariants at creation/update time.
// The bulk status sweep bypasses this on purpose: it touches only the
// status column of historical rows.
func (m *Mailing) Validate(now time.Time) error {
	if m.MessageID <= 0 {
		return fmt.Errorf("message is required")
	}
	if m.StartTime.IsZero() || m.EndTime.IsZero() {
		return fmt.Errorf("start_time and end_time are required")
	}
	if !m.StartTime.Before(m.EndTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	if m.StartTime.Before(now) {
		return fmt.Errorf("start_time cannot be in the past")
	}
	return nil
}
