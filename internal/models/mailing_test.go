package models

import (
	"testing"
	"time"
)

var (
	windowStart = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
)

// TestResolveStatus_Lifecycle checks the three phases of the send window
func TestResolveStatus_Lifecycle(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want MailingStatus
	}{
		{"before window", windowStart.Add(-time.Minute), MailingStatusCreated},
		{"at start", windowStart, MailingStatusRunning},
		{"inside window", windowStart.Add(4 * time.Hour), MailingStatusRunning},
		{"at end", windowEnd, MailingStatusRunning},
		{"after window", windowEnd.Add(time.Second), MailingStatusFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveStatus(tt.now, windowStart, windowEnd)
			if got != tt.want {
				t.Errorf("ResolveStatus(%v) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}

// TestResolveStatus_Monotonic verifies the status never moves backward as
// the clock advances over one window
func TestResolveStatus_Monotonic(t *testing.T) {
	rank := map[MailingStatus]int{
		MailingStatusCreated:  0,
		MailingStatusRunning:  1,
		MailingStatusFinished: 2,
	}

	prev := -1
	for now := windowStart.Add(-2 * time.Hour); now.Before(windowEnd.Add(2 * time.Hour)); now = now.Add(10 * time.Minute) {
		status := ResolveStatus(now, windowStart, windowEnd)
		r, ok := rank[status]
		if !ok {
			t.Fatalf("ResolveStatus returned unknown status %q", status)
		}
		if r < prev {
			t.Fatalf("status moved backward at %v: %q", now, status)
		}
		prev = r
	}
}

func TestMailingIsActive(t *testing.T) {
	m := &Mailing{StartTime: windowStart, EndTime: windowEnd}

	if m.IsActive(windowStart.Add(-time.Minute)) {
		t.Error("mailing should not be active before its window")
	}
	if !m.IsActive(windowStart.Add(time.Hour)) {
		t.Error("mailing should be active inside its window")
	}
	if m.IsActive(windowEnd.Add(time.Hour)) {
		t.Error("mailing should not be active after its window")
	}
}

func TestMailingValidate(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	valid := &Mailing{MessageID: 1, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)}
	if err := valid.Validate(now); err != nil {
		t.Errorf("expected valid mailing, got: %v", err)
	}

	tests := []struct {
		name    string
		mailing *Mailing
	}{
		{"missing message", &Mailing{StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)}},
		{"zero times", &Mailing{MessageID: 1}},
		{"end before start", &Mailing{MessageID: 1, StartTime: now.Add(2 * time.Hour), EndTime: now.Add(time.Hour)}},
		{"start equals end", &Mailing{MessageID: 1, StartTime: now.Add(time.Hour), EndTime: now.Add(time.Hour)}},
		{"start in past", &Mailing{MessageID: 1, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mailing.Validate(now); err == nil {
				t.Error("expected validation error but got nil")
			}
		})
	}
}
