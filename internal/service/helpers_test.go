package service

import (
	"strings"
	"testing"
	"time"

	"mailflow/internal/models"
)

// Fixed clock for deterministic window arithmetic
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// AssertNoError checks that no error occurred
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Expected no error but got: %v", err)
	}
}

// AssertEqual checks if two values are equal
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("Expected %v but got %v", want, got)
	}
}

// AssertContains checks if string contains substring
func AssertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected %q to contain %q", haystack, needle)
	}
}

// Test fixtures

func NewTestOwner() *models.User {
	return &models.User{ID: 1, Email: "owner@example.com", Username: "owner"}
}

func NewTestManager() *models.User {
	return &models.User{ID: 2, Email: "manager@example.com", Username: "manager", IsManager: true, CanDisableMailing: true}
}

func NewTestStaff() *models.User {
	return &models.User{ID: 3, Email: "staff@example.com", Username: "staff", IsStaff: true}
}

func intPtr(i int) *int { return &i }

// NewTestMailing returns a mailing whose window contains testNow
func NewTestMailing(id int) *models.Mailing {
	return &models.Mailing{
		ID:        id,
		StartTime: testNow.Add(-time.Hour),
		EndTime:   testNow.Add(time.Hour),
		Status:    models.MailingStatusRunning,
		MessageID: 1,
		OwnerID:   intPtr(1),
	}
}

func NewTestRecipient(id int, email string) *models.Recipient {
	return &models.Recipient{
		ID:       id,
		Email:    email,
		FullName: "Recipient " + email,
		OwnerID:  intPtr(1),
	}
}

func NewTestMessage(id int) *models.Message {
	return &models.Message{
		ID:      id,
		Subject: "Hello",
		Body:    "Hello there",
		OwnerID: intPtr(1),
	}
}
