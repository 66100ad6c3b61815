package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"mailflow/internal/models"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	return db, mock
}

func mailingColumns() []string {
	return []string{"id", "start_time", "end_time", "status", "message_id", "owner_id", "created_at", "updated_at"}
}

func TestMailingSweepExpired(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewMailingRepository(db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE mailings").
		WithArgs(string(models.MailingStatusFinished), string(models.MailingStatusRunning), now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	updated, err := repo.SweepExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if updated != 3 {
		t.Errorf("expected 3 rows updated, got %d", updated)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMailingListDue(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewMailingRepository(db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(mailingColumns()).
		AddRow(1, now.Add(-time.Hour), now.Add(time.Hour), "created", 1, 1, now, now).
		AddRow(2, now.Add(-2*time.Hour), now.Add(2*time.Hour), "running", 2, 1, now, now)

	mock.ExpectQuery("FROM mailings").
		WillReturnRows(rows)

	due, err := repo.ListDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ListDue failed: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due mailings, got %d", len(due))
	}
	if due[0].ID != 1 || due[1].ID != 2 {
		t.Errorf("unexpected ordering: %d, %d", due[0].ID, due[1].ID)
	}
}

// TestMailingGetByID_OwnerScope verifies the scope folds into the WHERE
// clause and an out-of-scope row surfaces as ErrNotFound
func TestMailingGetByID_OwnerScope(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewMailingRepository(db)

	mock.ExpectQuery("(?s)FROM mailings.+WHERE id = \\$1.+AND owner_id = \\$2").
		WithArgs(7, 99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 7, ScopeOwner(99))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMailingGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewMailingRepository(db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("(?s)FROM mailings.+WHERE id = \\$1").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(mailingColumns()).
			AddRow(7, now, now.Add(time.Hour), "running", 3, 1, now, now))
	mock.ExpectQuery("SELECT recipient_id FROM mailing_recipients").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"recipient_id"}).AddRow(4).AddRow(5))

	mailing, err := repo.GetByID(context.Background(), 7, ScopeAll())
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if mailing.MessageID != 3 {
		t.Errorf("expected message ID 3, got %d", mailing.MessageID)
	}
	if len(mailing.RecipientIDs) != 2 {
		t.Errorf("expected 2 linked recipients, got %d", len(mailing.RecipientIDs))
	}
}

func TestMailingDisable(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewMailingRepository(db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE mailings").
		WithArgs(now.Add(-time.Second), string(models.MailingStatusFinished), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Disable(context.Background(), 7, now); err != nil {
		t.Fatalf("Disable failed: %v", err)
	}
}

func TestMailingDisable_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewMailingRepository(db)

	mock.ExpectExec("UPDATE mailings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Disable(context.Background(), 404, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMailingCreate_LinksRecipients(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewMailingRepository(db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mailing := &models.Mailing{
		StartTime:    now.Add(time.Hour),
		EndTime:      now.Add(2 * time.Hour),
		Status:       models.MailingStatusCreated,
		MessageID:    1,
		RecipientIDs: []int{4, 5},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO mailings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, now, now))
	prep := mock.ExpectPrepare("INSERT INTO mailing_recipients")
	prep.ExpectExec().WithArgs(10, 4).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(10, 5).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), mailing); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if mailing.ID != 10 {
		t.Errorf("expected assigned ID 10, got %d", mailing.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestMailingCount_EmptyScope: an anonymous scope must not match any rows
func TestMailingCount_EmptyScope(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewMailingRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM mailings WHERE 1=1 AND FALSE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	count, err := repo.Count(context.Background(), ScopeNone())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0, got %d", count)
	}
}
