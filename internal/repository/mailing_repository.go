package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mailflow/internal/models"

	"github.com/lib/pq"
)

type mailingRepository struct {
	db *sql.DB
}

// NewMailingRepository creates a new mailing repository
func NewMailingRepository(db *sql.DB) MailingRepository {
	return &mailingRepository{db: db}
}

// Create creates a mailing and its recipient links in one transaction
func (r *mailingRepository) Create(ctx context.Context, mailing *models.Mailing) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO mailings (start_time, end_time, status, message_id, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		mailing.StartTime,
		mailing.EndTime,
		mailing.Status,
		mailing.MessageID,
		mailing.OwnerID,
	).Scan(&mailing.ID, &mailing.CreatedAt, &mailing.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create mailing: %w", err)
	}

	if err := linkRecipients(ctx, tx, mailing.ID, mailing.RecipientIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a mailing by ID within the caller's scope
func (r *mailingRepository) GetByID(ctx context.Context, id int, scope Scope) (*models.Mailing, error) {
	query := `
		SELECT id, start_time, end_time, status, message_id, owner_id, created_at, updated_at
		FROM mailings
		WHERE id = $1
	`
	args := []interface{}{id}
	clause, clauseArgs := scope.clause("owner_id", 2)
	query += clause
	args = append(args, clauseArgs...)

	mailing := &models.Mailing{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&mailing.ID,
		&mailing.StartTime,
		&mailing.EndTime,
		&mailing.Status,
		&mailing.MessageID,
		&mailing.OwnerID,
		&mailing.CreatedAt,
		&mailing.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mailing: %w", err)
	}

	if mailing.RecipientIDs, err = r.recipientIDs(ctx, id); err != nil {
		return nil, err
	}

	return mailing, nil
}

// List retrieves the mailings visible in the caller's scope, newest window first
func (r *mailingRepository) List(ctx context.Context, scope Scope) ([]*models.Mailing, error) {
	query := `
		SELECT id, start_time, end_time, status, message_id, owner_id, created_at, updated_at
		FROM mailings
		WHERE 1=1
	`
	clause, args := scope.clause("owner_id", 1)
	query += clause + " ORDER BY start_time DESC"

	return r.queryMailings(ctx, query, args...)
}

// Update updates a mailing's window, message, status and recipient links
func (r *mailingRepository) Update(ctx context.Context, mailing *models.Mailing) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE mailings
		SET start_time = $1, end_time = $2, status = $3, message_id = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		mailing.StartTime,
		mailing.EndTime,
		mailing.Status,
		mailing.MessageID,
		mailing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mailing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	// Replace the recipient set wholesale
	if _, err := tx.ExecContext(ctx, `DELETE FROM mailing_recipients WHERE mailing_id = $1`, mailing.ID); err != nil {
		return fmt.Errorf("failed to clear recipient links: %w", err)
	}
	if err := linkRecipients(ctx, tx, mailing.ID, mailing.RecipientIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete deletes a mailing; attempts and recipient links cascade
func (r *mailingRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM mailings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mailing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateStatus writes the derived status back for a single mailing
func (r *mailingRepository) UpdateStatus(ctx context.Context, id int, status models.MailingStatus) error {
	query := `
		UPDATE mailings
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update mailing status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Disable force-finishes a mailing by moving end_time into the past.
// Skips creation-time validation: only the window end and status change.
func (r *mailingRepository) Disable(ctx context.Context, id int, now time.Time) error {
	query := `
		UPDATE mailings
		SET end_time = $1, status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, now.Add(-time.Second), models.MailingStatusFinished, id)
	if err != nil {
		return fmt.Errorf("failed to disable mailing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// RecipientsOf returns the mailing's current recipient set, ordered by email
func (r *mailingRepository) RecipientsOf(ctx context.Context, mailingID int) ([]*models.Recipient, error) {
	query := `
		SELECT r.id, r.email, r.full_name, r.comment, r.owner_id, r.created_at
		FROM recipients r
		JOIN mailing_recipients mr ON mr.recipient_id = r.id
		WHERE mr.mailing_id = $1
		ORDER BY r.email
	`

	rows, err := r.db.QueryContext(ctx, query, mailingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mailing recipients: %w", err)
	}
	defer rows.Close()

	recipients := []*models.Recipient{}
	for rows.Next() {
		recipient := &models.Recipient{}
		err := rows.Scan(
			&recipient.ID,
			&recipient.Email,
			&recipient.FullName,
			&recipient.Comment,
			&recipient.OwnerID,
			&recipient.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		recipients = append(recipients, recipient)
	}

	return recipients, nil
}

// ListDue returns mailings whose window contains now and whose stored
// status is still created or running
func (r *mailingRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Mailing, error) {
	query := `
		SELECT id, start_time, end_time, status, message_id, owner_id, created_at, updated_at
		FROM mailings
		WHERE status = ANY($1) AND start_time <= $2 AND end_time >= $2
		ORDER BY start_time
	`

	statuses := pq.Array([]string{
		string(models.MailingStatusCreated),
		string(models.MailingStatusRunning),
	})

	return r.queryMailings(ctx, query, statuses, now)
}

// SweepExpired bulk-updates expired running mailings to finished
func (r *mailingRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE mailings
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE status = $2 AND end_time < $3
	`

	result, err := r.db.ExecContext(ctx, query, models.MailingStatusFinished, models.MailingStatusRunning, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired mailings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// Count counts the mailings visible in the caller's scope
func (r *mailingRepository) Count(ctx context.Context, scope Scope) (int, error) {
	query := `SELECT COUNT(*) FROM mailings WHERE 1=1`
	clause, args := scope.clause("owner_id", 1)

	var count int
	err := r.db.QueryRowContext(ctx, query+clause, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count mailings: %w", err)
	}
	return count, nil
}

// CountActive counts mailings whose window contains now. Status is derived
// from the window, not trusted from the stored column.
func (r *mailingRepository) CountActive(ctx context.Context, now time.Time, scope Scope) (int, error) {
	query := `SELECT COUNT(*) FROM mailings WHERE start_time <= $1 AND end_time >= $1`
	args := []interface{}{now}
	clause, clauseArgs := scope.clause("owner_id", 2)
	args = append(args, clauseArgs...)

	var count int
	err := r.db.QueryRowContext(ctx, query+clause, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active mailings: %w", err)
	}
	return count, nil
}

// CountCompleted counts mailings whose end_time has passed
func (r *mailingRepository) CountCompleted(ctx context.Context, now time.Time, scope Scope) (int, error) {
	query := `SELECT COUNT(*) FROM mailings WHERE end_time < $1`
	args := []interface{}{now}
	clause, clauseArgs := scope.clause("owner_id", 2)
	args = append(args, clauseArgs...)

	var count int
	err := r.db.QueryRowContext(ctx, query+clause, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed mailings: %w", err)
	}
	return count, nil
}

// queryMailings runs a mailing SELECT and scans the rows
func (r *mailingRepository) queryMailings(ctx context.Context, query string, args ...interface{}) ([]*models.Mailing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mailings: %w", err)
	}
	defer rows.Close()

	mailings := []*models.Mailing{}
	for rows.Next() {
		mailing := &models.Mailing{}
		err := rows.Scan(
			&mailing.ID,
			&mailing.StartTime,
			&mailing.EndTime,
			&mailing.Status,
			&mailing.MessageID,
			&mailing.OwnerID,
			&mailing.CreatedAt,
			&mailing.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mailing: %w", err)
		}
		mailings = append(mailings, mailing)
	}

	return mailings, nil
}

// recipientIDs loads the linked recipient IDs for a mailing
func (r *mailingRepository) recipientIDs(ctx context.Context, mailingID int) ([]int, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT recipient_id FROM mailing_recipients WHERE mailing_id = $1 ORDER BY recipient_id`,
		mailingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient links: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan recipient link: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// linkRecipients inserts mailing_recipients rows inside the given transaction
func linkRecipients(ctx context.Context, tx *sql.Tx, mailingID int, recipientIDs []int) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mailing_recipients (mailing_id, recipient_id)
		VALUES ($1, $2)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare recipient link statement: %w", err)
	}
	defer stmt.Close()

	for _, recipientID := range recipientIDs {
		if _, err := stmt.ExecContext(ctx, mailingID, recipientID); err != nil {
			return fmt.Errorf("failed to link recipient %d: %w", recipientID, err)
		}
	}

	return nil
}
