package repository

import (
	"context"
	"database/sql"
	"fmt"

	"mailflow/internal/models"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(db *sql.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

// Create appends one delivery-attempt record. attempt_time is set by the
// database at insert and never touched again.
func (r *attemptRepository) Create(ctx context.Context, attempt *models.MailingAttempt) error {
	query := `
		INSERT INTO mailing_attempts (status, server_response, mailing_id, recipient_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, attempt_time
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		attempt.Status,
		attempt.ServerResponse,
		attempt.MailingID,
		attempt.RecipientID,
	).Scan(&attempt.ID, &attempt.AttemptTime)

	if err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}

	return nil
}

// ListByMailing returns a mailing's attempts, newest first
func (r *attemptRepository) ListByMailing(ctx context.Context, mailingID int) ([]*models.MailingAttempt, error) {
	query := `
		SELECT id, attempt_time, status, server_response, mailing_id, recipient_id
		FROM mailing_attempts
		WHERE mailing_id = $1
		ORDER BY attempt_time DESC
	`

	rows, err := r.db.QueryContext(ctx, query, mailingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	attempts := []*models.MailingAttempt{}
	for rows.Next() {
		attempt := &models.MailingAttempt{}
		err := rows.Scan(
			&attempt.ID,
			&attempt.AttemptTime,
			&attempt.Status,
			&attempt.ServerResponse,
			&attempt.MailingID,
			&attempt.RecipientID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, nil
}

// ListVisible returns the attempts for mailings inside the caller's scope,
// newest first, with recipient and subject details for display
func (r *attemptRepository) ListVisible(ctx context.Context, scope Scope) ([]*models.MailingAttemptWithDetails, error) {
	query := `
		SELECT a.id, a.attempt_time, a.status, a.server_response, a.mailing_id, a.recipient_id,
			r.email, msg.subject
		FROM mailing_attempts a
		JOIN mailings m ON a.mailing_id = m.id
		JOIN recipients r ON a.recipient_id = r.id
		JOIN messages msg ON m.message_id = msg.id
		WHERE 1=1
	`
	clause, args := scope.clause("m.owner_id", 1)
	query += clause + " ORDER BY a.attempt_time DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	attempts := []*models.MailingAttemptWithDetails{}
	for rows.Next() {
		attempt := &models.MailingAttemptWithDetails{}
		err := rows.Scan(
			&attempt.ID,
			&attempt.AttemptTime,
			&attempt.Status,
			&attempt.ServerResponse,
			&attempt.MailingID,
			&attempt.RecipientID,
			&attempt.RecipientEmail,
			&attempt.MailingSubject,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, nil
}

// StatsByMailing returns success/failure counts for one mailing
func (r *attemptRepository) StatsByMailing(ctx context.Context, mailingID int) (models.MailingStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE status = 'success') as successful,
			COUNT(*) FILTER (WHERE status = 'failure') as failed
		FROM mailing_attempts
		WHERE mailing_id = $1
	`

	stats := models.MailingStats{}
	err := r.db.QueryRowContext(ctx, query, mailingID).Scan(
		&stats.Total,
		&stats.Successful,
		&stats.Failed,
	)

	if err != nil && err != sql.ErrNoRows {
		return stats, fmt.Errorf("failed to get attempt stats: %w", err)
	}

	return stats, nil
}

// CountByStatus returns success/failure counts across the caller's scope
func (r *attemptRepository) CountByStatus(ctx context.Context, scope Scope) (models.MailingStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE a.status = 'success') as successful,
			COUNT(*) FILTER (WHERE a.status = 'failure') as failed
		FROM mailing_attempts a
		JOIN mailings m ON a.mailing_id = m.id
		WHERE 1=1
	`
	clause, args := scope.clause("m.owner_id", 1)

	stats := models.MailingStats{}
	err := r.db.QueryRowContext(ctx, query+clause, args...).Scan(
		&stats.Total,
		&stats.Successful,
		&stats.Failed,
	)

	if err != nil && err != sql.ErrNoRows {
		return stats, fmt.Errorf("failed to count attempts: %w", err)
	}

	return stats, nil
}
