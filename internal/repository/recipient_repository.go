package repository

import (
	"context"
	"database/sql"
	"fmt"

	"mailflow/internal/models"
)

type recipientRepository struct {
	db *sql.DB
}

// NewRecipientRepository creates a new recipient repository
func NewRecipientRepository(db *sql.DB) RecipientRepository {
	return &recipientRepository{db: db}
}

// Create creates a new recipient
func (r *recipientRepository) Create(ctx context.Context, recipient *models.Recipient) error {
	query := `
		INSERT INTO recipients (email, full_name, comment, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		recipient.Email,
		recipient.FullName,
		recipient.Comment,
		recipient.OwnerID,
	).Scan(&recipient.ID, &recipient.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create recipient: %w", err)
	}

	return nil
}

// GetByID retrieves a recipient by ID within the caller's scope
func (r *recipientRepository) GetByID(ctx context.Context, id int, scope Scope) (*models.Recipient, error) {
	query := `
		SELECT id, email, full_name, comment, owner_id, created_at
		FROM recipients
		WHERE id = $1
	`
	args := []interface{}{id}
	clause, clauseArgs := scope.clause("owner_id", 2)
	query += clause
	args = append(args, clauseArgs...)

	recipient := &models.Recipient{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&recipient.ID,
		&recipient.Email,
		&recipient.FullName,
		&recipient.Comment,
		&recipient.OwnerID,
		&recipient.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	return recipient, nil
}

// List retrieves the recipients visible in the caller's scope, ordered by email
func (r *recipientRepository) List(ctx context.Context, scope Scope) ([]*models.Recipient, error) {
	query := `
		SELECT id, email, full_name, comment, owner_id, created_at
		FROM recipients
		WHERE 1=1
	`
	clause, args := scope.clause("owner_id", 1)
	query += clause + " ORDER BY email"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
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

// Update updates a recipient
func (r *recipientRepository) Update(ctx context.Context, recipient *models.Recipient) error {
	query := `
		UPDATE recipients
		SET email = $1, full_name = $2, comment = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		recipient.Email,
		recipient.FullName,
		recipient.Comment,
		recipient.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update recipient: %w", err)
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

// Delete deletes a recipient. The mailing_recipients links and the
// recipient's attempts go with it via FK cascades.
func (r *recipientRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM recipients WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipient: %w", err)
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

// CountDistinct counts unique recipient addresses across all owners
func (r *recipientRepository) CountDistinct(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT email) FROM recipients`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipients: %w", err)
	}
	return count, nil
}
