package repository

import (
	"context"
	"database/sql"
	"fmt"

	"mailflow/internal/models"
)

type messageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create creates a new message template
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (subject, body, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		message.Subject,
		message.Body,
		message.OwnerID,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// GetByID retrieves a message by ID within the caller's scope
func (r *messageRepository) GetByID(ctx context.Context, id int, scope Scope) (*models.Message, error) {
	query := `
		SELECT id, subject, body, owner_id, created_at
		FROM messages
		WHERE id = $1
	`
	args := []interface{}{id}
	clause, clauseArgs := scope.clause("owner_id", 2)
	query += clause
	args = append(args, clauseArgs...)

	message := &models.Message{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&message.ID,
		&message.Subject,
		&message.Body,
		&message.OwnerID,
		&message.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return message, nil
}

// List retrieves the messages visible in the caller's scope, ordered by subject
func (r *messageRepository) List(ctx context.Context, scope Scope) ([]*models.Message, error) {
	query := `
		SELECT id, subject, body, owner_id, created_at
		FROM messages
		WHERE 1=1
	`
	clause, args := scope.clause("owner_id", 1)
	query += clause + " ORDER BY subject"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		message := &models.Message{}
		err := rows.Scan(
			&message.ID,
			&message.Subject,
			&message.Body,
			&message.OwnerID,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}

	return messages, nil
}

// Update updates a message template
func (r *messageRepository) Update(ctx context.Context, message *models.Message) error {
	query := `
		UPDATE messages
		SET subject = $1, body = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, message.Subject, message.Body, message.ID)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
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

// Delete deletes a message template and cascades to mailings that use it
func (r *messageRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM messages WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
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
