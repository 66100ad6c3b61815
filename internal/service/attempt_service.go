package service

import (
	"context"
	"fmt"

	"mailflow/internal/models"
	"mailflow/internal/repository"
)

// AttemptService exposes the read-only delivery attempt log
type AttemptService struct {
	attemptRepo repository.AttemptRepository
}

// NewAttemptService creates a new attempt service
func NewAttemptService(attemptRepo repository.AttemptRepository) *AttemptService {
	return &AttemptService{attemptRepo: attemptRepo}
}

// List returns the attempts for mailings visible to the caller, newest first
func (s *AttemptService) List(ctx context.Context, user *models.User) ([]*models.MailingAttemptWithDetails, error) {
	attempts, err := s.attemptRepo.ListVisible(ctx, ScopeFor(user))
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}
