package service

import (
	"context"
	"errors"
	"fmt"

	"mailflow/internal/models"
	"mailflow/internal/repository"
)

// RecipientService handles recipient business logic
type RecipientService struct {
	recipientRepo repository.RecipientRepository
}

// NewRecipientService creates a new recipient service
func NewRecipientService(recipientRepo repository.RecipientRepository) *RecipientService {
	return &RecipientService{recipientRepo: recipientRepo}
}

// RecipientRequest carries the mutable recipient fields
type RecipientRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Comment  string `json:"comment"`
}

// List returns the recipients visible to the caller
func (s *RecipientService) List(ctx context.Context, user *models.User) ([]*models.Recipient, error) {
	recipients, err := s.recipientRepo.List(ctx, ScopeFor(user))
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	return recipients, nil
}

// Get returns one recipient within the caller's visible scope
func (s *RecipientService) Get(ctx context.Context, user *models.User, id int) (*models.Recipient, error) {
	recipient, err := s.recipientRepo.GetByID(ctx, id, ScopeFor(user))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "recipient", ID: id}
		}
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	return recipient, nil
}

// Create creates a recipient owned by the caller
func (s *RecipientService) Create(ctx context.Context, user *models.User, req *RecipientRequest) (*models.Recipient, error) {
	if !CanMutate(user) {
		return nil, &PermissionError{Message: "you do not have permission to create recipients"}
	}

	recipient := &models.Recipient{
		Email:    req.Email,
		FullName: req.FullName,
		Comment:  req.Comment,
		OwnerID:  &user.ID,
	}

	if err := recipient.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.recipientRepo.Create(ctx, recipient); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "recipient", Message: fmt.Sprintf("email %s already exists", req.Email)}
		}
		return nil, fmt.Errorf("failed to create recipient: %w", err)
	}

	return recipient, nil
}

// Update updates a recipient within the caller's visible scope
func (s *RecipientService) Update(ctx context.Context, user *models.User, id int, req *RecipientRequest) (*models.Recipient, error) {
	recipient, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if !CanMutate(user) {
		return nil, &PermissionError{Message: "you do not have permission to edit recipients"}
	}

	recipient.Email = req.Email
	recipient.FullName = req.FullName
	recipient.Comment = req.Comment

	if err := recipient.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.recipientRepo.Update(ctx, recipient); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "recipient", Message: fmt.Sprintf("email %s already exists", req.Email)}
		}
		return nil, fmt.Errorf("failed to update recipient: %w", err)
	}

	return recipient, nil
}

// Delete deletes a recipient within the caller's visible scope. Mailing
// links and attempt rows cascade away with it.
func (s *RecipientService) Delete(ctx context.Context, user *models.User, id int) error {
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}

	if !CanMutate(user) {
		return &PermissionError{Message: "you do not have permission to delete recipients"}
	}

	if err := s.recipientRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "recipient", ID: id}
		}
		return fmt.Errorf("failed to delete recipient: %w", err)
	}

	return nil
}
