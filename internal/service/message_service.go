package service

import (
	"context"
	"errors"
	"fmt"

	"mailflow/internal/models"
	"mailflow/internal/repository"
)

// MessageService handles message template business logic
type MessageService struct {
	messageRepo repository.MessageRepository
}

// NewMessageService creates a new message service
func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

// MessageRequest carries the mutable message fields
type MessageRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// List returns the message templates visible to the caller
func (s *MessageService) List(ctx context.Context, user *models.User) ([]*models.Message, error) {
	messages, err := s.messageRepo.List(ctx, ScopeFor(user))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// Get returns one message within the caller's visible scope
func (s *MessageService) Get(ctx context.Context, user *models.User, id int) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, id, ScopeFor(user))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "message", ID: id}
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return message, nil
}

// Create creates a message template owned by the caller
func (s *MessageService) Create(ctx context.Context, user *models.User, req *MessageRequest) (*models.Message, error) {
	if !CanMutate(user) {
		return nil, &PermissionError{Message: "you do not have permission to create messages"}
	}

	message := &models.Message{
		Subject: req.Subject,
		Body:    req.Body,
		OwnerID: &user.ID,
	}

	if err := message.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return message, nil
}

// Update updates a message template within the caller's visible scope
func (s *MessageService) Update(ctx context.Context, user *models.User, id int, req *MessageRequest) (*models.Message, error) {
	message, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if !CanMutate(user) {
		return nil, &PermissionError{Message: "you do not have permission to edit messages"}
	}

	message.Subject = req.Subject
	message.Body = req.Body

	if err := message.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.messageRepo.Update(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}

	return message, nil
}

// Delete deletes a message template; mailings that reference it cascade away
func (s *MessageService) Delete(ctx context.Context, user *models.User, id int) error {
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}

	if !CanMutate(user) {
		return &PermissionError{Message: "you do not have permission to delete messages"}
	}

	if err := s.messageRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "message", ID: id}
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}
