package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mailflow/internal/models"
	"mailflow/internal/repository"
)

// MailingService handles mailing campaign business logic
type MailingService struct {
	mailingRepo   repository.MailingRepository
	messageRepo   repository.MessageRepository
	recipientRepo repository.RecipientRepository
	attemptRepo   repository.AttemptRepository
	now           func() time.Time
}

// NewMailingService creates a new mailing service
func NewMailingService(
	mailingRepo repository.MailingRepository,
	messageRepo repository.MessageRepository,
	recipientRepo repository.RecipientRepository,
	attemptRepo repository.AttemptRepository,
) *MailingService {
	return &MailingService{
		mailingRepo:   mailingRepo,
		messageRepo:   messageRepo,
		recipientRepo: recipientRepo,
		attemptRepo:   attemptRepo,
		now:           time.Now,
	}
}

// MailingRequest carries the mutable mailing fields
type MailingRequest struct {
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	MessageID    int       `json:"message_id"`
	RecipientIDs []int     `json:"recipient_ids"`
}

// MailingDetail is a mailing together with its attempt log
type MailingDetail struct {
	*models.Mailing
	Recipients []*models.Recipient      `json:"recipients"`
	Attempts   []*models.MailingAttempt `json:"attempts"`
	Stats      models.MailingStats      `json:"stats"`
}

// List returns the mailings visible to the caller. The stored status of
// each row is refreshed against the clock before it is returned, so stale
// statuses never leak out of a read.
func (s *MailingService) List(ctx context.Context, user *models.User) ([]*models.Mailing, error) {
	mailings, err := s.mailingRepo.List(ctx, ScopeFor(user))
	if err != nil {
		return nil, fmt.Errorf("failed to list mailings: %w", err)
	}

	now := s.now()
	for _, mailing := range mailings {
		s.refreshStatus(ctx, mailing, now)
	}

	return mailings, nil
}

// Get returns one mailing within the caller's visible scope
func (s *MailingService) Get(ctx context.Context, user *models.User, id int) (*models.Mailing, error) {
	mailing, err := s.mailingRepo.GetByID(ctx, id, ScopeFor(user))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "mailing", ID: id}
		}
		return nil, fmt.Errorf("failed to get mailing: %w", err)
	}

	s.refreshStatus(ctx, mailing, s.now())
	return mailing, nil
}

// GetDetail returns a mailing with its recipient set, attempt log and
// aggregated attempt counts
func (s *MailingService) GetDetail(ctx context.Context, user *models.User, id int) (*MailingDetail, error) {
	mailing, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	recipients, err := s.mailingRepo.RecipientsOf(ctx, mailing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mailing recipients: %w", err)
	}

	attempts, err := s.attemptRepo.ListByMailing(ctx, mailing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mailing attempts: %w", err)
	}

	stats, err := s.attemptRepo.StatsByMailing(ctx, mailing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mailing stats: %w", err)
	}

	return &MailingDetail{
		Mailing:    mailing,
		Recipients: recipients,
		Attempts:   attempts,
		Stats:      stats,
	}, nil
}

// Create creates a mailing owned by the caller. The referenced message and
// every recipient must be visible to the caller.
func (s *MailingService) Create(ctx context.Context, user *models.User, req *MailingRequest) (*models.Mailing, error) {
	if !CanMutate(user) {
		return nil, &PermissionError{Message: "you do not have permission to create mailings"}
	}

	now := s.now()
	mailing := &models.Mailing{
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		MessageID:    req.MessageID,
		RecipientIDs: req.RecipientIDs,
		OwnerID:      &user.ID,
	}
	mailing.Status = mailing.CurrentStatus(now)

	if err := mailing.Validate(now); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.checkReferences(ctx, user, mailing); err != nil {
		return nil, err
	}

	if err := s.mailingRepo.Create(ctx, mailing); err != nil {
		return nil, fmt.Errorf("failed to create mailing: %w", err)
	}

	return mailing, nil
}

// Update updates a mailing within the caller's visible scope
func (s *MailingService) Update(ctx context.Context, user *models.User, id int, req *MailingRequest) (*models.Mailing, error) {
	mailing, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if !CanMutate(user) {
		return nil, &PermissionError{Message: "you do not have permission to edit mailings"}
	}

	now := s.now()
	mailing.StartTime = req.StartTime
	mailing.EndTime = req.EndTime
	mailing.MessageID = req.MessageID
	mailing.RecipientIDs = req.RecipientIDs
	mailing.Status = mailing.CurrentStatus(now)

	if err := mailing.Validate(now); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.checkReferences(ctx, user, mailing); err != nil {
		return nil, err
	}

	if err := s.mailingRepo.Update(ctx, mailing); err != nil {
		return nil, fmt.Errorf("failed to update mailing: %w", err)
	}

	return mailing, nil
}

// Delete deletes a mailing and, via FK cascade, its attempt log
func (s *MailingService) Delete(ctx context.Context, user *models.User, id int) error {
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}

	if !CanMutate(user) {
		return &PermissionError{Message: "you do not have permission to delete mailings"}
	}

	if err := s.mailingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "mailing", ID: id}
		}
		return fmt.Errorf("failed to delete mailing: %w", err)
	}

	return nil
}

// Disable forcibly finishes a mailing by pulling its end time into the
// past. Disabling is a moderation action: it ignores ownership and looks
// the mailing up across all rows, but requires the disable privilege.
func (s *MailingService) Disable(ctx context.Context, user *models.User, id int) (*models.Mailing, error) {
	if !CanDisable(user) {
		return nil, &PermissionError{Message: "you do not have permission to disable mailings"}
	}

	mailing, err := s.mailingRepo.GetByID(ctx, id, repository.ScopeAll())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "mailing", ID: id}
		}
		return nil, fmt.Errorf("failed to get mailing: %w", err)
	}

	now := s.now()
	if err := s.mailingRepo.Disable(ctx, mailing.ID, now); err != nil {
		return nil, fmt.Errorf("failed to disable mailing: %w", err)
	}

	log.Printf("🚫 Mailing %d disabled by user %d", mailing.ID, user.ID)

	return s.mailingRepo.GetByID(ctx, mailing.ID, repository.ScopeAll())
}

// checkReferences verifies the message and every recipient exist inside
// the caller's visible scope, so a mailing can never reference rows its
// owner cannot see
func (s *MailingService) checkReferences(ctx context.Context, user *models.User, mailing *models.Mailing) error {
	scope := ScopeFor(user)

	if _, err := s.messageRepo.GetByID(ctx, mailing.MessageID, scope); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ValidationError{Message: fmt.Sprintf("message %d does not exist", mailing.MessageID)}
		}
		return fmt.Errorf("failed to check message: %w", err)
	}

	if len(mailing.RecipientIDs) == 0 {
		return &ValidationError{Message: "at least one recipient is required"}
	}

	for _, recipientID := range mailing.RecipientIDs {
		if _, err := s.recipientRepo.GetByID(ctx, recipientID, scope); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &ValidationError{Message: fmt.Sprintf("recipient %d does not exist", recipientID)}
			}
			return fmt.Errorf("failed to check recipient: %w", err)
		}
	}

	return nil
}

// refreshStatus writes the derived status back when the stored column has
// drifted. A write failure only logs: the caller still gets the correct
// derived value.
func (s *MailingService) refreshStatus(ctx context.Context, mailing *models.Mailing, now time.Time) {
	current := mailing.CurrentStatus(now)
	if current == mailing.Status {
		return
	}

	if err := s.mailingRepo.UpdateStatus(ctx, mailing.ID, current); err != nil {
		log.Printf("⚠️ Failed to refresh status for mailing %d: %v", mailing.ID, err)
	}
	mailing.Status = current
}
