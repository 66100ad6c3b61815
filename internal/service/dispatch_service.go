package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mailflow/internal/mailer"
	"mailflow/internal/metrics"
	"mailflow/internal/models"
	"mailflow/internal/repository"
)

// DispatchService sends mailings to their recipients and records one
// attempt per delivery try. It is also the scheduler's entry point.
type DispatchService struct {
	mailingRepo repository.MailingRepository
	messageRepo repository.MessageRepository
	attemptRepo repository.AttemptRepository
	mailer      mailer.Mailer
	now         func() time.Time
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(
	mailingRepo repository.MailingRepository,
	messageRepo repository.MessageRepository,
	attemptRepo repository.AttemptRepository,
	m mailer.Mailer,
) *DispatchService {
	return &DispatchService{
		mailingRepo: mailingRepo,
		messageRepo: messageRepo,
		attemptRepo: attemptRepo,
		mailer:      m,
		now:         time.Now,
	}
}

// DispatchReport summarises one dispatch pass over a mailing
type DispatchReport struct {
	MailingID int `json:"mailing_id"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// SendNow manually triggers a dispatch of one mailing within the caller's
// visible scope
func (s *DispatchService) SendNow(ctx context.Context, user *models.User, id int) (*DispatchReport, error) {
	if !CanMutate(user) {
		return nil, &PermissionError{Message: "you do not have permission to send mailings"}
	}

	mailing, err := s.mailingRepo.GetByID(ctx, id, ScopeFor(user))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "mailing", ID: id}
		}
		return nil, fmt.Errorf("failed to get mailing: %w", err)
	}

	return s.Dispatch(ctx, mailing)
}

// Dispatch sends the mailing's message to every recipient, logging one
// attempt row per recipient. A failed recipient never aborts the pass:
// the failure is recorded and the loop moves on. Delivery is not
// idempotent; dispatching twice sends twice.
func (s *DispatchService) Dispatch(ctx context.Context, mailing *models.Mailing) (*DispatchReport, error) {
	now := s.now()
	if !mailing.IsActive(now) {
		metrics.DispatchTotal.WithLabelValues("rejected").Inc()
		return nil, &BusinessLogicError{Message: fmt.Sprintf("mailing %d is not inside its send window", mailing.ID)}
	}

	message, err := s.messageRepo.GetByID(ctx, mailing.MessageID, repository.ScopeAll())
	if err != nil {
		return nil, fmt.Errorf("failed to load message for mailing %d: %w", mailing.ID, err)
	}

	recipients, err := s.mailingRepo.RecipientsOf(ctx, mailing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients for mailing %d: %w", mailing.ID, err)
	}

	metrics.DispatchTotal.WithLabelValues("ok").Inc()
	log.Printf("📨 Dispatching mailing %d to %d recipients", mailing.ID, len(recipients))

	report := &DispatchReport{MailingID: mailing.ID}
	for _, recipient := range recipients {
		attempt := &models.MailingAttempt{
			MailingID:   mailing.ID,
			RecipientID: recipient.ID,
		}

		start := s.now()
		sendErr := s.mailer.Send(ctx, recipient.Email, message.Subject, message.Body)
		metrics.SendDuration.Observe(s.now().Sub(start).Seconds())

		if sendErr != nil {
			attempt.Status = models.AttemptStatusFailure
			attempt.ServerResponse = sendErr.Error()
			report.Failed++
			log.Printf("❌ Delivery to %s failed: %v", recipient.Email, sendErr)
		} else {
			attempt.Status = models.AttemptStatusSuccess
			attempt.ServerResponse = fmt.Sprintf("delivered to %s", recipient.Email)
			report.Sent++
		}
		metrics.AttemptTotal.WithLabelValues(string(attempt.Status)).Inc()

		if err := s.attemptRepo.Create(ctx, attempt); err != nil {
			return report, fmt.Errorf("failed to record attempt for recipient %d: %w", recipient.ID, err)
		}
	}

	// The window may have closed while sending
	status := mailing.CurrentStatus(s.now())
	if err := s.mailingRepo.UpdateStatus(ctx, mailing.ID, status); err != nil {
		return report, fmt.Errorf("failed to update mailing %d status: %w", mailing.ID, err)
	}
	mailing.Status = status

	log.Printf("✅ Mailing %d dispatched: %d sent, %d failed", mailing.ID, report.Sent, report.Failed)
	return report, nil
}

// RunScheduledPass is the periodic entry point. It dispatches every due
// mailing, then sweeps expired ones to finished in one bulk update. A
// mailing that fails to dispatch is logged and skipped so the rest of the
// pass still runs.
func (s *DispatchService) RunScheduledPass(ctx context.Context) error {
	now := s.now()

	due, err := s.mailingRepo.ListDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list due mailings: %w", err)
	}

	log.Printf("🚀 Scheduled pass: %d mailings due", len(due))

	for _, mailing := range due {
		if _, err := s.Dispatch(ctx, mailing); err != nil {
			log.Printf("❌ Failed to dispatch mailing %d: %v", mailing.ID, err)
		}
	}

	swept, err := s.mailingRepo.SweepExpired(ctx, s.now())
	if err != nil {
		return fmt.Errorf("failed to sweep expired mailings: %w", err)
	}
	metrics.SweepUpdatedTotal.Add(float64(swept))
	if swept > 0 {
		log.Printf("🧹 Swept %d expired mailings to finished", swept)
	}

	return nil
}
