package service

import (
	"context"
	"time"

	"mailflow/internal/models"
	"mailflow/internal/repository"
)

// Function-field mocks for the repository interfaces. A nil field falls
// back to a benign default; Calls tracks invocation counts per method.

// MockRecipientRepository mocks repository.RecipientRepository
type MockRecipientRepository struct {
	CreateFunc        func(ctx context.Context, recipient *models.Recipient) error
	GetByIDFunc       func(ctx context.Context, id int, scope repository.Scope) (*models.Recipient, error)
	ListFunc          func(ctx context.Context, scope repository.Scope) ([]*models.Recipient, error)
	UpdateFunc        func(ctx context.Context, recipient *models.Recipient) error
	DeleteFunc        func(ctx context.Context, id int) error
	CountDistinctFunc func(ctx context.Context) (int, error)

	Calls map[string]int
}

func NewMockRecipientRepository() *MockRecipientRepository {
	return &MockRecipientRepository{Calls: make(map[string]int)}
}

func (m *MockRecipientRepository) Create(ctx context.Context, recipient *models.Recipient) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, recipient)
	}
	recipient.ID = 1
	recipient.CreatedAt = time.Now()
	return nil
}

func (m *MockRecipientRepository) GetByID(ctx context.Context, id int, scope repository.Scope) (*models.Recipient, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, scope)
	}
	return NewTestRecipient(id, "recipient@example.com"), nil
}

func (m *MockRecipientRepository) List(ctx context.Context, scope repository.Scope) ([]*models.Recipient, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, scope)
	}
	return nil, nil
}

func (m *MockRecipientRepository) Update(ctx context.Context, recipient *models.Recipient) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, recipient)
	}
	return nil
}

func (m *MockRecipientRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRecipientRepository) CountDistinct(ctx context.Context) (int, error) {
	m.Calls["CountDistinct"]++
	if m.CountDistinctFunc != nil {
		return m.CountDistinctFunc(ctx)
	}
	return 0, nil
}

// MockMessageRepository mocks repository.MessageRepository
type MockMessageRepository struct {
	CreateFunc  func(ctx context.Context, message *models.Message) error
	GetByIDFunc func(ctx context.Context, id int, scope repository.Scope) (*models.Message, error)
	ListFunc    func(ctx context.Context, scope repository.Scope) ([]*models.Message, error)
	UpdateFunc  func(ctx context.Context, message *models.Message) error
	DeleteFunc  func(ctx context.Context, id int) error

	Calls map[string]int
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{Calls: make(map[string]int)}
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, message)
	}
	message.ID = 1
	message.CreatedAt = time.Now()
	return nil
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id int, scope repository.Scope) (*models.Message, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, scope)
	}
	return NewTestMessage(id), nil
}

func (m *MockMessageRepository) List(ctx context.Context, scope repository.Scope) ([]*models.Message, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, scope)
	}
	return nil, nil
}

func (m *MockMessageRepository) Update(ctx context.Context, message *models.Message) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, message)
	}
	return nil
}

func (m *MockMessageRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockMailingRepository mocks repository.MailingRepository
type MockMailingRepository struct {
	CreateFunc         func(ctx context.Context, mailing *models.Mailing) error
	GetByIDFunc        func(ctx context.Context, id int, scope repository.Scope) (*models.Mailing, error)
	ListFunc           func(ctx context.Context, scope repository.Scope) ([]*models.Mailing, error)
	UpdateFunc         func(ctx context.Context, mailing *models.Mailing) error
	DeleteFunc         func(ctx context.Context, id int) error
	UpdateStatusFunc   func(ctx context.Context, id int, status models.MailingStatus) error
	DisableFunc        func(ctx context.Context, id int, now time.Time) error
	RecipientsOfFunc   func(ctx context.Context, mailingID int) ([]*models.Recipient, error)
	ListDueFunc        func(ctx context.Context, now time.Time) ([]*models.Mailing, error)
	SweepExpiredFunc   func(ctx context.Context, now time.Time) (int64, error)
	CountFunc          func(ctx context.Context, scope repository.Scope) (int, error)
	CountActiveFunc    func(ctx context.Context, now time.Time, scope repository.Scope) (int, error)
	CountCompletedFunc func(ctx context.Context, now time.Time, scope repository.Scope) (int, error)

	Calls map[string]int
}

func NewMockMailingRepository() *MockMailingRepository {
	return &MockMailingRepository{Calls: make(map[string]int)}
}

func (m *MockMailingRepository) Create(ctx context.Context, mailing *models.Mailing) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, mailing)
	}
	mailing.ID = 1
	mailing.CreatedAt = time.Now()
	mailing.UpdatedAt = time.Now()
	return nil
}

func (m *MockMailingRepository) GetByID(ctx context.Context, id int, scope repository.Scope) (*models.Mailing, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, scope)
	}
	return NewTestMailing(id), nil
}

func (m *MockMailingRepository) List(ctx context.Context, scope repository.Scope) ([]*models.Mailing, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, scope)
	}
	return nil, nil
}

func (m *MockMailingRepository) Update(ctx context.Context, mailing *models.Mailing) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, mailing)
	}
	return nil
}

func (m *MockMailingRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockMailingRepository) UpdateStatus(ctx context.Context, id int, status models.MailingStatus) error {
	m.Calls["UpdateStatus"]++
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockMailingRepository) Disable(ctx context.Context, id int, now time.Time) error {
	m.Calls["Disable"]++
	if m.DisableFunc != nil {
		return m.DisableFunc(ctx, id, now)
	}
	return nil
}

func (m *MockMailingRepository) RecipientsOf(ctx context.Context, mailingID int) ([]*models.Recipient, error) {
	m.Calls["RecipientsOf"]++
	if m.RecipientsOfFunc != nil {
		return m.RecipientsOfFunc(ctx, mailingID)
	}
	return nil, nil
}

func (m *MockMailingRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Mailing, error) {
	m.Calls["ListDue"]++
	if m.ListDueFunc != nil {
		return m.ListDueFunc(ctx, now)
	}
	return nil, nil
}

func (m *MockMailingRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	m.Calls["SweepExpired"]++
	if m.SweepExpiredFunc != nil {
		return m.SweepExpiredFunc(ctx, now)
	}
	return 0, nil
}

func (m *MockMailingRepository) Count(ctx context.Context, scope repository.Scope) (int, error) {
	m.Calls["Count"]++
	if m.CountFunc != nil {
		return m.CountFunc(ctx, scope)
	}
	return 0, nil
}

func (m *MockMailingRepository) CountActive(ctx context.Context, now time.Time, scope repository.Scope) (int, error) {
	m.Calls["CountActive"]++
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx, now, scope)
	}
	return 0, nil
}

func (m *MockMailingRepository) CountCompleted(ctx context.Context, now time.Time, scope repository.Scope) (int, error) {
	m.Calls["CountCompleted"]++
	if m.CountCompletedFunc != nil {
		return m.CountCompletedFunc(ctx, now, scope)
	}
	return 0, nil
}

// MockAttemptRepository mocks repository.AttemptRepository
type MockAttemptRepository struct {
	CreateFunc         func(ctx context.Context, attempt *models.MailingAttempt) error
	ListByMailingFunc  func(ctx context.Context, mailingID int) ([]*models.MailingAttempt, error)
	ListVisibleFunc    func(ctx context.Context, scope repository.Scope) ([]*models.MailingAttemptWithDetails, error)
	StatsByMailingFunc func(ctx context.Context, mailingID int) (models.MailingStats, error)
	CountByStatusFunc  func(ctx context.Context, scope repository.Scope) (models.MailingStats, error)

	Calls    map[string]int
	Recorded []*models.MailingAttempt // attempts passed to Create
}

func NewMockAttemptRepository() *MockAttemptRepository {
	return &MockAttemptRepository{Calls: make(map[string]int)}
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *models.MailingAttempt) error {
	m.Calls["Create"]++
	m.Recorded = append(m.Recorded, attempt)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, attempt)
	}
	attempt.ID = len(m.Recorded)
	attempt.AttemptTime = time.Now()
	return nil
}

func (m *MockAttemptRepository) ListByMailing(ctx context.Context, mailingID int) ([]*models.MailingAttempt, error) {
	m.Calls["ListByMailing"]++
	if m.ListByMailingFunc != nil {
		return m.ListByMailingFunc(ctx, mailingID)
	}
	return nil, nil
}

func (m *MockAttemptRepository) ListVisible(ctx context.Context, scope repository.Scope) ([]*models.MailingAttemptWithDetails, error) {
	m.Calls["ListVisible"]++
	if m.ListVisibleFunc != nil {
		return m.ListVisibleFunc(ctx, scope)
	}
	return nil, nil
}

func (m *MockAttemptRepository) StatsByMailing(ctx context.Context, mailingID int) (models.MailingStats, error) {
	m.Calls["StatsByMailing"]++
	if m.StatsByMailingFunc != nil {
		return m.StatsByMailingFunc(ctx, mailingID)
	}
	return models.MailingStats{}, nil
}

func (m *MockAttemptRepository) CountByStatus(ctx context.Context, scope repository.Scope) (models.MailingStats, error) {
	m.Calls["CountByStatus"]++
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, scope)
	}
	return models.MailingStats{}, nil
}

// MockUserRepository mocks repository.UserRepository
type MockUserRepository struct {
	CreateFunc     func(ctx context.Context, user *models.User) error
	GetByIDFunc    func(ctx context.Context, id int) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	UpdateFunc     func(ctx context.Context, user *models.User) error

	Calls map[string]int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Calls: make(map[string]int)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	user.CreatedAt = time.Now()
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return NewTestOwner(), nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.Calls["GetByEmail"]++
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return NewTestOwner(), nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// MockMailer records sends and fails for addresses listed in FailFor
type MockMailer struct {
	FailFor map[string]error
	Sent    []string
}

func NewMockMailer() *MockMailer {
	return &MockMailer{FailFor: make(map[string]error)}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	if err, ok := m.FailFor[to]; ok {
		return err
	}
	m.Sent = append(m.Sent, to)
	return nil
}
