package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mailflow/internal/models"
)

// Scope restricts queries to the rows a caller may see. It is computed
// once per request by the access gate and folded into WHERE clauses by
// every repository, so "exists but not yours" is indistinguishable from
// "does not exist".
type Scope struct {
	// Empty means no rows are visible (unauthenticated caller)
	Empty bool
	// All means every row is visible (staff or manager)
	All bool
	// OwnerID limits rows to one owner when neither Empty nor All is set
	OwnerID int
}

// ScopeAll returns a scope that sees every row
func ScopeAll() Scope { return Scope{All: true} }

// ScopeNone returns a scope that sees no rows
func ScopeNone() Scope { return Scope{Empty: true} }

// ScopeOwner returns a scope limited to one owner's rows
func ScopeOwner(ownerID int) Scope { return Scope{OwnerID: ownerID} }

// clause renders the scope as an AND fragment for the given owner column.
// argPos is the next free placeholder position; the returned args must be
// appended to the query arguments.
func (s Scope) clause(column string, argPos int) (string, []interface{}) {
	if s.Empty {
		return " AND FALSE", nil
	}
	if s.All {
		return "", nil
	}
	return fmt.Sprintf(" AND %s = $%d", column, argPos), []interface{}{s.OwnerID}
}

// RecipientRepository defines recipient data access operations
type RecipientRepository interface {
	Create(ctx context.Context, recipient *models.Recipient) error
	GetByID(ctx context.Context, id int, scope Scope) (*models.Recipient, error)
	List(ctx context.Context, scope Scope) ([]*models.Recipient, error)
	Update(ctx context.Context, recipient *models.Recipient) error
	Delete(ctx context.Context, id int) error
	CountDistinct(ctx context.Context) (int, error)
}

// MessageRepository defines message template data access operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int, scope Scope) (*models.Message, error)
	List(ctx context.Context, scope Scope) ([]*models.Message, error)
	Update(ctx context.Context, message *models.Message) error
	Delete(ctx context.Context, id int) error
}

// MailingRepository defines mailing data access operations
type MailingRepository interface {
	Create(ctx context.Context, mailing *models.Mailing) error
	GetByID(ctx context.Context, id int, scope Scope) (*models.Mailing, error)
	List(ctx context.Context, scope Scope) ([]*models.Mailing, error)
	Update(ctx context.Context, mailing *models.Mailing) error
	Delete(ctx context.Context, id int) error
	// UpdateStatus writes the derived status back for a single mailing
	UpdateStatus(ctx context.Context, id int, status models.MailingStatus) error
	// Disable force-sets end_time into the past and status to finished
	Disable(ctx context.Context, id int, now time.Time) error
	// RecipientsOf returns the mailing's current recipient set
	RecipientsOf(ctx context.Context, mailingID int) ([]*models.Recipient, error)
	// ListDue returns mailings whose window contains now and whose stored
	// status is created or running
	ListDue(ctx context.Context, now time.Time) ([]*models.Mailing, error)
	// SweepExpired bulk-updates running mailings whose end_time has passed
	// to finished, returning the number of rows changed. One conditional
	// UPDATE, no read-then-write loop.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
	Count(ctx context.Context, scope Scope) (int, error)
	CountActive(ctx context.Context, now time.Time, scope Scope) (int, error)
	CountCompleted(ctx context.Context, now time.Time, scope Scope) (int, error)
}

// AttemptRepository defines delivery-attempt log operations. Attempts are
// append-only: there is no update or delete beyond the FK cascades.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.MailingAttempt) error
	ListByMailing(ctx context.Context, mailingID int) ([]*models.MailingAttempt, error)
	ListVisible(ctx context.Context, scope Scope) ([]*models.MailingAttemptWithDetails, error)
	StatsByMailing(ctx context.Context, mailingID int) (models.MailingStats, error)
	CountByStatus(ctx context.Context, scope Scope) (models.MailingStats, error)
}

// UserRepository defines user account data access operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// DB is a wrapper around *sql.DB to allow passing in transaction
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ErrNotFound is returned when a row does not exist inside the caller's scope
var ErrNotFound = errors.New("not found")
