package service

import (
	"context"
	"testing"
	"time"

	"mailflow/internal/cache"
	"mailflow/internal/models"
	"mailflow/internal/repository"
)

func newStatsFixture() (*StatsService, *MockMailingRepository, *MockRecipientRepository, *MockAttemptRepository) {
	mailingRepo := NewMockMailingRepository()
	recipientRepo := NewMockRecipientRepository()
	attemptRepo := NewMockAttemptRepository()

	svc := NewStatsService(mailingRepo, recipientRepo, attemptRepo, cache.NewMemoryCache(), time.Minute)
	svc.now = fixedNow
	return svc, mailingRepo, recipientRepo, attemptRepo
}

func TestHomeStats(t *testing.T) {
	svc, mailingRepo, recipientRepo, _ := newStatsFixture()

	mailingRepo.CountFunc = func(ctx context.Context, scope repository.Scope) (int, error) { return 10, nil }
	mailingRepo.CountActiveFunc = func(ctx context.Context, now time.Time, scope repository.Scope) (int, error) { return 4, nil }
	recipientRepo.CountDistinctFunc = func(ctx context.Context) (int, error) { return 25, nil }

	stats, err := svc.Home(context.Background())
	AssertNoError(t, err)
	AssertEqual(t, stats.TotalMailings, 10)
	AssertEqual(t, stats.ActiveMailings, 4)
	AssertEqual(t, stats.UniqueRecipients, 25)
}

// TestHomeStats_Cached: within the TTL the second call is served from
// cache and never touches the database
func TestHomeStats_Cached(t *testing.T) {
	svc, mailingRepo, recipientRepo, _ := newStatsFixture()

	mailingRepo.CountFunc = func(ctx context.Context, scope repository.Scope) (int, error) { return 10, nil }

	_, err := svc.Home(context.Background())
	AssertNoError(t, err)

	stats, err := svc.Home(context.Background())
	AssertNoError(t, err)
	AssertEqual(t, stats.TotalMailings, 10)
	AssertEqual(t, mailingRepo.Calls["Count"], 1)
	AssertEqual(t, recipientRepo.Calls["CountDistinct"], 1)
}

// TestHomeStats_CacheFailureTolerated: a broken cache degrades to a
// database read instead of an error
func TestHomeStats_CacheFailureTolerated(t *testing.T) {
	mailingRepo := NewMockMailingRepository()
	recipientRepo := NewMockRecipientRepository()
	attemptRepo := NewMockAttemptRepository()
	mailingRepo.CountFunc = func(ctx context.Context, scope repository.Scope) (int, error) { return 7, nil }

	svc := NewStatsService(mailingRepo, recipientRepo, attemptRepo, failingCache{}, time.Minute)
	svc.now = fixedNow

	stats, err := svc.Home(context.Background())
	AssertNoError(t, err)
	AssertEqual(t, stats.TotalMailings, 7)
}

func TestBuildReport_ScopedToCaller(t *testing.T) {
	svc, mailingRepo, _, attemptRepo := newStatsFixture()

	var seen []repository.Scope
	mailingRepo.CountFunc = func(ctx context.Context, scope repository.Scope) (int, error) {
		seen = append(seen, scope)
		return 2, nil
	}
	mailingRepo.ListFunc = func(ctx context.Context, scope repository.Scope) ([]*models.Mailing, error) {
		seen = append(seen, scope)
		return []*models.Mailing{NewTestMailing(1), NewTestMailing(2)}, nil
	}
	attemptRepo.StatsByMailingFunc = func(ctx context.Context, mailingID int) (models.MailingStats, error) {
		return models.MailingStats{Total: mailingID, Successful: mailingID}, nil
	}

	report, err := svc.BuildReport(context.Background(), NewTestOwner())
	AssertNoError(t, err)
	AssertEqual(t, report.TotalMailings, 2)
	AssertEqual(t, len(report.Mailings), 2)
	AssertEqual(t, report.Mailings[1].Stats.Successful, 2)

	for _, scope := range seen {
		AssertEqual(t, scope, repository.ScopeOwner(1))
	}
}

// failingCache errors on every operation
type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, context.DeadlineExceeded
}

func (failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return context.DeadlineExceeded
}
