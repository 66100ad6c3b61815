package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"mailflow/internal/cache"
	"mailflow/internal/models"
	"mailflow/internal/repository"
)

const homeStatsCacheKey = "stats:home"

// StatsService aggregates mailing statistics for the public home page and
// the per-owner report view
type StatsService struct {
	mailingRepo   repository.MailingRepository
	recipientRepo repository.RecipientRepository
	attemptRepo   repository.AttemptRepository
	cache         cache.Cache
	ttl           time.Duration
	now           func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(
	mailingRepo repository.MailingRepository,
	recipientRepo repository.RecipientRepository,
	attemptRepo repository.AttemptRepository,
	c cache.Cache,
	ttl time.Duration,
) *StatsService {
	return &StatsService{
		mailingRepo:   mailingRepo,
		recipientRepo: recipientRepo,
		attemptRepo:   attemptRepo,
		cache:         c,
		ttl:           ttl,
		now:           time.Now,
	}
}

// HomeStats are the site-wide counters shown on the landing page
type HomeStats struct {
	TotalMailings    int `json:"total_mailings"`
	ActiveMailings   int `json:"active_mailings"`
	UniqueRecipients int `json:"unique_recipients"`
}

// Report is the per-caller statistics view
type Report struct {
	TotalMailings    int                        `json:"total_mailings"`
	ActiveMailings   int                        `json:"active_mailings"`
	FinishedMailings int                        `json:"finished_mailings"`
	Attempts         models.MailingStats        `json:"attempts"`
	Mailings         []*models.MailingWithStats `json:"mailings"`
}

// Home returns the landing-page counters, served from cache when a fresh
// enough copy exists. Cache failures are logged and tolerated: the stats
// are recomputed from the database instead.
func (s *StatsService) Home(ctx context.Context) (*HomeStats, error) {
	if data, ok, err := s.cache.Get(ctx, homeStatsCacheKey); err != nil {
		log.Printf("⚠️ Stats cache read failed: %v", err)
	} else if ok {
		var stats HomeStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
		log.Printf("⚠️ Discarding corrupt stats cache entry")
	}

	stats, err := s.computeHome(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, homeStatsCacheKey, data, s.ttl); err != nil {
			log.Printf("⚠️ Stats cache write failed: %v", err)
		}
	}

	return stats, nil
}

func (s *StatsService) computeHome(ctx context.Context) (*HomeStats, error) {
	all := repository.ScopeAll()
	now := s.now()

	total, err := s.mailingRepo.Count(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to count mailings: %w", err)
	}

	active, err := s.mailingRepo.CountActive(ctx, now, all)
	if err != nil {
		return nil, fmt.Errorf("failed to count active mailings: %w", err)
	}

	recipients, err := s.recipientRepo.CountDistinct(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count recipients: %w", err)
	}

	return &HomeStats{
		TotalMailings:    total,
		ActiveMailings:   active,
		UniqueRecipients: recipients,
	}, nil
}

// BuildReport returns the caller's mailing statistics: lifecycle counts,
// attempt totals and a per-mailing breakdown, all limited to the caller's
// visible scope
func (s *StatsService) BuildReport(ctx context.Context, user *models.User) (*Report, error) {
	scope := ScopeFor(user)
	now := s.now()

	total, err := s.mailingRepo.Count(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count mailings: %w", err)
	}

	active, err := s.mailingRepo.CountActive(ctx, now, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count active mailings: %w", err)
	}

	finished, err := s.mailingRepo.CountCompleted(ctx, now, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count finished mailings: %w", err)
	}

	attempts, err := s.attemptRepo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	mailings, err := s.mailingRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list mailings: %w", err)
	}

	report := &Report{
		TotalMailings:    total,
		ActiveMailings:   active,
		FinishedMailings: finished,
		Attempts:         attempts,
		Mailings:         make([]*models.MailingWithStats, 0, len(mailings)),
	}

	for _, mailing := range mailings {
		stats, err := s.attemptRepo.StatsByMailing(ctx, mailing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load stats for mailing %d: %w", mailing.ID, err)
		}
		mailing.Status = mailing.CurrentStatus(now)
		report.Mailings = append(report.Mailings, &models.MailingWithStats{
			Mailing: *mailing,
			Stats:   stats,
		})
	}

	return report, nil
}
