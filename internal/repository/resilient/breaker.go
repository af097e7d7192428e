// Package resilient wraps the batched auxiliary reads used during ranking in
// circuit breakers. When the backing store keeps failing the breaker opens and
// calls fail fast, which the ranker already treats as an empty sub-result.
package resilient

import (
	"context"
	"errors"
	"time"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Config tunes the breakers.
type Config struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	Interval         time.Duration
}

func (c Config) settings(name string, logger zerolog.Logger) gobreaker.Settings {
	threshold := c.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    c.Interval,
		Timeout:     c.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// a client hanging up says nothing about the database
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}
}

type affiliationRepository struct {
	inner   repository.AffiliationRepository
	breaker *gobreaker.CircuitBreaker[map[int][]domain.Affiliation]
}

func NewAffiliationRepository(inner repository.AffiliationRepository, cfg Config, logger zerolog.Logger) repository.AffiliationRepository {
	return &affiliationRepository{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[map[int][]domain.Affiliation](cfg.settings("affiliations", logger)),
	}
}

func (r *affiliationRepository) ListByUsers(ctx context.Context, kind domain.AffiliationKind, userIDs []int) (map[int][]domain.Affiliation, error) {
	return r.breaker.Execute(func() (map[int][]domain.Affiliation, error) {
		return r.inner.ListByUsers(ctx, kind, userIDs)
	})
}

type activityRepository struct {
	inner   repository.ActivityRepository
	breaker *gobreaker.CircuitBreaker[map[int]int]
}

// NewActivityRepository guards the batched event-count read. Single-user counts
// and recent events pass through unguarded.
func NewActivityRepository(inner repository.ActivityRepository, cfg Config, logger zerolog.Logger) repository.ActivityRepository {
	return &activityRepository{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[map[int]int](cfg.settings("activity", logger)),
	}
}

func (r *activityRepository) ApprovedEventCounts(ctx context.Context, userIDs []int) (map[int]int, error) {
	return r.breaker.Execute(func() (map[int]int, error) {
		return r.inner.ApprovedEventCounts(ctx, userIDs)
	})
}

func (r *activityRepository) ApprovedEventCount(ctx context.Context, userID int) (int, error) {
	return r.inner.ApprovedEventCount(ctx, userID)
}

func (r *activityRepository) RecentEvents(ctx context.Context, userIDs []int, perUser int) (map[int][]domain.EventSummary, error) {
	return r.inner.RecentEvents(ctx, userIDs, perUser)
}
