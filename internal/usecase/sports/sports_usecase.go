package sports

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/infrastructure/refcache"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
)

// SportsUseCase serves the sports catalogue from a process-wide cache.
type SportsUseCase struct {
	catalogue *refcache.Value[[]domain.Sport]
}

func NewSportsUseCase(sportRepo repository.SportRepository, ttl time.Duration) *SportsUseCase {
	return &SportsUseCase{
		catalogue: refcache.New(ttl, func(ctx context.Context) ([]domain.Sport, error) {
			sports, err := sportRepo.List(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch sports: %w", err)
			}
			if sports == nil {
				sports = []domain.Sport{}
			}
			return sports, nil
		}),
	}
}

// List returns every sport ordered by name.
func (uc *SportsUseCase) List(ctx context.Context) ([]domain.Sport, error) {
	return uc.catalogue.Get(ctx)
}

// ByID returns the catalogue keyed by sport id.
func (uc *SportsUseCase) ByID(ctx context.Context) (map[int]domain.Sport, error) {
	sports, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]domain.Sport, len(sports))
	for _, s := range sports {
		byID[s.ID] = s
	}
	return byID, nil
}
