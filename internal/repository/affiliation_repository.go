package repository

import (
	"context"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
)

type AffiliationRepository interface {
	// ListByUsers resolves the affiliations of many users in one round-trip.
	ListByUsers(ctx context.Context, kind domain.AffiliationKind, userIDs []int) (map[int][]domain.Affiliation, error)
}
