package repository

import (
	"context"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int) (*domain.UserProfile, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*domain.UserProfile, error)
	// ListDiscoverable returns active, discoverable users not in excludeIDs.
	ListDiscoverable(ctx context.Context, excludeIDs []int, limit int) ([]*domain.UserProfile, error)
}
