package repository

import (
	"context"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
)

type BuddyRepository interface {
	Create(ctx context.Context, buddy *domain.Buddy) error
	GetByID(ctx context.Context, id int) (*domain.Buddy, error)
	// GetByPair finds the relationship between two users in either direction.
	GetByPair(ctx context.Context, userA, userB int) (*domain.Buddy, error)
	ListByUser(ctx context.Context, userID int) ([]*domain.Buddy, error)
	// RelatedUserIDs returns every user the given user has a relationship with.
	RelatedUserIDs(ctx context.Context, userID int) ([]int, error)
	// UpdateStatus resolves a pending relationship. It returns ErrInvalidTransition
	// when the relationship exists but is no longer pending.
	UpdateStatus(ctx context.Context, id int, status domain.BuddyStatus) (*domain.Buddy, error)
	Delete(ctx context.Context, id int) error
}
