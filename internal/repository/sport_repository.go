package repository

import (
	"context"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
)

type SportRepository interface {
	List(ctx context.Context) ([]domain.Sport, error)
}

type PhotoRepository interface {
	ListByUsers(ctx context.Context, userIDs []int) (map[int][]string, error)
}
