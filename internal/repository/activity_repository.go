package repository

import (
	"context"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
)

type ActivityRepository interface {
	ApprovedEventCounts(ctx context.Context, userIDs []int) (map[int]int, error)
	ApprovedEventCount(ctx context.Context, userID int) (int, error)
	// RecentEvents returns up to perUser most recent approved events per user.
	RecentEvents(ctx context.Context, userIDs []int, perUser int) (map[int][]domain.EventSummary, error)
}
