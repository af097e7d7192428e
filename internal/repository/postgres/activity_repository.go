package postgres

import (
	"context"
	"time"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type activityRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewActivityRepository(db *sqlx.DB, timeout time.Duration) repository.ActivityRepository {
	return &activityRepository{db: db, timeout: timeout}
}

func (r *activityRepository) ApprovedEventCounts(ctx context.Context, userIDs []int) (map[int]int, error) {
	counts := make(map[int]int, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var rows []struct {
		UserID int `db:"user_id"`
		Count  int `db:"count"`
	}
	query := `
		SELECT user_id, COUNT(*) AS count
		FROM event_rsvps
		WHERE status = 'approved' AND user_id = ANY($1)
		GROUP BY user_id
	`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.UserID] = row.Count
	}
	return counts, nil
}

func (r *activityRepository) ApprovedEventCount(ctx context.Context, userID int) (int, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var count int
	query := `SELECT COUNT(*) FROM event_rsvps WHERE status = 'approved' AND user_id = $1`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *activityRepository) RecentEvents(ctx context.Context, userIDs []int, perUser int) (map[int][]domain.EventSummary, error) {
	result := make(map[int][]domain.EventSummary, len(userIDs))
	if len(userIDs) == 0 || perUser <= 0 {
		return result, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var rows []struct {
		UserID int `db:"user_id"`
		domain.EventSummary
	}
	query := `
		SELECT user_id, id, title, sport_id, start_time FROM (
			SELECT er.user_id, e.id, e.title, e.sport_id, e.start_time,
			       ROW_NUMBER() OVER (PARTITION BY er.user_id ORDER BY er.rsvp_at DESC) AS rn
			FROM event_rsvps er JOIN events e ON e.id = er.event_id
			WHERE er.status = 'approved' AND er.user_id = ANY($1)
		) ranked
		WHERE rn <= $2
		ORDER BY user_id, rn
	`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs), perUser); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], row.EventSummary)
	}
	return result, nil
}
