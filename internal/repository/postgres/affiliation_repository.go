package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type affiliationRow struct {
	UserID int     `db:"user_id"`
	ID     int     `db:"id"`
	Name   string  `db:"name"`
	Icon   *string `db:"icon"`
}

type affiliationRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewAffiliationRepository(db *sqlx.DB, timeout time.Duration) repository.AffiliationRepository {
	return &affiliationRepository{db: db, timeout: timeout}
}

func (r *affiliationRepository) ListByUsers(ctx context.Context, kind domain.AffiliationKind, userIDs []int) (map[int][]domain.Affiliation, error) {
	result := make(map[int][]domain.Affiliation, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var query string
	switch kind {
	case domain.AffiliationSport:
		query = `
			SELECT us.user_id, s.id, s.name, s.icon
			FROM user_sports us JOIN sports s ON s.id = us.sport_id
			WHERE us.user_id = ANY($1)
		`
	case domain.AffiliationGoal:
		query = `
			SELECT ug.user_id, g.id, g.name, NULL::text AS icon
			FROM user_goals ug JOIN goals g ON g.id = ug.goal_id
			WHERE ug.user_id = ANY($1)
		`
	default:
		return nil, fmt.Errorf("unknown affiliation kind %q", kind)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var rows []affiliationRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], domain.Affiliation{ID: row.ID, Name: row.Name, Icon: row.Icon})
	}
	return result, nil
}
