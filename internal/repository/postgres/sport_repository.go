package postgres

import (
	"context"
	"time"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type sportRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewSportRepository(db *sqlx.DB, timeout time.Duration) repository.SportRepository {
	return &sportRepository{db: db, timeout: timeout}
}

func (r *sportRepository) List(ctx context.Context) ([]domain.Sport, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var sports []domain.Sport
	err := r.db.SelectContext(ctx, &sports, `SELECT id, name, icon FROM sports ORDER BY name`)
	return sports, err
}

type photoRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewPhotoRepository(db *sqlx.DB, timeout time.Duration) repository.PhotoRepository {
	return &photoRepository{db: db, timeout: timeout}
}

func (r *photoRepository) ListByUsers(ctx context.Context, userIDs []int) (map[int][]string, error) {
	result := make(map[int][]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var rows []struct {
		UserID   int    `db:"user_id"`
		PhotoURL string `db:"photo_url"`
	}
	query := `
		SELECT user_id, photo_url FROM user_photos
		WHERE user_id = ANY($1) AND photo_url <> ''
		ORDER BY user_id, display_order
	`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], row.PhotoURL)
	}
	return result, nil
}
