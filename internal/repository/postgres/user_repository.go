package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const userColumns = `id, full_name, age, location, bio, avatar_url, is_discoverable, is_active, created_at`

type userRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewUserRepository(db *sqlx.DB, timeout time.Duration) repository.UserRepository {
	return &userRepository{db: db, timeout: timeout}
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.UserProfile, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user domain.UserProfile
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*domain.UserProfile, error) {
	result := make(map[int]*domain.UserProfile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var users []*domain.UserProfile
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	if err := r.db.SelectContext(ctx, &users, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *userRepository) ListDiscoverable(ctx context.Context, excludeIDs []int, limit int) ([]*domain.UserProfile, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if excludeIDs == nil {
		excludeIDs = []int{}
	}

	var users []*domain.UserProfile
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = true AND is_discoverable = true AND NOT (id = ANY($1))
		ORDER BY id
		LIMIT $2
	`
	err := r.db.SelectContext(ctx, &users, query, pq.Array(excludeIDs), limit)
	return users, err
}
