package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type buddyRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewBuddyRepository(db *sqlx.DB, timeout time.Duration) repository.BuddyRepository {
	return &buddyRepository{db: db, timeout: timeout}
}

func (r *buddyRepository) Create(ctx context.Context, buddy *domain.Buddy) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	// user1_id stays the initiator, so no reordering here
	query := `
		INSERT INTO buddies (user1_id, user2_id, match_score, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, buddy.User1ID, buddy.User2ID, buddy.MatchScore, buddy.Status).
		Scan(&buddy.ID, &buddy.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrBuddyAlreadyExists
	}
	return err
}

func (r *buddyRepository) GetByID(ctx context.Context, id int) (*domain.Buddy, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var buddy domain.Buddy
	query := `SELECT id, user1_id, user2_id, match_score, status, created_at, updated_at FROM buddies WHERE id = $1`
	err := r.db.GetContext(ctx, &buddy, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBuddyNotFound
		}
		return nil, err
	}
	return &buddy, nil
}

func (r *buddyRepository) GetByPair(ctx context.Context, userA, userB int) (*domain.Buddy, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var buddy domain.Buddy
	query := `
		SELECT id, user1_id, user2_id, match_score, status, created_at, updated_at
		FROM buddies
		WHERE LEAST(user1_id, user2_id) = $1 AND GREATEST(user1_id, user2_id) = $2
		LIMIT 1
	`
	key := domain.NewPairKey(userA, userB)
	err := r.db.GetContext(ctx, &buddy, query, key.Low, key.High)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBuddyNotFound
		}
		return nil, err
	}
	return &buddy, nil
}

func (r *buddyRepository) ListByUser(ctx context.Context, userID int) ([]*domain.Buddy, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var buddies []*domain.Buddy
	query := `
		SELECT id, user1_id, user2_id, match_score, status, created_at, updated_at
		FROM buddies
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &buddies, query, userID)
	return buddies, err
}

func (r *buddyRepository) RelatedUserIDs(ctx context.Context, userID int) ([]int, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var ids []int
	query := `
		SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
		FROM buddies
		WHERE user1_id = $1 OR user2_id = $1
	`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *buddyRepository) UpdateStatus(ctx context.Context, id int, status domain.BuddyStatus) (*domain.Buddy, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	// only pending requests can be resolved; a concurrent decision loses here
	var buddy domain.Buddy
	query := `
		UPDATE buddies SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status = 'pending'
		RETURNING id, user1_id, user2_id, match_score, status, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &buddy, query, status, id)
	if err == nil {
		return &buddy, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM buddies WHERE id = $1)`, id); err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrInvalidTransition
	}
	return nil, domain.ErrBuddyNotFound
}

func (r *buddyRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `DELETE FROM buddies WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrBuddyNotFound
	}
	return nil
}
