package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
)

// DefaultQueryTimeout bounds every repository call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

const uniqueViolation pq.ErrorCode = "23505"

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
