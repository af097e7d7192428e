package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const sportsKey = "buddyfit:sports:all"

// sportCache puts a shared Redis copy of the sports catalogue in front of
// another SportRepository, so every instance reloads it at most once per TTL.
// Redis errors are logged and fall through to the inner repository.
type sportCache struct {
	client *goredis.Client
	inner  repository.SportRepository
	ttl    time.Duration
	logger zerolog.Logger
}

func NewSportCache(client *goredis.Client, inner repository.SportRepository, ttl time.Duration, logger zerolog.Logger) repository.SportRepository {
	return &sportCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		logger: logger.With().Str("component", "sport_cache").Logger(),
	}
}

func (c *sportCache) List(ctx context.Context) ([]domain.Sport, error) {
	raw, err := c.client.Get(ctx, sportsKey).Bytes()
	switch {
	case err == nil:
		var sports []domain.Sport
		if err := json.Unmarshal(raw, &sports); err == nil {
			return sports, nil
		}
		c.logger.Warn().Msg("Discarding malformed cached sports")
	case !errors.Is(err, goredis.Nil):
		c.logger.Warn().Err(err).Msg("Redis read failed")
	}

	sports, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(sports); err == nil {
		if err := c.client.Set(ctx, sportsKey, payload, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Msg("Redis write failed")
		}
	}
	return sports, nil
}
