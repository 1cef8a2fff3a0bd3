package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
)

// OccurrenceGuard records which birthday occurrences already had a reminder
// queued.
type OccurrenceGuard struct {
	rdb *redis.Client
}

// NewOccurrenceGuard returns nil when rdb is nil.
func NewOccurrenceGuard(rdb *redis.Client) *OccurrenceGuard {
	if rdb == nil {
		return nil
	}
	return &OccurrenceGuard{rdb: rdb}
}

func (g *OccurrenceGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return helpers.RedisClaim(ctx, g.rdb, key, ttl)
}

func (g *OccurrenceGuard) Release(ctx context.Context, key string) error {
	return helpers.RedisDel(ctx, g.rdb, key)
}
