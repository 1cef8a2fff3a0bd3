// Package cache holds the Redis-backed adapters: generated suggestions and
// reminder occurrence claims.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
)

const DefaultSuggestionTTL = 6 * time.Hour

var kinds = []entity.SuggestionKind{entity.SuggestionGifts, entity.SuggestionEvents}

// SuggestionCache is best effort: Redis errors are logged and read as misses.
type SuggestionCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewSuggestionCache returns nil when rdb is nil.
func NewSuggestionCache(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *SuggestionCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultSuggestionTTL
	}
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &SuggestionCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *SuggestionCache) Get(ctx context.Context, friendID string, kind entity.SuggestionKind) (*entity.SuggestionResult, bool) {
	var res entity.SuggestionResult
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, helpers.KeySuggestions(friendID, string(kind)), &res)
	if err != nil {
		helpers.LogWarn(c.logger, "suggestion cache read failed", err, logrus.Fields{"friend_id": friendID})
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &res, true
}

func (c *SuggestionCache) Set(ctx context.Context, friendID string, res entity.SuggestionResult) {
	key := helpers.KeySuggestions(friendID, string(res.SuggestionType))
	if err := helpers.RedisSetJSON(ctx, c.rdb, key, res, c.ttl); err != nil {
		helpers.LogWarn(c.logger, "suggestion cache write failed", err, logrus.Fields{"friend_id": friendID})
	}
}

// Invalidate drops every kind cached for the friend.
func (c *SuggestionCache) Invalidate(ctx context.Context, friendID string) {
	keys := make([]string, 0, len(kinds))
	for _, k := range kinds {
		keys = append(keys, helpers.KeySuggestions(friendID, string(k)))
	}
	if err := helpers.RedisDel(ctx, c.rdb, keys...); err != nil {
		helpers.LogWarn(c.logger, "suggestion cache invalidate failed", err, logrus.Fields{"friend_id": friendID})
	}
}
