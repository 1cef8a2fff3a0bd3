package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
)

// unreachable points at a port nothing listens on.
func unreachable(t *testing.T) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestConstructors_NilClient(t *testing.T) {
	assert.Nil(t, NewSuggestionCache(nil, time.Minute, nil))
	assert.Nil(t, NewOccurrenceGuard(nil))
}

func TestSuggestionCache_DefaultTTL(t *testing.T) {
	c := NewSuggestionCache(unreachable(t), 0, nil)
	assert.Equal(t, DefaultSuggestionTTL, c.ttl)
}

func TestSuggestionCache_ErrorsReadAsMiss(t *testing.T) {
	c := NewSuggestionCache(unreachable(t), time.Minute, nil)
	ctx := context.Background()

	res, ok := c.Get(ctx, "f-1", entity.SuggestionGifts)
	assert.False(t, ok)
	assert.Nil(t, res)

	assert.NotPanics(t, func() {
		c.Set(ctx, "f-1", entity.SuggestionResult{SuggestionType: entity.SuggestionGifts})
		c.Invalidate(ctx, "f-1")
	})
}

func TestOccurrenceGuard_SurfacesErrors(t *testing.T) {
	g := NewOccurrenceGuard(unreachable(t))
	ok, err := g.Claim(context.Background(), "reminder:sent:f-1:2025-06-20", time.Hour)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, g.Release(context.Background(), "reminder:sent:f-1:2025-06-20"))
}
