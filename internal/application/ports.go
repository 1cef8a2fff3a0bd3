package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
)

// FriendIndex is the full-text index kept beside the friends table.
type FriendIndex interface {
	Index(ctx context.Context, f entity.Friend) error
	Remove(ctx context.Context, userID, id string) error
	// Search returns matching friend ids for userID, best match first.
	Search(ctx context.Context, userID, query string, size int) ([]string, error)
}

// SuggestionProvider turns a prompt into raw model text.
type SuggestionProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SuggestionCache stores provider results per friend and kind.
type SuggestionCache interface {
	Get(ctx context.Context, friendID string, kind entity.SuggestionKind) (*entity.SuggestionResult, bool)
	Set(ctx context.Context, friendID string, res entity.SuggestionResult)
	Invalidate(ctx context.Context, friendID string)
}

// JobPublisher puts a JSON message on the reminder queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// OccurrenceGuard makes reminder publishing idempotent per birthday occurrence.
type OccurrenceGuard interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// ObjectStore uploads a document and returns where it can be fetched.
type ObjectStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
