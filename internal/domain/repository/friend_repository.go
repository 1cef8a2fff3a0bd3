package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
)

// ErrNotFound is returned when no row matches the id and owner.
var ErrNotFound = errors.New("not found")

// FriendRepository defines the owner-scoped persistence operations for friends.
// Implementations must filter every statement by userID.
type FriendRepository interface {
	ListByOwner(ctx context.Context, userID string) ([]entity.Friend, error)
	ListByIDs(ctx context.Context, userID string, ids []string) ([]entity.Friend, error)
	GetByID(ctx context.Context, userID, id string) (*entity.Friend, error)
	Create(ctx context.Context, f *entity.Friend) error
	Update(ctx context.Context, userID, id string, patch entity.FriendPatch) (*entity.Friend, error)
	Delete(ctx context.Context, userID, id string) error
}
