// Package memory holds in-process repositories used by tests and local
// tooling. They honour the same owner-scoping contract as the Postgres ones.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/repository"
)

type FriendRepository struct {
	mu      sync.RWMutex
	friends map[string]entity.Friend
	order   []string
}

func NewFriendRepository() *FriendRepository {
	return &FriendRepository{friends: map[string]entity.Friend{}}
}

func (r *FriendRepository) ListByOwner(_ context.Context, userID string) ([]entity.Friend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Friend, 0)
	for _, id := range r.order {
		if f, ok := r.friends[id]; ok && f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FriendRepository) ListByIDs(_ context.Context, userID string, ids []string) ([]entity.Friend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Friend, 0, len(ids))
	for _, id := range ids {
		if f, ok := r.friends[id]; ok && f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *FriendRepository) GetByID(_ context.Context, userID, id string) (*entity.Friend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.friends[id]
	if !ok || f.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r *FriendRepository) Create(_ context.Context, f *entity.Friend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt, f.UpdatedAt = now, now
	r.friends[f.ID] = *f
	r.order = append(r.order, f.ID)
	return nil
}

func (r *FriendRepository) Update(_ context.Context, userID, id string, patch entity.FriendPatch) (*entity.Friend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.friends[id]
	if !ok || f.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.DateOfBirth != nil {
		f.DateOfBirth = *patch.DateOfBirth
	}
	if patch.Notes != nil {
		if *patch.Notes == "" {
			f.Notes = nil
		} else {
			notes := *patch.Notes
			f.Notes = &notes
		}
	}
	f.UpdatedAt = time.Now().UTC()
	r.friends[id] = f
	return &f, nil
}

func (r *FriendRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.friends[id]
	if !ok || f.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.friends, id)
	return nil
}

var _ repository.FriendRepository = (*FriendRepository)(nil)
