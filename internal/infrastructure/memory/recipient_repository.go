package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/repository"
)

type RecipientRepository struct {
	mu   sync.RWMutex
	rows map[string]entity.ReminderRecipient
}

func NewRecipientRepository() *RecipientRepository {
	return &RecipientRepository{rows: map[string]entity.ReminderRecipient{}}
}

func (r *RecipientRepository) Get(_ context.Context, userID string) (*entity.ReminderRecipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.rows[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (r *RecipientRepository) Upsert(_ context.Context, rec *entity.ReminderRecipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if prev, ok := r.rows[rec.UserID]; ok {
		rec.CreatedAt = prev.CreatedAt
	} else {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	r.rows[rec.UserID] = *rec
	return nil
}

func (r *RecipientRepository) ListEnabled(_ context.Context) ([]entity.ReminderRecipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.ReminderRecipient, 0, len(r.rows))
	for _, rec := range r.rows {
		if rec.Enabled {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

var _ repository.RecipientRepository = (*RecipientRepository)(nil)
