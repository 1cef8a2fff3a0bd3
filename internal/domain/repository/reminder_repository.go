package repository

import (
	"context"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
)

// RecipientRepository stores where reminder emails are delivered per account.
type RecipientRepository interface {
	Get(ctx context.Context, userID string) (*entity.ReminderRecipient, error)
	Upsert(ctx context.Context, r *entity.ReminderRecipient) error
	ListEnabled(ctx context.Context) ([]entity.ReminderRecipient, error)
}
