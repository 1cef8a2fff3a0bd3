package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/repository"
)

type RecipientRepository struct {
	pool *pgxpool.Pool
}

func NewRecipientRepository(pool *pgxpool.Pool) *RecipientRepository {
	return &RecipientRepository{pool: pool}
}

func (r *RecipientRepository) Get(ctx context.Context, userID string) (*entity.ReminderRecipient, error) {
	rec := &entity.ReminderRecipient{}
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, email, enabled, created_at, updated_at
		FROM reminder_recipients
		WHERE user_id = $1
	`, userID).Scan(&rec.UserID, &rec.Email, &rec.Enabled, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	return rec, nil
}

func (r *RecipientRepository) Upsert(ctx context.Context, rec *entity.ReminderRecipient) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reminder_recipients (user_id, email, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email, enabled = EXCLUDED.enabled, updated_at = now()
		RETURNING created_at, updated_at
	`, rec.UserID, rec.Email, rec.Enabled).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert recipient: %w", err)
	}
	return nil
}

func (r *RecipientRepository) ListEnabled(ctx context.Context) ([]entity.ReminderRecipient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, email, enabled, created_at, updated_at
		FROM reminder_recipients
		WHERE enabled
	`)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	out := make([]entity.ReminderRecipient, 0)
	for rows.Next() {
		var rec entity.ReminderRecipient
		if err := rows.Scan(&rec.UserID, &rec.Email, &rec.Enabled, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ repository.RecipientRepository = (*RecipientRepository)(nil)
