package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/repository"
)

const friendColumns = `id, user_id, name, date_of_birth, notes, created_at, updated_at`

type FriendRepository struct {
	pool *pgxpool.Pool
}

func NewFriendRepository(pool *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{pool: pool}
}

func scanFriend(row pgx.Row) (*entity.Friend, error) {
	f := &entity.Friend{}
	if err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.DateOfBirth, &f.Notes, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return f, nil
}

func collectFriends(rows pgx.Rows) ([]entity.Friend, error) {
	defer rows.Close()
	out := make([]entity.Friend, 0)
	for rows.Next() {
		f, err := scanFriend(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *FriendRepository) ListByOwner(ctx context.Context, userID string) ([]entity.Friend, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+friendColumns+`
		FROM friends
		WHERE user_id = $1
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return collectFriends(rows)
}

func (r *FriendRepository) ListByIDs(ctx context.Context, userID string, ids []string) ([]entity.Friend, error) {
	if len(ids) == 0 {
		return []entity.Friend{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+friendColumns+`
		FROM friends
		WHERE user_id = $1 AND id = ANY($2::uuid[])
	`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("list friends by ids: %w", err)
	}
	return collectFriends(rows)
}

func (r *FriendRepository) GetByID(ctx context.Context, userID, id string) (*entity.Friend, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+friendColumns+`
		FROM friends
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	f, err := scanFriend(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get friend: %w", err)
	}
	return f, nil
}

func (r *FriendRepository) Create(ctx context.Context, f *entity.Friend) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO friends (user_id, name, date_of_birth, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, f.UserID, f.Name, f.DateOfBirth, f.Notes)

	if err := row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return fmt.Errorf("create friend: %w", err)
	}
	return nil
}

// Update applies patch and always refreshes updated_at, even for an empty patch.
func (r *FriendRepository) Update(ctx context.Context, userID, id string, patch entity.FriendPatch) (*entity.Friend, error) {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.DateOfBirth != nil {
		add("date_of_birth", *patch.DateOfBirth)
	}
	if patch.Notes != nil {
		if *patch.Notes == "" {
			add("notes", nil)
		} else {
			add("notes", *patch.Notes)
		}
	}
	args = append(args, id, userID)
	query := `UPDATE friends SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)-1) + ` AND user_id = $` + strconv.Itoa(len(args)) +
		` RETURNING ` + friendColumns

	f, err := scanFriend(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update friend: %w", err)
	}
	return f, nil
}

func (r *FriendRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM friends WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete friend: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.FriendRepository = (*FriendRepository)(nil)
