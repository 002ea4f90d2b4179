package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/circle"
)

type FriendshipsRepo struct {
	db *sql.DB
}

func NewFriendshipsRepo(db *sql.DB) *FriendshipsRepo {
	return &FriendshipsRepo{db: db}
}

const friendshipColumns = `id, user_id, friend_id, status, created_at, updated_at`

func (r *FriendshipsRepo) Create(ctx context.Context, f circle.Friendship) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO friendships (`+friendshipColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		f.ID,
		f.UserID,
		f.FriendID,
		string(f.Status),
		f.CreatedAt,
		f.UpdatedAt,
	)
	return err
}

func (r *FriendshipsRepo) Update(ctx context.Context, f circle.Friendship) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE friendships
		SET
			user_id = $2,
			friend_id = $3,
			status = $4,
			updated_at = $5
		WHERE id = $1
	`,
		f.ID,
		f.UserID,
		f.FriendID,
		string(f.Status),
		f.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return circle.ErrNotFound
	}
	return nil
}

func (r *FriendshipsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return circle.ErrNotFound
	}
	return nil
}

func (r *FriendshipsRepo) GetByID(ctx context.Context, id string) (circle.Friendship, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return circle.Friendship{}, circle.ErrNotFound
	}
	return r.one(ctx, `SELECT `+friendshipColumns+` FROM friendships WHERE id = $1`, id)
}

func (r *FriendshipsRepo) FindByPair(ctx context.Context, a, b string) (circle.Friendship, error) {
	return r.one(ctx, `
		SELECT `+friendshipColumns+`
		FROM friendships
		WHERE (user_id = $1 AND friend_id = $2)
		   OR (user_id = $2 AND friend_id = $1)
		LIMIT 1
	`, a, b)
}

func (r *FriendshipsRepo) ListByUser(ctx context.Context, userID string) ([]circle.Friendship, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+friendshipColumns+`
		FROM friendships
		WHERE user_id = $1 OR friend_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]circle.Friendship, 0)
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FriendshipsRepo) one(ctx context.Context, q string, args ...any) (circle.Friendship, error) {
	f, err := scanFriendship(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return circle.Friendship{}, circle.ErrNotFound
		}
		return circle.Friendship{}, err
	}
	return f, nil
}

func scanFriendship(row rowScanner) (circle.Friendship, error) {
	var f circle.Friendship
	var status string
	if err := row.Scan(&f.ID, &f.UserID, &f.FriendID, &status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return circle.Friendship{}, err
	}
	f.Status = circle.Status(status)
	return f, nil
}
