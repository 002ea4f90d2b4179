package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/streaks"
)

type StreaksRepo struct {
	db *sql.DB
}

func NewStreaksRepo(db *sql.DB) *StreaksRepo {
	return &StreaksRepo{db: db}
}

func (r *StreaksRepo) Get(ctx context.Context, userID string) (streaks.Streak, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return streaks.Streak{}, streaks.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, current, longest, last_log_date, updated_at
		FROM streaks
		WHERE user_id = $1
	`, userID)

	s, err := scanStreak(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return streaks.Streak{}, streaks.ErrNotFound
		}
		return streaks.Streak{}, err
	}
	return s, nil
}

func (r *StreaksRepo) Upsert(ctx context.Context, s streaks.Streak) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current, longest, last_log_date, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id) DO UPDATE SET
			current = EXCLUDED.current,
			longest = EXCLUDED.longest,
			last_log_date = EXCLUDED.last_log_date,
			updated_at = EXCLUDED.updated_at
	`,
		s.UserID,
		s.Current,
		s.Longest,
		toNullDate(s.LastLogDate),
		s.UpdatedAt,
	)
	return err
}

func (r *StreaksRepo) ListByUsers(ctx context.Context, userIDs []string) ([]streaks.Streak, error) {
	if len(userIDs) == 0 {
		return []streaks.Streak{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, current, longest, last_log_date, updated_at
		FROM streaks
		WHERE user_id = ANY($1)
	`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]streaks.Streak, 0, len(userIDs))
	for rows.Next() {
		s, err := scanStreak(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanStreak(row rowScanner) (streaks.Streak, error) {
	var s streaks.Streak
	var last sql.NullTime

	if err := row.Scan(&s.UserID, &s.Current, &s.Longest, &last, &s.UpdatedAt); err != nil {
		return streaks.Streak{}, err
	}
	if last.Valid {
		// DATE vuelve como medianoche; se normaliza a fecha civil UTC
		y, m, d := last.Time.Date()
		s.LastLogDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return s, nil
}
