package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/achievements"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
)

type AchievementsRepo struct {
	db *sql.DB
}

func NewAchievementsRepo(db *sql.DB) *AchievementsRepo {
	return &AchievementsRepo{db: db}
}

func (r *AchievementsRepo) ListByUser(ctx context.Context, userID string) ([]achievements.Unlock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, achievement_type, unlocked_at
		FROM achievement_unlocks
		WHERE user_id = $1
		ORDER BY unlocked_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]achievements.Unlock, 0)
	for rows.Next() {
		var u achievements.Unlock
		var typ string
		if err := rows.Scan(&u.ID, &u.UserID, &typ, &u.UnlockedAt); err != nil {
			return nil, err
		}
		u.Achievement = insights.AchievementID(typ)
		u.UnlockedAt = u.UnlockedAt.UTC()
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *AchievementsRepo) Insert(ctx context.Context, u achievements.Unlock) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO achievement_unlocks (id, user_id, achievement_type, unlocked_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, achievement_type) DO NOTHING
	`,
		u.ID,
		u.UserID,
		string(u.Achievement),
		u.UnlockedAt,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *AchievementsRepo) CountBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM achievement_unlocks
		WHERE user_id = $1 AND unlocked_at >= $2 AND unlocked_at < $3
	`, userID, from, to).Scan(&n)
	return n, err
}
