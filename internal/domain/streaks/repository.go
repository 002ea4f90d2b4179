package streaks

import "context"

type Repository interface {
	Get(ctx context.Context, userID string) (Streak, error)
	Upsert(ctx context.Context, s Streak) error

	// Longest por usuario, para leaderboards del círculo.
	ListByUsers(ctx context.Context, userIDs []string) ([]Streak, error)
}
