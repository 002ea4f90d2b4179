package achievements

import (
	"context"
	"time"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Unlock, error)

	// Insert es idempotente sobre (UserID, Achievement): created=false si ya existía.
	Insert(ctx context.Context, u Unlock) (created bool, err error)

	// CountBetween cuenta desbloqueos con UnlockedAt en [from, to).
	CountBetween(ctx context.Context, userID string, from, to time.Time) (int, error)
}
