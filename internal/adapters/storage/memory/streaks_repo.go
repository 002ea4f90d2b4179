package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/streaks"
)

type streakRepo struct {
	mu     sync.RWMutex
	byUser map[string]streaks.Streak
}

func NewStreakRepo() streaks.Repository {
	return &streakRepo{
		byUser: make(map[string]streaks.Streak),
	}
}

func (r *streakRepo) Get(ctx context.Context, userID string) (streaks.Streak, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byUser[userID]
	if !ok {
		return streaks.Streak{}, streaks.ErrNotFound
	}
	return s, nil
}

func (r *streakRepo) Upsert(ctx context.Context, s streaks.Streak) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.UserID == "" {
		return errors.New("streak user id required")
	}
	r.byUser[s.UserID] = s
	return nil
}

func (r *streakRepo) ListByUsers(ctx context.Context, userIDs []string) ([]streaks.Streak, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]streaks.Streak, 0, len(userIDs))
	for _, id := range userIDs {
		if s, ok := r.byUser[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
