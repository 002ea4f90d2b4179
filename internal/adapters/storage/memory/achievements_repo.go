package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/achievements"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
)

type unlockKey struct {
	userID string
	id     insights.AchievementID
}

type achievementRepo struct {
	mu    sync.RWMutex
	byKey map[unlockKey]achievements.Unlock
}

func NewAchievementRepo() achievements.Repository {
	return &achievementRepo{
		byKey: make(map[unlockKey]achievements.Unlock),
	}
}

func (r *achievementRepo) ListByUser(ctx context.Context, userID string) ([]achievements.Unlock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]achievements.Unlock, 0)
	for k, u := range r.byKey {
		if k.userID == userID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UnlockedAt.Before(out[j].UnlockedAt)
	})
	return out, nil
}

func (r *achievementRepo) Insert(ctx context.Context, u achievements.Unlock) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" || u.UserID == "" {
		return false, errors.New("unlock id and user required")
	}
	k := unlockKey{userID: u.UserID, id: u.Achievement}
	if _, exists := r.byKey[k]; exists {
		return false, nil
	}
	r.byKey[k] = u
	return true, nil
}

func (r *achievementRepo) CountBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for k, u := range r.byKey {
		if k.userID != userID {
			continue
		}
		if u.UnlockedAt.Before(from) || !u.UnlockedAt.Before(to) {
			continue
		}
		n++
	}
	return n, nil
}
