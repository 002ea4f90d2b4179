package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/logs"
)

type logRepo struct {
	mu   sync.RWMutex
	byID map[string]logs.Log
}

func NewLogRepo() logs.Repository {
	return &logRepo{
		byID: make(map[string]logs.Log),
	}
}

func (r *logRepo) Create(ctx context.Context, l logs.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		return errors.New("log id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("log already exists")
	}

	r.byID[l.ID] = l
	return nil
}

func (r *logRepo) GetByID(ctx context.Context, id string) (logs.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return logs.Log{}, logs.ErrNotFound
	}
	return l, nil
}

func (r *logRepo) ListByUser(ctx context.Context, userID string, filter logs.ListFilter) ([]logs.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]logs.Log, 0)

	for _, l := range r.byID {
		if l.UserID != userID {
			continue
		}
		if filter.PublicOnly && !l.IsPublic {
			continue
		}

		if len(filter.Types) > 0 {
			ok := false
			for _, t := range filter.Types {
				if l.Consistency == t {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}

		if filter.From != nil && l.LoggedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.LoggedAt.After(*filter.To) {
			continue
		}

		out = append(out, l)
	}

	// ascendente; empate por id para orden estable
	sort.Slice(out, func(i, j int) bool {
		if out[i].LoggedAt.Equal(out[j].LoggedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].LoggedAt.Before(out[j].LoggedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[len(out)-filter.Limit:]
	}
	return out, nil
}

func (r *logRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return logs.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *logRepo) ListPublicByUsers(ctx context.Context, userIDs []string, limit int) ([]logs.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		want[id] = struct{}{}
	}

	out := make([]logs.Log, 0)
	for _, l := range r.byID {
		if !l.IsPublic {
			continue
		}
		if _, ok := want[l.UserID]; !ok {
			continue
		}
		out = append(out, l)
	}

	// más reciente primero
	sort.Slice(out, func(i, j int) bool {
		if out[i].LoggedAt.Equal(out[j].LoggedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].LoggedAt.After(out[j].LoggedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
