package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/circle"
)

type friendshipRepo struct {
	mu   sync.RWMutex
	byID map[string]circle.Friendship
}

func NewFriendshipRepo() circle.Repository {
	return &friendshipRepo{
		byID: make(map[string]circle.Friendship),
	}
}

func (r *friendshipRepo) Create(ctx context.Context, f circle.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.ID == "" {
		return errors.New("friendship id required")
	}
	if _, exists := r.byID[f.ID]; exists {
		return errors.New("friendship already exists")
	}
	// un par de usuarios tiene a lo sumo una relación
	for _, x := range r.byID {
		if samePair(x, f.UserID, f.FriendID) {
			return errors.New("friendship already exists for pair")
		}
	}
	r.byID[f.ID] = f
	return nil
}

func (r *friendshipRepo) Update(ctx context.Context, f circle.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[f.ID]; !exists {
		return circle.ErrNotFound
	}
	r.byID[f.ID] = f
	return nil
}

func (r *friendshipRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return circle.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *friendshipRepo) GetByID(ctx context.Context, id string) (circle.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return circle.Friendship{}, circle.ErrNotFound
	}
	return f, nil
}

func (r *friendshipRepo) FindByPair(ctx context.Context, a, b string) (circle.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.byID {
		if samePair(f, a, b) {
			return f, nil
		}
	}
	return circle.Friendship{}, circle.ErrNotFound
}

func (r *friendshipRepo) ListByUser(ctx context.Context, userID string) ([]circle.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]circle.Friendship, 0)
	for _, f := range r.byID {
		if f.Involves(userID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func samePair(f circle.Friendship, a, b string) bool {
	return (f.UserID == a && f.FriendID == b) || (f.UserID == b && f.FriendID == a)
}
