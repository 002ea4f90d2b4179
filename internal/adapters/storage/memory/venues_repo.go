package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/venues"
)

type venueRepo struct {
	mu      sync.RWMutex
	byID    map[string]venues.Venue
	reviews map[string][]venues.Review // venueID -> reseñas
}

func NewVenueRepo() venues.Repository {
	return &venueRepo{
		byID:    make(map[string]venues.Venue),
		reviews: make(map[string][]venues.Review),
	}
}

func (r *venueRepo) Create(ctx context.Context, v venues.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == "" {
		return errors.New("venue id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("venue already exists")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *venueRepo) GetByID(ctx context.Context, id string) (venues.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return venues.Venue{}, venues.ErrNotFound
	}
	return v, nil
}

func (r *venueRepo) ListInBox(ctx context.Context, box venues.Box) ([]venues.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]venues.Venue, 0)
	for _, v := range r.byID {
		if box.Contains(v.Latitude, v.Longitude) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *venueRepo) UpsertReview(ctx context.Context, rv venues.Review) (venues.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[rv.VenueID]; !ok {
		return venues.Review{}, venues.ErrNotFound
	}

	list := r.reviews[rv.VenueID]
	for i, existing := range list {
		if existing.UserID == rv.UserID {
			rv.ID = existing.ID
			rv.CreatedAt = existing.CreatedAt
			list[i] = rv
			return rv, nil
		}
	}
	r.reviews[rv.VenueID] = append(list, rv)
	return rv, nil
}

func (r *venueRepo) ListReviews(ctx context.Context, venueID string) ([]venues.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]venues.Review(nil), r.reviews[venueID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if out == nil {
		out = make([]venues.Review, 0)
	}
	return out, nil
}

func (r *venueRepo) RatingsFor(ctx context.Context, venueIDs []string) (map[string]venues.Ratings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]venues.Ratings, len(venueIDs))
	for _, id := range venueIDs {
		out[id] = venues.AverageRatings(r.reviews[id])
	}
	return out, nil
}

func (r *venueRepo) CountReviewsBy(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, list := range r.reviews {
		for _, rv := range list {
			if rv.UserID == userID {
				n++
			}
		}
	}
	return n, nil
}

func (r *venueRepo) CountBidetVenuesReviewedBy(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for venueID, list := range r.reviews {
		if !r.byID[venueID].HasBidet {
			continue
		}
		for _, rv := range list {
			if rv.UserID == userID {
				n++
				break
			}
		}
	}
	return n, nil
}
