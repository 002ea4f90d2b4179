package venues

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("venue not found")
)

const (
	DefaultRadiusKm   = 2.0
	MaxRadiusKm       = 50.0
	DefaultNearbySize = 50

	maxNameLen    = 120
	maxCommentLen = 1000
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	HasBidet  bool
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Venue, error) {
	userID = strings.TrimSpace(userID)
	name := strings.TrimSpace(in.Name)

	if userID == "" || name == "" || len(name) > maxNameLen {
		return Venue{}, ErrInvalidInput
	}
	if !validCoords(in.Latitude, in.Longitude) {
		return Venue{}, ErrInvalidInput
	}

	v := Venue{
		ID:        uuid.NewString(),
		Name:      name,
		Address:   strings.TrimSpace(in.Address),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		HasBidet:  in.HasBidet,
		CreatedBy: userID,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return Venue{}, err
	}
	return v, nil
}

// Get devuelve el venue con sus promedios.
func (s *Service) Get(ctx context.Context, id string) (Summary, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Summary{}, ErrInvalidInput
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Summary{}, err
	}

	ratings, err := s.repo.RatingsFor(ctx, []string{v.ID})
	if err != nil {
		return Summary{}, err
	}
	return Summary{Venue: v, Ratings: ratings[v.ID]}, nil
}

// Nearby busca venues dentro de radiusKm, ordenados por distancia (empates por nombre).
// radiusKm <= 0 usa DefaultRadiusKm; el máximo es MaxRadiusKm.
func (s *Service) Nearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]Summary, error) {
	if !validCoords(lat, lon) {
		return nil, ErrInvalidInput
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if radiusKm > MaxRadiusKm {
		radiusKm = MaxRadiusKm
	}
	if limit <= 0 || limit > DefaultNearbySize {
		limit = DefaultNearbySize
	}

	candidates, err := s.repo.ListInBox(ctx, boundingBox(lat, lon, radiusKm))
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(candidates))
	for _, v := range candidates {
		d := DistanceKm(lat, lon, v.Latitude, v.Longitude)
		if d > radiusKm {
			continue
		}
		out = append(out, Summary{Venue: v, DistanceKm: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}

	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	for _, v := range out {
		ids = append(ids, v.ID)
	}
	ratings, err := s.repo.RatingsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Ratings = ratings[out[i].ID]
	}
	return out, nil
}

type ReviewInput struct {
	OverallRating int
	TPQuality     int
	Cleanliness   int
	Privacy       int
	Comment       string
}

// Review crea o reemplaza la reseña del usuario para el venue.
func (s *Service) Review(ctx context.Context, userID, venueID string, in ReviewInput) (Review, error) {
	userID = strings.TrimSpace(userID)
	venueID = strings.TrimSpace(venueID)
	comment := strings.TrimSpace(in.Comment)

	if userID == "" || venueID == "" || len(comment) > maxCommentLen {
		return Review{}, ErrInvalidInput
	}
	for _, r := range []int{in.OverallRating, in.TPQuality, in.Cleanliness, in.Privacy} {
		if r < 1 || r > 5 {
			return Review{}, ErrInvalidInput
		}
	}

	if _, err := s.repo.GetByID(ctx, venueID); err != nil {
		return Review{}, err
	}

	now := s.now().UTC()
	return s.repo.UpsertReview(ctx, Review{
		ID:            uuid.NewString(),
		VenueID:       venueID,
		UserID:        userID,
		OverallRating: in.OverallRating,
		TPQuality:     in.TPQuality,
		Cleanliness:   in.Cleanliness,
		Privacy:       in.Privacy,
		Comment:       comment,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (s *Service) Reviews(ctx context.Context, venueID string) ([]Review, error) {
	if _, err := s.repo.GetByID(ctx, venueID); err != nil {
		return nil, err
	}
	return s.repo.ListReviews(ctx, venueID)
}

func (s *Service) CountVenuesRated(ctx context.Context, userID string) (int, error) {
	return s.repo.CountReviewsBy(ctx, userID)
}

// CountBidetVenuesRated alimenta el logro bidet_master.
func (s *Service) CountBidetVenuesRated(ctx context.Context, userID string) (int, error) {
	return s.repo.CountBidetVenuesReviewedBy(ctx, userID)
}

func validCoords(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// AverageRatings calcula los promedios de un conjunto de reseñas, redondeados a un decimal.
func AverageRatings(reviews []Review) Ratings {
	if len(reviews) == 0 {
		return Ratings{}
	}

	var overall, tp, clean, priv int
	for _, r := range reviews {
		overall += r.OverallRating
		tp += r.TPQuality
		clean += r.Cleanliness
		priv += r.Privacy
	}

	n := float64(len(reviews))
	return Ratings{
		Overall:     round1(float64(overall) / n),
		TPQuality:   round1(float64(tp) / n),
		Cleanliness: round1(float64(clean) / n),
		Privacy:     round1(float64(priv) / n),
		ReviewCount: len(reviews),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
