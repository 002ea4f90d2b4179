package logs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("log not found")
	ErrForbidden    = errors.New("forbidden")
)

const (
	DefaultListLimit = 200
	MaxListLimit     = 500

	maxNotesLen = 1000
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
	LoggedAt        time.Time // zero => ahora
	Consistency     int
	Volume          string
	Color           string
	DurationSeconds int
	Notes           string
	IsPublic        bool

	Latitude  *float64
	Longitude *float64
	VenueID   string

	PoopPhotoURL   string
	ToiletPhotoURL string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Log, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Log{}, ErrInvalidInput
	}

	bristol := stool.BristolType(in.Consistency)
	if !bristol.Valid() {
		return Log{}, ErrInvalidInput
	}
	vol, ok := stool.ParseVolume(in.Volume)
	if !ok {
		return Log{}, ErrInvalidInput
	}
	col, ok := stool.ParseColor(in.Color)
	if !ok {
		return Log{}, ErrInvalidInput
	}
	if in.DurationSeconds < 0 {
		return Log{}, ErrInvalidInput
	}

	notes := strings.TrimSpace(in.Notes)
	if len(notes) > maxNotesLen {
		return Log{}, ErrInvalidInput
	}

	// Coordenadas: ambas o ninguna.
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return Log{}, ErrInvalidInput
	}
	if in.Latitude != nil {
		if *in.Latitude < -90 || *in.Latitude > 90 || *in.Longitude < -180 || *in.Longitude > 180 {
			return Log{}, ErrInvalidInput
		}
	}

	now := s.now()
	loggedAt := in.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = now
	}

	l := Log{
		ID:              uuid.NewString(),
		UserID:          userID,
		LoggedAt:        loggedAt,
		RecordedAt:      now,
		Consistency:     bristol,
		Volume:          vol,
		Color:           col,
		DurationSeconds: in.DurationSeconds,
		Notes:           notes,
		IsPublic:        in.IsPublic,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		VenueID:         strings.TrimSpace(in.VenueID),
		PoopPhotoURL:    strings.TrimSpace(in.PoopPhotoURL),
		ToiletPhotoURL:  strings.TrimSpace(in.ToiletPhotoURL),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return Log{}, err
	}
	return l, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Log, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Log{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// List devuelve los registros del usuario en orden ascendente.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Log, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID, filter)
}

// All devuelve el historial completo (sin límite), ascendente.
func (s *Service) All(ctx context.Context, userID string) ([]Log, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID, ListFilter{})
}

// EventsForUser es la fuente de eventos del motor de insights.
func (s *Service) EventsForUser(ctx context.Context, userID string) ([]insights.LoggedEvent, error) {
	items, err := s.All(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Events(items), nil
}

// PublicEventsForUser es el historial público completo de userID, ascendente.
func (s *Service) PublicEventsForUser(ctx context.Context, userID string) ([]insights.LoggedEvent, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByUser(ctx, userID, ListFilter{PublicOnly: true})
	if err != nil {
		return nil, err
	}
	return Events(items), nil
}

// Delete borra un registro propio.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	userID = strings.TrimSpace(userID)
	id = strings.TrimSpace(id)
	if userID == "" || id == "" {
		return ErrInvalidInput
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// PublicFeed devuelve los registros públicos de userIDs, más recientes primero.
func (s *Service) PublicFeed(ctx context.Context, userIDs []string, limit int) ([]Log, error) {
	if len(userIDs) == 0 {
		return []Log{}, nil
	}
	if limit <= 0 || limit > MaxListLimit {
		limit = DefaultListLimit
	}
	return s.repo.ListPublicByUsers(ctx, userIDs, limit)
}
