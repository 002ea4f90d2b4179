package achievements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
	"github.com/maxi-cmyk/poop-tracker/internal/platform/logger"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/activity"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type EventSource interface {
	EventsForUser(ctx context.Context, userID string) ([]insights.LoggedEvent, error)
}

type FriendCounter interface {
	CountFriends(ctx context.Context, userID string) (int, error)
}

type BidetCounter interface {
	CountBidetVenuesRated(ctx context.Context, userID string) (int, error)
}

type StreakReader interface {
	LongestStreak(ctx context.Context, userID string) (int, error)
}

// Sources son las fuentes de datos que alimentan la evaluación.
// Las nil cuentan como 0.
type Sources struct {
	Events  EventSource
	Friends FriendCounter
	Bidets  BidetCounter
	Streaks StreakReader
}

type Service struct {
	repo Repository
	src  Sources
	pub  activity.Publisher
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, src Sources, pub activity.Publisher, log logger.Logger) *Service {
	if pub == nil {
		pub = activity.Discard{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		src:  src,
		pub:  pub,
		log:  log,
		now:  time.Now,
	}
}

// Check evalúa el catálogo contra el historial completo del usuario y persiste
// los logros nuevos. Los eventos se convierten a loc antes de evaluar.
func (s *Service) Check(ctx context.Context, userID string, loc *time.Location) ([]Unlock, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if loc == nil {
		loc = time.UTC
	}

	var (
		events   []insights.LoggedEvent
		existing []Unlock
		aux      insights.AuxStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if s.src.Events == nil {
			return nil
		}
		ev, err := s.src.Events.EventsForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("load events: %w", err)
		}
		events = insights.InLocation(ev, loc)
		return nil
	})
	g.Go(func() error {
		u, err := s.repo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("load unlocks: %w", err)
		}
		existing = u
		return nil
	})
	g.Go(func() error {
		if s.src.Friends == nil {
			return nil
		}
		n, err := s.src.Friends.CountFriends(gctx, userID)
		if err != nil {
			return fmt.Errorf("count friends: %w", err)
		}
		aux.FriendCount = n
		return nil
	})
	g.Go(func() error {
		if s.src.Bidets == nil {
			return nil
		}
		n, err := s.src.Bidets.CountBidetVenuesRated(gctx, userID)
		if err != nil {
			return fmt.Errorf("count bidet venues: %w", err)
		}
		aux.BidetVenuesRated = n
		return nil
	})
	g.Go(func() error {
		if s.src.Streaks == nil {
			return nil
		}
		n, err := s.src.Streaks.LongestStreak(gctx, userID)
		if err != nil {
			return fmt.Errorf("longest streak: %w", err)
		}
		aux.LongestStreak = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	have := make([]insights.AchievementID, 0, len(existing))
	for _, u := range existing {
		have = append(have, u.Achievement)
	}

	now := s.now()
	out := make([]Unlock, 0)
	for _, id := range insights.NewlyUnlocked(events, have, aux) {
		u := Unlock{
			ID:          uuid.NewString(),
			UserID:      userID,
			Achievement: id,
			UnlockedAt:  now,
		}
		created, err := s.repo.Insert(ctx, u)
		if err != nil {
			return out, err
		}
		if !created {
			continue
		}
		out = append(out, u)

		// best-effort: la actividad del círculo no debe bloquear el desbloqueo
		err = s.pub.Publish(ctx, activity.Event{
			Kind:       activity.KindAchievementUnlocked,
			UserID:     userID,
			OccurredAt: now,
			Attributes: map[string]string{"achievement": string(id)},
		})
		if err != nil {
			s.log.Warn("activity publish failed", map[string]any{
				"user_id":     userID,
				"achievement": string(id),
				"err":         err,
			})
		}
	}
	return out, nil
}

// List devuelve el catálogo completo en orden con el estado del usuario.
func (s *Service) List(ctx context.Context, userID string) (Overview, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Overview{}, ErrInvalidInput
	}

	unlocks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Overview{}, err
	}
	at := make(map[insights.AchievementID]time.Time, len(unlocks))
	for _, u := range unlocks {
		at[u.Achievement] = u.UnlockedAt
	}

	catalog := insights.Catalog()
	out := Overview{Items: make([]Progress, 0, len(catalog)), Total: len(catalog)}
	for _, a := range catalog {
		p := Progress{Achievement: a}
		if t, ok := at[a.ID]; ok {
			t := t
			p.Unlocked = true
			p.UnlockedAt = &t
			out.Unlocked++
		}
		out.Items = append(out.Items, p)
	}
	return out, nil
}

// CountUnlockedBetween cuenta desbloqueos en [from, to).
func (s *Service) CountUnlockedBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || !from.Before(to) {
		return 0, ErrInvalidInput
	}
	return s.repo.CountBetween(ctx, userID, from, to)
}

func (s *Service) CountUnlocked(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrInvalidInput
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
