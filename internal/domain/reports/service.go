package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/streaks"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/venues"
)

var ErrInvalidInput = errors.New("invalid input")

type LogSource interface {
	EventsForUser(ctx context.Context, userID string) ([]insights.LoggedEvent, error)
	PublicEventsForUser(ctx context.Context, userID string) ([]insights.LoggedEvent, error)
}

// leaderboardFetchLimit acota las lecturas concurrentes por amigo.
const leaderboardFetchLimit = 8

type StreakSource interface {
	Get(ctx context.Context, userID string, loc *time.Location) (streaks.Streak, error)
}

type AchievementSource interface {
	CountUnlocked(ctx context.Context, userID string) (int, error)
	CountUnlockedBetween(ctx context.Context, userID string, from, to time.Time) (int, error)
}

type FriendSource interface {
	FriendIDs(ctx context.Context, userID string) ([]string, error)
}

type VenueSource interface {
	Get(ctx context.Context, id string) (venues.Summary, error)
	CountVenuesRated(ctx context.Context, userID string) (int, error)
}

type Sources struct {
	Logs         LogSource
	Streaks      StreakSource
	Achievements AchievementSource
	Friends      FriendSource
	Venues       VenueSource
}

type Service struct {
	src Sources
	now func() time.Time
}

func NewService(src Sources) *Service {
	return &Service{
		src: src,
		now: time.Now,
	}
}

// Stats es la pantalla de estadísticas del usuario.
type Stats struct {
	Quick        insights.QuickStats
	Distribution insights.Distribution

	CurrentStreak int
	LongestStreak int

	Achievements int
	VenuesRated  int
}

func (s *Service) Stats(ctx context.Context, userID string, loc *time.Location) (Stats, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Stats{}, ErrInvalidInput
	}
	if loc == nil {
		loc = time.UTC
	}

	var (
		events   []insights.LoggedEvent
		streak   streaks.Streak
		unlocked int
		rated    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.src.Logs.EventsForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("load events: %w", err)
		}
		return nil
	})
	if s.src.Streaks != nil {
		g.Go(func() error {
			var err error
			streak, err = s.src.Streaks.Get(gctx, userID, loc)
			if err != nil {
				return fmt.Errorf("load streak: %w", err)
			}
			return nil
		})
	}
	if s.src.Achievements != nil {
		g.Go(func() error {
			var err error
			unlocked, err = s.src.Achievements.CountUnlocked(gctx, userID)
			if err != nil {
				return fmt.Errorf("count achievements: %w", err)
			}
			return nil
		})
	}
	if s.src.Venues != nil {
		g.Go(func() error {
			var err error
			rated, err = s.src.Venues.CountVenuesRated(gctx, userID)
			if err != nil {
				return fmt.Errorf("count venues: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	now := s.now().In(loc)
	events = insights.InLocation(events, loc)

	return Stats{
		Quick:         insights.Quick(events, now),
		Distribution:  insights.Distribute(events, now),
		CurrentStreak: streak.Current,
		LongestStreak: streak.Longest,
		Achievements:  unlocked,
		VenuesRated:   rated,
	}, nil
}

type Health struct {
	Score  int
	Alerts []insights.HealthAlert
}

// Health evalúa el puntaje (últimos 30 registros) y las alertas de la última semana.
func (s *Service) Health(ctx context.Context, userID string) (Health, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Health{}, ErrInvalidInput
	}

	events, err := s.src.Logs.EventsForUser(ctx, userID)
	if err != nil {
		return Health{}, fmt.Errorf("load events: %w", err)
	}
	return Health{
		Score:  insights.HealthScore(events),
		Alerts: insights.HealthAlerts(events, s.now()),
	}, nil
}

// Monthly es el "wrapped" de un mes con los datos que el motor no conoce.
type Monthly struct {
	Summary   insights.MonthlySummary
	ShareText string

	// FavoriteVenue es el venue más usado en el mes; nil si ningún registro tiene venue.
	FavoriteVenue *FavoriteVenue
}

type FavoriteVenue struct {
	ID     string
	Name   string
	Visits int
}

// ParseMonth interpreta "YYYY-MM" en loc. Vacío = mes actual.
func (s *Service) ParseMonth(v string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	v = strings.TrimSpace(v)
	if v == "" {
		now := s.now().In(loc)
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation("2006-01", v, loc)
	if err != nil {
		return time.Time{}, ErrInvalidInput
	}
	return t, nil
}

// Monthly arma el resumen del mes calendario de ref (en ref.Location()).
func (s *Service) Monthly(ctx context.Context, userID string, ref time.Time) (Monthly, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || ref.IsZero() {
		return Monthly{}, ErrInvalidInput
	}

	events, err := s.src.Logs.EventsForUser(ctx, userID)
	if err != nil {
		return Monthly{}, fmt.Errorf("load events: %w", err)
	}
	events = insights.InLocation(events, ref.Location())

	summary := insights.BuildMonthlySummary(events, ref, s.now())

	if s.src.Achievements != nil {
		from, to := insights.MonthBounds(ref)
		n, err := s.src.Achievements.CountUnlockedBetween(ctx, userID, from, to)
		if err != nil {
			return Monthly{}, fmt.Errorf("count achievements: %w", err)
		}
		summary.AchievementsUnlocked = n
	}

	out := Monthly{
		Summary:   summary,
		ShareText: insights.MonthlyShareText(summary),
	}

	fav, err := s.favoriteVenue(ctx, insights.EventsInMonth(events, ref))
	if err != nil {
		return Monthly{}, err
	}
	out.FavoriteVenue = fav
	return out, nil
}

// favoriteVenue: el de más visitas; empate = el primero visitado.
func (s *Service) favoriteVenue(ctx context.Context, events []insights.LoggedEvent) (*FavoriteVenue, error) {
	counts := map[string]int{}
	order := []string{}
	for _, e := range events {
		if e.VenueID == "" {
			continue
		}
		if _, seen := counts[e.VenueID]; !seen {
			order = append(order, e.VenueID)
		}
		counts[e.VenueID]++
	}
	if len(order) == 0 {
		return nil, nil
	}

	best := order[0]
	for _, id := range order[1:] {
		if counts[id] > counts[best] {
			best = id
		}
	}

	fav := &FavoriteVenue{ID: best, Visits: counts[best]}
	if s.src.Venues == nil {
		return fav, nil
	}
	v, err := s.src.Venues.Get(ctx, best)
	switch {
	case err == nil:
		fav.Name = v.Name
	case errors.Is(err, venues.ErrNotFound):
		// venue borrado: queda solo el ID
	default:
		return nil, fmt.Errorf("load venue: %w", err)
	}
	return fav, nil
}

// Leaderboards rankea al usuario (todos sus registros) y a sus amigos
// aceptados (historial público completo de cada uno, en el orden de FriendIDs).
func (s *Service) Leaderboards(ctx context.Context, userID string, limit int) (insights.Leaderboards, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return insights.Leaderboards{}, ErrInvalidInput
	}

	var ids []string
	if s.src.Friends != nil {
		var err error
		ids, err = s.src.Friends.FriendIDs(ctx, userID)
		if err != nil {
			return insights.Leaderboards{}, fmt.Errorf("load friends: %w", err)
		}
	}

	participants := make([]insights.Participant, 1+len(ids))
	participants[0].UserID = userID

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(leaderboardFetchLimit)
	g.Go(func() error {
		events, err := s.src.Logs.EventsForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("load events: %w", err)
		}
		participants[0].Events = events
		return nil
	})
	for i, id := range ids {
		id := id // per-iteration copy (go 1.21 loop semantics)
		p := &participants[i+1]
		p.UserID = id
		g.Go(func() error {
			events, err := s.src.Logs.PublicEventsForUser(gctx, id)
			if err != nil {
				return fmt.Errorf("load public events of %s: %w", id, err)
			}
			p.Events = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return insights.Leaderboards{}, err
	}

	return insights.BuildLeaderboards(participants, limit), nil
}
