package streaks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("streak not found")
)

type Service struct {
	repo Repository
	now  func() time.Time

	// serializa read-modify-write de Record
	mu sync.Mutex
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Record aplica un registro hecho en loggedAt (ya convertido a la zona del usuario):
// mismo día => sin cambios; día siguiente => +1; hueco => 1.
// Registros anteriores al último día no tocan la racha.
func (s *Service) Record(ctx context.Context, userID string, loggedAt time.Time) (Streak, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || loggedAt.IsZero() {
		return Streak{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.repo.Get(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Streak{}, err
	}
	cur.UserID = userID

	day := civilDate(loggedAt)
	switch {
	case cur.LastLogDate.IsZero():
		cur.Current = 1
	case day.Equal(cur.LastLogDate), day.Before(cur.LastLogDate):
		return cur, nil
	case day.Equal(cur.LastLogDate.AddDate(0, 0, 1)):
		cur.Current++
	default:
		cur.Current = 1
	}
	cur.LastLogDate = day
	if cur.Current > cur.Longest {
		cur.Longest = cur.Current
	}
	cur.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, cur); err != nil {
		return Streak{}, err
	}
	return cur, nil
}

// Get devuelve la racha vista "hoy" en loc: si el último registro es anterior
// a ayer, la racha actual reportada es 0 (Longest no cambia).
func (s *Service) Get(ctx context.Context, userID string, loc *time.Location) (Streak, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Streak{}, ErrInvalidInput
	}
	if loc == nil {
		loc = time.UTC
	}

	st, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Streak{UserID: userID}, nil
	}
	if err != nil {
		return Streak{}, err
	}

	return s.asOfToday(st, loc), nil
}

func (s *Service) asOfToday(st Streak, loc *time.Location) Streak {
	yesterday := civilDate(s.now().In(loc)).AddDate(0, 0, -1)
	if st.LastLogDate.Before(yesterday) {
		st.Current = 0
	}
	return st
}

// LongestStreak alimenta AuxStats del motor de logros.
func (s *Service) LongestStreak(ctx context.Context, userID string) (int, error) {
	st, err := s.Get(ctx, userID, time.UTC)
	if err != nil {
		return 0, err
	}
	return st.Longest, nil
}

// CurrentByUsers devuelve la racha actual (vista hoy en loc) por usuario.
// Los usuarios sin racha guardada no aparecen en el map.
func (s *Service) CurrentByUsers(ctx context.Context, userIDs []string, loc *time.Location) (map[string]int, error) {
	out := make(map[string]int, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	items, err := s.repo.ListByUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for _, st := range items {
		out[st.UserID] = s.asOfToday(st, loc).Current
	}
	return out, nil
}
