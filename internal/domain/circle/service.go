package circle

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/logs"
	"github.com/maxi-cmyk/poop-tracker/internal/platform/logger"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/activity"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("friendship not found")
	ErrBadState     = errors.New("invalid state")
)

const DefaultFeedLimit = 50

// FeedSource entrega registros públicos, más recientes primero.
type FeedSource interface {
	PublicFeed(ctx context.Context, userIDs []string, limit int) ([]logs.Log, error)
}

type Service struct {
	repo Repository
	feed FeedSource
	pub  activity.Publisher
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, feed FeedSource, pub activity.Publisher, log logger.Logger) *Service {
	if pub == nil {
		pub = activity.Discard{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		feed: feed,
		pub:  pub,
		log:  log,
		now:  time.Now,
	}
}

// Request crea una solicitud de amistad. Si ya existe una relación entre ambos:
// pendiente o aceptada => se devuelve tal cual; rechazada => se reabre como
// pendiente con userID como solicitante.
func (s *Service) Request(ctx context.Context, userID, friendID string) (Friendship, error) {
	userID = strings.TrimSpace(userID)
	friendID = strings.TrimSpace(friendID)

	if userID == "" || friendID == "" || userID == friendID {
		return Friendship{}, ErrInvalidInput
	}

	now := s.now()

	existing, err := s.repo.FindByPair(ctx, userID, friendID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Friendship{}, err
	}
	if err == nil {
		if existing.Status != StatusRejected {
			return existing, nil
		}
		existing.UserID = userID
		existing.FriendID = friendID
		existing.Status = StatusPending
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return Friendship{}, err
		}
		return existing, nil
	}

	f := Friendship{
		ID:        uuid.NewString(),
		UserID:    userID,
		FriendID:  friendID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return Friendship{}, err
	}
	return f, nil
}

func (s *Service) Accept(ctx context.Context, id, userID string) (Friendship, error) {
	f, err := s.addressed(ctx, id, userID)
	if err != nil {
		return Friendship{}, err
	}

	// Idempotente
	if f.Status == StatusAccepted {
		return f, nil
	}
	if f.Status != StatusPending {
		return Friendship{}, ErrBadState
	}

	now := s.now()
	f.Status = StatusAccepted
	f.UpdatedAt = now
	if err := s.repo.Update(ctx, f); err != nil {
		return Friendship{}, err
	}

	// best-effort
	err = s.pub.Publish(ctx, activity.Event{
		Kind:       activity.KindFriendAccepted,
		UserID:     f.FriendID,
		OccurredAt: now,
		Attributes: map[string]string{"friend_id": f.UserID},
	})
	if err != nil {
		s.log.Warn("activity publish failed", map[string]any{
			"friendship_id": f.ID,
			"err":           err,
		})
	}
	return f, nil
}

func (s *Service) Reject(ctx context.Context, id, userID string) (Friendship, error) {
	f, err := s.addressed(ctx, id, userID)
	if err != nil {
		return Friendship{}, err
	}

	// Idempotente
	if f.Status == StatusRejected {
		return f, nil
	}
	if f.Status != StatusPending {
		return Friendship{}, ErrBadState
	}

	f.Status = StatusRejected
	f.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, f); err != nil {
		return Friendship{}, err
	}
	return f, nil
}

// Remove borra la relación; cualquiera de los dos extremos puede hacerlo.
func (s *Service) Remove(ctx context.Context, id, userID string) error {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return ErrInvalidInput
	}

	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !f.Involves(userID) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// Overview agrupa las relaciones de un usuario.
type Overview struct {
	Friends  []Friendship // aceptadas
	Incoming []Friendship // pendientes que debe responder el usuario
	Outgoing []Friendship // pendientes enviadas por el usuario
}

func (s *Service) List(ctx context.Context, userID string) (Overview, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Overview{}, ErrInvalidInput
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Overview{}, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	out := Overview{
		Friends:  make([]Friendship, 0),
		Incoming: make([]Friendship, 0),
		Outgoing: make([]Friendship, 0),
	}
	for _, f := range items {
		switch {
		case f.Status == StatusAccepted:
			out.Friends = append(out.Friends, f)
		case f.Status == StatusPending && f.FriendID == userID:
			out.Incoming = append(out.Incoming, f)
		case f.Status == StatusPending && f.UserID == userID:
			out.Outgoing = append(out.Outgoing, f)
		}
	}
	return out, nil
}

// FriendIDs devuelve los IDs de amigos aceptados.
func (s *Service) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	ov, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ov.Friends))
	for _, f := range ov.Friends {
		out = append(out, f.Other(userID))
	}
	return out, nil
}

// CountFriends alimenta AuxStats.FriendCount.
func (s *Service) CountFriends(ctx context.Context, userID string) (int, error) {
	ids, err := s.FriendIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Feed devuelve los registros públicos de los amigos aceptados, más recientes primero.
// Con privacy=true solo se comparten tipo, volumen, duración y hora.
func (s *Service) Feed(ctx context.Context, userID string, privacy bool, limit int) ([]logs.Log, error) {
	if s.feed == nil {
		return []logs.Log{}, nil
	}
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	ids, err := s.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.feed.PublicFeed(ctx, ids, limit)
	if err != nil {
		return nil, err
	}
	if !privacy {
		return items, nil
	}

	out := make([]logs.Log, 0, len(items))
	for _, l := range items {
		out = append(out, l.Redacted())
	}
	return out, nil
}

// addressed carga la relación y verifica que userID sea el destinatario.
func (s *Service) addressed(ctx context.Context, id, userID string) (Friendship, error) {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return Friendship{}, ErrInvalidInput
	}

	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Friendship{}, err
	}
	if f.FriendID != userID {
		return Friendship{}, ErrForbidden
	}
	return f, nil
}
