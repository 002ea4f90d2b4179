package activity

import (
	"context"
	"time"
)

type Kind string

const (
	KindLogRecorded         Kind = "log_recorded"
	KindAchievementUnlocked Kind = "achievement_unlocked"
	KindFriendAccepted      Kind = "friend_accepted"
)

// Event es lo que ve el círculo de un usuario. Nunca lleva notas, fotos ni coordenadas.
type Event struct {
	Kind       Kind              `json:"kind"`
	UserID     string            `json:"user_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Publisher publica actividad hacia afuera (Kafka en prod).
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Discard no publica nada. Se usa cuando no hay brokers configurados.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
