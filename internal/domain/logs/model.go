package logs

import (
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

type Log struct {
	ID     string
	UserID string

	LoggedAt   time.Time
	RecordedAt time.Time

	Consistency     stool.BristolType
	Volume          stool.Volume
	Color           stool.Color
	DurationSeconds int

	Notes    string
	IsPublic bool

	Latitude  *float64
	Longitude *float64
	VenueID   string // opcional

	PoopPhotoURL   string
	ToiletPhotoURL string
}

// Event proyecta el registro a la vista que consume el motor de insights.
func (l Log) Event() insights.LoggedEvent {
	return insights.LoggedEvent{
		ID:              l.ID,
		Timestamp:       l.LoggedAt,
		Consistency:     l.Consistency,
		Volume:          l.Volume,
		Color:           l.Color,
		DurationSeconds: l.DurationSeconds,
		VenueID:         l.VenueID,
		IsPublic:        l.IsPublic,
	}
}

// Events proyecta una lista conservando el orden.
func Events(items []Log) []insights.LoggedEvent {
	out := make([]insights.LoggedEvent, 0, len(items))
	for _, l := range items {
		out = append(out, l.Event())
	}
	return out
}

// Redacted deja solo lo que se comparte en modo privacidad:
// tipo, volumen, duración y hora.
func (l Log) Redacted() Log {
	return Log{
		ID:              l.ID,
		UserID:          l.UserID,
		LoggedAt:        l.LoggedAt,
		RecordedAt:      l.RecordedAt,
		Consistency:     l.Consistency,
		Volume:          l.Volume,
		DurationSeconds: l.DurationSeconds,
		IsPublic:        l.IsPublic,
	}
}
