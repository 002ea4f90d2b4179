package insights

import (
	"fmt"
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

var march10 = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

type eventOpt func(*LoggedEvent)

func withType(b stool.BristolType) eventOpt { return func(e *LoggedEvent) { e.Consistency = b } }
func withColor(c stool.Color) eventOpt      { return func(e *LoggedEvent) { e.Color = c } }
func withVolume(v stool.Volume) eventOpt    { return func(e *LoggedEvent) { e.Volume = v } }
func withDuration(s int) eventOpt           { return func(e *LoggedEvent) { e.DurationSeconds = s } }
func withVenue(id string) eventOpt          { return func(e *LoggedEvent) { e.VenueID = id } }

var seq int

// ev crea un evento "neutro": tipo 4, medium, brown, 3 minutos, sin venue.
func ev(ts time.Time, opts ...eventOpt) LoggedEvent {
	seq++
	e := LoggedEvent{
		ID:              fmt.Sprintf("log-%d", seq),
		Timestamp:       ts,
		Consistency:     stool.BristolIdeal,
		Volume:          stool.VolumeMedium,
		Color:           stool.ColorBrown,
		DurationSeconds: 180,
	}
	for _, o := range opts {
		o(&e)
	}
	return e
}

// daily crea n eventos, uno por día a partir de start.
func daily(start time.Time, n int, opts ...eventOpt) []LoggedEvent {
	out := make([]LoggedEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ev(start.AddDate(0, 0, i), opts...))
	}
	return out
}
