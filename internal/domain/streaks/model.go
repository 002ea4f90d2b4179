package streaks

import "time"

// Streak cuenta días calendario consecutivos con al menos un registro.
// LastLogDate es una fecha civil (00:00 UTC con el año/mes/día del usuario).
type Streak struct {
	UserID      string
	Current     int
	Longest     int
	LastLogDate time.Time
	UpdatedAt   time.Time
}

// civilDate toma año/mes/día de t en su propia Location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
