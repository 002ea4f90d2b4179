// Package insights contiene el motor de estadísticas: logros, puntaje de bienestar
// y resumen mensual. Todas las funciones son puras: reciben la lista completa de
// registros, nunca la modifican y devuelven valores nuevos.
package insights

import (
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

// LoggedEvent es la vista de solo lectura de un registro que consume el motor.
// Timestamp debe venir en la zona horaria del usuario: hora del día y fecha
// de calendario se extraen de su Location.
type LoggedEvent struct {
	ID              string
	Timestamp       time.Time
	Consistency     stool.BristolType
	Volume          stool.Volume
	Color           stool.Color
	DurationSeconds int
	VenueID         string // "" = sin venue
	IsPublic        bool
}

// In devuelve una copia del evento con el timestamp convertido a loc.
func (e LoggedEvent) In(loc *time.Location) LoggedEvent {
	if loc != nil {
		e.Timestamp = e.Timestamp.In(loc)
	}
	return e
}

// InLocation convierte una lista completa sin tocar la original.
func InLocation(events []LoggedEvent, loc *time.Location) []LoggedEvent {
	out := make([]LoggedEvent, len(events))
	for i, e := range events {
		out[i] = e.In(loc)
	}
	return out
}

// AuxStats son contadores que no se derivan de la lista de eventos.
type AuxStats struct {
	BidetVenuesRated int
	LongestStreak    int
	FriendCount      int
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityCaution Severity = "caution"
	SeverityWarning Severity = "warning"
)

type HealthAlert struct {
	Severity       Severity
	Message        string
	Recommendation string
}

// MonthlySummary es el "wrapped" de un mes calendario.
// AchievementsUnlocked no se calcula acá: lo completa quien llama.
type MonthlySummary struct {
	Month time.Time

	TotalLogs            int
	TotalDurationSeconds int
	AvgDurationSeconds   int
	AvgConsistency       float64

	MostCommonHour int
	MostCommonTime string

	AchievementsUnlocked int

	HealthScore  int
	HealthAlerts []HealthAlert
}
