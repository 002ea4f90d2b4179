package insights

import (
	"fmt"
	"time"
)

const (
	neutralHealthScore = 50
	baseHealthScore    = 70
	scoreWindowSize    = 30
	alertWindowDays    = 7
)

// HealthScore calcula un puntaje 0..100 sobre los últimos 30 eventos (sufijo de la
// lista; quien llama debe pasarla en orden cronológico).
func HealthScore(events []LoggedEvent) int {
	if len(events) == 0 {
		return neutralHealthScore
	}

	window := events
	if len(window) > scoreWindowSize {
		window = window[len(window)-scoreWindowSize:]
	}

	score := baseHealthScore

	avg := averageConsistency(window)
	switch {
	case avg >= 3 && avg <= 4.5:
		score += 15
	case avg >= 2.5 && avg <= 5:
		score += 10
	default:
		score -= 10
	}

	perDay := float64(len(window)) / scoreWindowSize
	if perDay >= 0.8 && perDay <= 3 {
		score += 10
	} else if perDay < 0.5 {
		score -= 10
	}

	if bad := countConcerning(window); bad == 0 {
		score += 5
	} else {
		score -= 5 * bad
	}

	return clamp(score, 0, 100)
}

// HealthAlerts evalúa los eventos de los últimos 7 días respecto de now.
// Orden fijo: color (caution), sueltas (warning), constipación (warning), frecuencia (info).
func HealthAlerts(events []LoggedEvent, now time.Time) []HealthAlert {
	alerts := make([]HealthAlert, 0)

	weekAgo := now.AddDate(0, 0, -alertWindowDays)
	recent := make([]LoggedEvent, 0, len(events))
	for _, e := range events {
		if !e.Timestamp.Before(weekAgo) {
			recent = append(recent, e)
		}
	}
	if len(recent) == 0 {
		return alerts
	}

	if n := countConcerning(recent); n >= 2 {
		alerts = append(alerts, HealthAlert{
			Severity:       SeverityCaution,
			Message:        fmt.Sprintf("You've logged %d concerning stool colors this week.", n),
			Recommendation: "Please consult a healthcare provider if this persists.",
		})
	}

	loose, hard := 0, 0
	for _, e := range recent {
		if e.Consistency >= 6 {
			loose++
		}
		if e.Consistency <= 2 {
			hard++
		}
	}
	if loose >= 3 {
		alerts = append(alerts, HealthAlert{
			Severity:       SeverityWarning,
			Message:        "You may be experiencing frequent loose stools.",
			Recommendation: "Stay hydrated and consider consulting a doctor if it continues.",
		})
	}
	if hard >= 3 {
		alerts = append(alerts, HealthAlert{
			Severity:       SeverityWarning,
			Message:        "You may be experiencing constipation.",
			Recommendation: "Increase fiber and water intake. Exercise can also help.",
		})
	}

	if len(recent) < 3 {
		alerts = append(alerts, HealthAlert{
			Severity:       SeverityInfo,
			Message:        "Your logging frequency is lower than usual.",
			Recommendation: "A healthy adult typically has 1-3 bowel movements per day.",
		})
	}

	return alerts
}

func averageConsistency(events []LoggedEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	sum := 0
	for _, e := range events {
		sum += int(e.Consistency)
	}
	return float64(sum) / float64(len(events))
}

func countConcerning(events []LoggedEvent) int {
	n := 0
	for _, e := range events {
		if e.Color.Concerning() {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
