package insights

import (
	"fmt"
	"math"
	"time"
)

// MonthBounds devuelve [inicio, fin) del mes calendario de ref, en ref.Location().
// El último día del mes queda incluido completo: el fin no se corta en el último
// día a las 00:00, así que un registro del 31 a las 23:59 cuenta para el mes.
func MonthBounds(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 1, 0)
}

// EventsInMonth filtra (sin modificar la entrada) los eventos del mes de ref,
// conservando el orden original.
func EventsInMonth(events []LoggedEvent, ref time.Time) []LoggedEvent {
	start, end := MonthBounds(ref)
	out := make([]LoggedEvent, 0)
	for _, e := range events {
		if e.Timestamp.Before(start) || !e.Timestamp.Before(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// BuildMonthlySummary arma el resumen del mes de ref.
// Las alertas se calculan con la ventana de 7 días respecto de now, no del mes pedido.
func BuildMonthlySummary(events []LoggedEvent, ref, now time.Time) MonthlySummary {
	start, _ := MonthBounds(ref)
	monthEvents := EventsInMonth(events, ref)

	total := 0
	for _, e := range monthEvents {
		total += e.DurationSeconds
	}

	avgDuration := 0
	avgConsistency := 0.0
	if n := len(monthEvents); n > 0 {
		avgDuration = int(roundHalfUp(float64(total) / float64(n)))
		avgConsistency = roundHalfUp(averageConsistency(monthEvents)*10) / 10
	}

	hour := mostCommonHour(monthEvents, ref.Location())

	return MonthlySummary{
		Month:                start,
		TotalLogs:            len(monthEvents),
		TotalDurationSeconds: total,
		AvgDurationSeconds:   avgDuration,
		AvgConsistency:       avgConsistency,
		MostCommonHour:       hour,
		MostCommonTime:       FormatHour(hour),
		HealthScore:          HealthScore(monthEvents),
		HealthAlerts:         HealthAlerts(monthEvents, now),
	}
}

// mostCommonHour: empate => gana la hora más baja; sin eventos => 0.
func mostCommonHour(events []LoggedEvent, loc *time.Location) int {
	var counts [24]int
	for _, e := range events {
		counts[e.Timestamp.In(loc).Hour()]++
	}
	best := 0
	for h := 1; h < len(counts); h++ {
		if counts[h] > counts[best] {
			best = h
		}
	}
	return best
}

// FormatHour formatea una hora 0..23 en formato de 12 horas ("12 AM", "2 PM").
func FormatHour(h int) string {
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
