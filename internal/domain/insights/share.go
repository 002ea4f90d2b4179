package insights

import (
	"fmt"
	"strings"
)

// FormatDuration: "2h 20m" con horas, "3 min" sin horas.
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%d min", m)
}

// MonthlyShareText arma el texto que se comparte desde el reporte mensual.
func MonthlyShareText(s MonthlySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 My PooPals %s Wrapped!\n\n", s.Month.Format("January 2006"))
	fmt.Fprintf(&b, "💩 %d logs\n", s.TotalLogs)
	fmt.Fprintf(&b, "⏱ %s total throne time\n", FormatDuration(s.TotalDurationSeconds))
	fmt.Fprintf(&b, "📈 Health Score: %d/100\n", s.HealthScore)
	fmt.Fprintf(&b, "🏆 %d achievements unlocked\n\n", s.AchievementsUnlocked)
	b.WriteString("#PooPals #MonthlyWrapped")
	return b.String()
}

func AchievementsShareText(unlocked, total int) string {
	return fmt.Sprintf("🏆 I've unlocked %d/%d achievements on PooPals! 💩", unlocked, total)
}
