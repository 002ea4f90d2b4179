package insights

import (
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

// QuickStats alimenta la pantalla de inicio.
type QuickStats struct {
	TodayLogs            int
	TotalLogs            int
	TotalDurationSeconds int
	AvgConsistency       float64 // 1 decimal; 0 sin registros
}

func Quick(events []LoggedEvent, now time.Time) QuickStats {
	out := QuickStats{TotalLogs: len(events)}
	sum := 0
	for _, e := range events {
		out.TotalDurationSeconds += e.DurationSeconds
		sum += int(e.Consistency)
		if sameCalendarDate(e.Timestamp.In(now.Location()), now) {
			out.TodayLogs++
		}
	}
	if len(events) > 0 {
		out.AvgConsistency = roundHalfUp(float64(sum)/float64(len(events))*10) / 10
	}
	return out
}

type TimeOfDay string

const (
	Morning   TimeOfDay = "Morning"
	Afternoon TimeOfDay = "Afternoon"
	Evening   TimeOfDay = "Evening"
	Night     TimeOfDay = "Night"
)

// TimeOfDayOf: mañana 05-11, tarde 12-16, noche temprana 17-20, noche 21-04.
func TimeOfDayOf(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

type TimeOfDayCount struct {
	Label TimeOfDay
	Emoji string
	Count int
}

type BristolCount struct {
	Type  stool.BristolType
	Count int
}

type Distribution struct {
	TimeOfDay []TimeOfDayCount
	Bristol   []BristolCount

	ThisMonthLogs int
	LastMonthLogs int
}

// Distribute agrupa por franja horaria y tipo Bristol; los meses se toman de now.
func Distribute(events []LoggedEvent, now time.Time) Distribution {
	tod := []TimeOfDayCount{
		{Label: Morning, Emoji: "🌅"},
		{Label: Afternoon, Emoji: "☀️"},
		{Label: Evening, Emoji: "🌆"},
		{Label: Night, Emoji: "🌙"},
	}
	slot := map[TimeOfDay]int{Morning: 0, Afternoon: 1, Evening: 2, Night: 3}

	bristol := make([]BristolCount, 0, int(stool.BristolMax))
	for b := stool.BristolMin; b <= stool.BristolMax; b++ {
		bristol = append(bristol, BristolCount{Type: b})
	}

	for _, e := range events {
		h := e.Timestamp.In(now.Location()).Hour()
		tod[slot[TimeOfDayOf(h)]].Count++
		if e.Consistency.Valid() {
			bristol[int(e.Consistency-stool.BristolMin)].Count++
		}
	}

	lastMonthRef := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)

	return Distribution{
		TimeOfDay:     tod,
		Bristol:       bristol,
		ThisMonthLogs: len(EventsInMonth(events, now)),
		LastMonthLogs: len(EventsInMonth(events, lastMonthRef)),
	}
}
