package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

func TestQuick(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	events := []LoggedEvent{
		ev(now.AddDate(0, 0, -1), withType(3), withDuration(60)),
		ev(now.Add(-2*time.Hour), withType(4), withDuration(120)),
		ev(now.Add(-10*time.Hour), withType(4), withDuration(300)),
	}

	got := Quick(events, now)
	assert.Equal(t, QuickStats{
		TodayLogs:            2,
		TotalLogs:            3,
		TotalDurationSeconds: 480,
		AvgConsistency:       3.7,
	}, got)

	assert.Equal(t, QuickStats{}, Quick(nil, now))
}

func TestTimeOfDayOf(t *testing.T) {
	cases := map[int]TimeOfDay{
		0: Night, 4: Night, 5: Morning, 11: Morning, 12: Afternoon,
		16: Afternoon, 17: Evening, 20: Evening, 21: Night, 23: Night,
	}
	for h, want := range cases {
		assert.Equal(t, want, TimeOfDayOf(h), "hour %d", h)
	}
}

func TestDistribute(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []LoggedEvent{
		ev(time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC), withType(4)),
		ev(time.Date(2026, 3, 3, 13, 0, 0, 0, time.UTC), withType(4)),
		ev(time.Date(2026, 2, 27, 22, 0, 0, 0, time.UTC), withType(1)),
		ev(time.Date(2026, 2, 28, 2, 0, 0, 0, time.UTC), withType(7)),
		ev(time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC), withType(5)),
	}

	d := Distribute(events, now)

	require.Len(t, d.TimeOfDay, 4)
	assert.Equal(t, 1, d.TimeOfDay[0].Count)
	assert.Equal(t, 1, d.TimeOfDay[1].Count)
	assert.Equal(t, 1, d.TimeOfDay[2].Count)
	assert.Equal(t, 2, d.TimeOfDay[3].Count)
	assert.Equal(t, Night, d.TimeOfDay[3].Label)

	require.Len(t, d.Bristol, 7)
	assert.Equal(t, BristolCount{Type: 4, Count: 2}, d.Bristol[3])
	assert.Equal(t, 1, d.Bristol[0].Count)
	assert.Equal(t, 0, d.Bristol[1].Count)

	assert.Equal(t, 2, d.ThisMonthLogs)
	assert.Equal(t, 2, d.LastMonthLogs)
}

func TestBuildLeaderboards(t *testing.T) {
	participants := []Participant{
		{UserID: "ana", Events: []LoggedEvent{
			ev(march10, withDuration(45)),
			ev(march10, withDuration(900), withVolume(stool.VolumeLarge)),
		}},
		{UserID: "beto", Events: []LoggedEvent{
			ev(march10, withDuration(45), withVolume(stool.VolumeMassive)),
			ev(march10, withDuration(2400), withVolume(stool.VolumeMassive)),
		}},
		{UserID: "caro"},
		{UserID: "dani", Events: []LoggedEvent{ev(march10, withDuration(200))}},
	}

	lb := BuildLeaderboards(participants, 0)

	assert.Equal(t, []LeaderboardEntry{
		{Rank: 1, UserID: "ana", Value: 45},
		{Rank: 2, UserID: "beto", Value: 45},
		{Rank: 3, UserID: "dani", Value: 200},
	}, lb.Sprinter)
	assert.Equal(t, "beto", lb.Marathoner[0].UserID)
	assert.Equal(t, 2400, lb.Marathoner[0].Value)
	assert.Equal(t, []LeaderboardEntry{
		{Rank: 1, UserID: "beto", Value: 2},
		{Rank: 2, UserID: "ana", Value: 1},
	}, lb.Heavyweight)

	top := BuildLeaderboards(participants, 1)
	assert.Len(t, top.Sprinter, 1)

	empty := BuildLeaderboards(nil, 10)
	assert.NotNil(t, empty.Heavyweight)
	assert.Empty(t, empty.Sprinter)
}

func TestBuildLeaderboards_MarathonerIsSingleSession(t *testing.T) {
	participants := []Participant{
		{UserID: "many", Events: daily(march10, 5, withDuration(600))},
		{UserID: "once", Events: []LoggedEvent{ev(march10, withDuration(1500))}},
	}

	lb := BuildLeaderboards(participants, 0)

	assert.Equal(t, []LeaderboardEntry{
		{Rank: 1, UserID: "once", Value: 1500},
		{Rank: 2, UserID: "many", Value: 600},
	}, lb.Marathoner)
}

func TestShareText(t *testing.T) {
	assert.Equal(t, "2h 20m", FormatDuration(8400))
	assert.Equal(t, "2 min", FormatDuration(179))
	assert.Equal(t, "0 min", FormatDuration(0))

	s := MonthlySummary{
		Month:                time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		TotalLogs:            42,
		TotalDurationSeconds: 8400,
		HealthScore:          85,
		AchievementsUnlocked: 3,
	}
	text := MonthlyShareText(s)
	assert.True(t, strings.HasPrefix(text, "📊 My PooPals March 2026 Wrapped!\n\n"))
	assert.Contains(t, text, "💩 42 logs\n")
	assert.Contains(t, text, "⏱ 2h 20m total throne time\n")
	assert.Contains(t, text, "📈 Health Score: 85/100\n")
	assert.Contains(t, text, "🏆 3 achievements unlocked\n\n")
	assert.True(t, strings.HasSuffix(text, "#PooPals #MonthlyWrapped"))

	assert.Equal(t, "🏆 I've unlocked 4/11 achievements on PooPals! 💩", AchievementsShareText(4, 11))
}
