package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxi-cmyk/poop-tracker/internal/adapters/storage/memory"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/logs"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/streaks"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/venues"
)

type fakeLogs struct {
	events map[string][]insights.LoggedEvent
	public []logs.Log
	err    error
}

func (f *fakeLogs) EventsForUser(ctx context.Context, userID string) ([]insights.LoggedEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events[userID], nil
}

func (f *fakeLogs) PublicEventsForUser(ctx context.Context, userID string) ([]insights.LoggedEvent, error) {
	out := []insights.LoggedEvent{}
	for _, l := range f.public {
		if l.UserID == userID && l.IsPublic {
			out = append(out, l.Event())
		}
	}
	return out, nil
}

type fakeStreaks struct{ st streaks.Streak }

func (f fakeStreaks) Get(ctx context.Context, userID string, loc *time.Location) (streaks.Streak, error) {
	return f.st, nil
}

type fakeAchievements struct {
	total     int
	between   int
	gotFrom   time.Time
	gotTo     time.Time
	callCount int
}

func (f *fakeAchievements) CountUnlocked(ctx context.Context, userID string) (int, error) {
	return f.total, nil
}

func (f *fakeAchievements) CountUnlockedBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	f.gotFrom, f.gotTo = from, to
	f.callCount++
	return f.between, nil
}

type fakeFriends struct{ ids []string }

func (f fakeFriends) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	return f.ids, nil
}

type fakeVenues struct {
	byID  map[string]venues.Summary
	rated int
}

func (f fakeVenues) Get(ctx context.Context, id string) (venues.Summary, error) {
	v, ok := f.byID[id]
	if !ok {
		return venues.Summary{}, venues.ErrNotFound
	}
	return v, nil
}

func (f fakeVenues) CountVenuesRated(ctx context.Context, userID string) (int, error) {
	return f.rated, nil
}

var now = time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)

func event(ts time.Time, b stool.BristolType, seconds int) insights.LoggedEvent {
	return insights.LoggedEvent{
		Timestamp:       ts,
		Consistency:     b,
		Volume:          stool.VolumeMedium,
		Color:           stool.ColorBrown,
		DurationSeconds: seconds,
	}
}

func newTestService(src Sources) *Service {
	svc := NewService(src)
	svc.now = func() time.Time { return now }
	return svc
}

func TestStats_CombinesSources(t *testing.T) {
	src := Sources{
		Logs: &fakeLogs{events: map[string][]insights.LoggedEvent{"ana": {
			event(now.Add(-2*time.Hour), 4, 120),
			event(now.Add(-26*time.Hour), 3, 300),
			event(now.AddDate(0, -1, 0), 5, 60),
		}}},
		Streaks:      fakeStreaks{st: streaks.Streak{Current: 2, Longest: 7}},
		Achievements: &fakeAchievements{total: 4},
		Venues:       fakeVenues{rated: 3},
	}
	svc := newTestService(src)

	st, err := svc.Stats(context.Background(), "ana", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 1, st.Quick.TodayLogs)
	assert.Equal(t, 3, st.Quick.TotalLogs)
	assert.Equal(t, 480, st.Quick.TotalDurationSeconds)
	assert.Equal(t, 4.0, st.Quick.AvgConsistency)
	assert.Equal(t, 2, st.CurrentStreak)
	assert.Equal(t, 7, st.LongestStreak)
	assert.Equal(t, 4, st.Achievements)
	assert.Equal(t, 3, st.VenuesRated)
	assert.Equal(t, 2, st.Distribution.ThisMonthLogs)
	assert.Equal(t, 1, st.Distribution.LastMonthLogs)
}

func TestStats_TodayFollowsUserZone(t *testing.T) {
	// 23:30 UTC del 19 es el 20 en UTC+2
	src := Sources{Logs: &fakeLogs{events: map[string][]insights.LoggedEvent{"ana": {
		event(time.Date(2026, 3, 19, 23, 30, 0, 0, time.UTC), 4, 60),
	}}}}
	svc := newTestService(src)

	st, err := svc.Stats(context.Background(), "ana", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Quick.TodayLogs)

	st, err = svc.Stats(context.Background(), "ana", time.FixedZone("UTC+2", 2*3600))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Quick.TodayLogs)
}

func TestStats_PropagatesErrors(t *testing.T) {
	svc := newTestService(Sources{Logs: &fakeLogs{err: errors.New("db down")}})

	_, err := svc.Stats(context.Background(), "ana", time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load events")

	_, err = svc.Stats(context.Background(), " ", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHealth_EmptyHistoryIsNeutral(t *testing.T) {
	svc := newTestService(Sources{Logs: &fakeLogs{}})

	h, err := svc.Health(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, 50, h.Score)
	assert.NotNil(t, h.Alerts)
}

func TestParseMonth(t *testing.T) {
	svc := newTestService(Sources{})
	rome := time.FixedZone("CET", 3600)

	got, err := svc.ParseMonth("2026-01", rome)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, rome), got)

	got, err = svc.ParseMonth("", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = svc.ParseMonth("2026-13", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.ParseMonth("march", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMonthly_InjectsUnlocksShareTextAndFavoriteVenue(t *testing.T) {
	withVenue := func(e insights.LoggedEvent, id string) insights.LoggedEvent {
		e.VenueID = id
		return e
	}
	feb := func(day int) time.Time { return time.Date(2026, 2, day, 9, 0, 0, 0, time.UTC) }

	ach := &fakeAchievements{between: 2}
	src := Sources{
		Logs: &fakeLogs{events: map[string][]insights.LoggedEvent{"ana": {
			withVenue(event(feb(1), 4, 600), "office"),
			withVenue(event(feb(2), 4, 600), "mall"),
			withVenue(event(feb(3), 4, 600), "mall"),
			withVenue(event(feb(4), 4, 600), "office"),
			event(feb(5), 4, 600),
			withVenue(event(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), 4, 600), "gym"),
		}}},
		Achievements: ach,
		Venues: fakeVenues{byID: map[string]venues.Summary{
			"office": {Venue: venues.Venue{ID: "office", Name: "Office 3F"}},
		}},
	}
	svc := newTestService(src)

	ref := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	m, err := svc.Monthly(context.Background(), "ana", ref)
	require.NoError(t, err)

	assert.Equal(t, 5, m.Summary.TotalLogs)
	assert.Equal(t, 2, m.Summary.AchievementsUnlocked)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), ach.gotFrom)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ach.gotTo)

	assert.Contains(t, m.ShareText, "February 2026")
	assert.Contains(t, m.ShareText, "💩 5 logs")
	assert.Contains(t, m.ShareText, "50 min total throne time")
	assert.Contains(t, m.ShareText, "🏆 2 achievements unlocked")

	// office y mall empatan en 2; gana el primero visitado
	require.NotNil(t, m.FavoriteVenue)
	assert.Equal(t, "office", m.FavoriteVenue.ID)
	assert.Equal(t, "Office 3F", m.FavoriteVenue.Name)
	assert.Equal(t, 2, m.FavoriteVenue.Visits)
}

func TestMonthly_UnknownVenueKeepsID(t *testing.T) {
	e := event(time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC), 4, 60)
	e.VenueID = "gone"
	src := Sources{
		Logs:   &fakeLogs{events: map[string][]insights.LoggedEvent{"ana": {e}}},
		Venues: fakeVenues{},
	}
	svc := newTestService(src)

	m, err := svc.Monthly(context.Background(), "ana", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, m.FavoriteVenue)
	assert.Equal(t, "gone", m.FavoriteVenue.ID)
	assert.Empty(t, m.FavoriteVenue.Name)
}

func TestMonthly_NoVenueNoFavorite(t *testing.T) {
	src := Sources{Logs: &fakeLogs{events: map[string][]insights.LoggedEvent{"ana": {
		event(time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC), 4, 60),
	}}}}
	svc := newTestService(src)

	m, err := svc.Monthly(context.Background(), "ana", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, m.FavoriteVenue)
	assert.Equal(t, 0, m.Summary.AchievementsUnlocked)
}

func TestLeaderboards_SelfAllLogsFriendsPublicOnly(t *testing.T) {
	pub := func(user string, seconds int, v stool.Volume) logs.Log {
		return logs.Log{UserID: user, Consistency: 4, Volume: v, DurationSeconds: seconds, IsPublic: true, LoggedAt: now}
	}
	src := Sources{
		Logs: &fakeLogs{
			events: map[string][]insights.LoggedEvent{"ana": {
				event(now, 4, 90),
				event(now, 4, 900),
			}},
			public: []logs.Log{
				pub("beto", 30, stool.VolumeLarge),
				pub("beto", 200, stool.VolumeMassive),
				pub("caro", 1200, stool.VolumeSmall),
				pub("mallory", 1, stool.VolumeMassive), // no es amigo
			},
		},
		Friends: fakeFriends{ids: []string{"beto", "caro"}},
	}
	svc := newTestService(src)

	lb, err := svc.Leaderboards(context.Background(), "ana", 0)
	require.NoError(t, err)

	require.Len(t, lb.Sprinter, 3)
	assert.Equal(t, "beto", lb.Sprinter[0].UserID)
	assert.Equal(t, 30, lb.Sprinter[0].Value)
	assert.Equal(t, "ana", lb.Sprinter[1].UserID)

	assert.Equal(t, "caro", lb.Marathoner[0].UserID)
	assert.Equal(t, "ana", lb.Marathoner[1].UserID)
	assert.Equal(t, 900, lb.Marathoner[1].Value)

	require.Len(t, lb.Heavyweight, 1)
	assert.Equal(t, "beto", lb.Heavyweight[0].UserID)
	assert.Equal(t, 2, lb.Heavyweight[0].Value)
}

func TestLeaderboards_ActiveFriendDoesNotCrowdOutOthers(t *testing.T) {
	ctx := context.Background()
	logSvc := logs.NewService(memory.NewLogRepo())
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	create := func(user string, at time.Time, seconds int, volume string, public bool) {
		t.Helper()
		_, err := logSvc.Create(ctx, user, logs.CreateInput{
			LoggedAt:        at,
			Consistency:     4,
			Volume:          volume,
			Color:           "brown",
			DurationSeconds: seconds,
			IsPublic:        public,
		})
		require.NoError(t, err)
	}

	create("quiet", base, 10, "massive", true)
	create("quiet", base.Add(time.Hour), 5, "large", false)
	for i := 0; i < logs.MaxListLimit+100; i++ {
		create("busy", base.AddDate(0, 1, 0).Add(time.Duration(i)*time.Minute), 300, "small", true)
	}
	create("ana", base, 120, "medium", false)

	svc := newTestService(Sources{
		Logs:    logSvc,
		Friends: fakeFriends{ids: []string{"busy", "quiet"}},
	})

	lb, err := svc.Leaderboards(ctx, "ana", 0)
	require.NoError(t, err)

	require.Len(t, lb.Sprinter, 3)
	assert.Equal(t, "quiet", lb.Sprinter[0].UserID)
	assert.Equal(t, 10, lb.Sprinter[0].Value, "private logs stay out of the boards")

	require.Len(t, lb.Heavyweight, 1)
	assert.Equal(t, "quiet", lb.Heavyweight[0].UserID)
	assert.Equal(t, 1, lb.Heavyweight[0].Value)

	require.Len(t, lb.Marathoner, 3)
	assert.Equal(t, "busy", lb.Marathoner[0].UserID)
}
