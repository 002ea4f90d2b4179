package streaks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byUser map[string]Streak
}

func newTestRepo() *testRepo {
	return &testRepo{byUser: map[string]Streak{}}
}

func (r *testRepo) Get(_ context.Context, userID string) (Streak, error) {
	s, ok := r.byUser[userID]
	if !ok {
		return Streak{}, ErrNotFound
	}
	return s, nil
}

func (r *testRepo) Upsert(_ context.Context, s Streak) error {
	r.byUser[s.UserID] = s
	return nil
}

func (r *testRepo) ListByUsers(_ context.Context, userIDs []string) ([]Streak, error) {
	out := make([]Streak, 0)
	for _, id := range userIDs {
		if s, ok := r.byUser[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func day(d, h int) time.Time {
	return time.Date(2026, time.March, d, h, 0, 0, 0, time.UTC)
}

func TestRecord_ConsecutiveSameDayAndGap(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return day(20, 12) }

	st, err := svc.Record(ctx, "u1", day(1, 8))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Current)

	st, _ = svc.Record(ctx, "u1", day(1, 22))
	assert.Equal(t, 1, st.Current, "same day does not change the streak")

	st, _ = svc.Record(ctx, "u1", day(2, 0))
	assert.Equal(t, 2, st.Current)
	st, _ = svc.Record(ctx, "u1", day(3, 23))
	assert.Equal(t, 3, st.Current)

	st, _ = svc.Record(ctx, "u1", day(5, 9))
	assert.Equal(t, 1, st.Current)
	assert.Equal(t, 3, st.Longest)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), st.LastLogDate)
}

func TestRecord_BackdatedLogIsIgnored(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestRepo())

	_, _ = svc.Record(ctx, "u1", day(10, 8))
	_, _ = svc.Record(ctx, "u1", day(11, 8))

	st, err := svc.Record(ctx, "u1", day(4, 8))
	require.NoError(t, err)
	assert.Equal(t, 2, st.Current)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), st.LastLogDate)
}

func TestRecord_UsesCalendarDateOfLocation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestRepo())
	rome := time.FixedZone("UTC+1", 3600)

	// 23:30 UTC del 1 es el 2 a las 00:30 en UTC+1
	_, _ = svc.Record(ctx, "u1", day(1, 10).In(rome))
	st, _ := svc.Record(ctx, "u1", time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC).In(rome))
	assert.Equal(t, 2, st.Current)
}

func TestGet_ReportsZeroWhenOlderThanYesterday(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestRepo())

	for d := 1; d <= 4; d++ {
		_, _ = svc.Record(ctx, "u1", day(d, 9))
	}

	svc.now = func() time.Time { return day(5, 10) }
	st, err := svc.Get(ctx, "u1", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Current, "logged yesterday keeps the streak alive")

	svc.now = func() time.Time { return day(6, 10) }
	st, _ = svc.Get(ctx, "u1", time.UTC)
	assert.Equal(t, 0, st.Current)
	assert.Equal(t, 4, st.Longest)

	longest, err := svc.LongestStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, longest)

	current, err := svc.CurrentByUsers(ctx, []string{"u1", "ghost"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"u1": 0}, current)
}

func TestGet_UnknownUserIsZero(t *testing.T) {
	svc := NewService(newTestRepo())
	st, err := svc.Get(context.Background(), "nobody", nil)
	require.NoError(t, err)
	assert.Equal(t, Streak{UserID: "nobody"}, st)

	_, err = svc.Get(context.Background(), " ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
