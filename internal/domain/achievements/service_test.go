package achievements

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
	"github.com/maxi-cmyk/poop-tracker/internal/platform/logger"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/activity"
)

type testRepo struct {
	mu    sync.Mutex
	items []Unlock
}

func (r *testRepo) ListByUser(_ context.Context, userID string) ([]Unlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Unlock, 0)
	for _, u := range r.items {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *testRepo) Insert(_ context.Context, u Unlock) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if x.UserID == u.UserID && x.Achievement == u.Achievement {
			return false, nil
		}
	}
	r.items = append(r.items, u)
	return true, nil
}

func (r *testRepo) CountBetween(_ context.Context, userID string, from, to time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.items {
		if u.UserID == userID && !u.UnlockedAt.Before(from) && u.UnlockedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

type fakeEvents []insights.LoggedEvent

func (f fakeEvents) EventsForUser(context.Context, string) ([]insights.LoggedEvent, error) {
	return f, nil
}

type fixedCount int

func (n fixedCount) CountFriends(context.Context, string) (int, error)         { return int(n), nil }
func (n fixedCount) CountBidetVenuesRated(context.Context, string) (int, error) { return int(n), nil }
func (n fixedCount) LongestStreak(context.Context, string) (int, error)         { return int(n), nil }

type failingFriends struct{}

func (failingFriends) CountFriends(context.Context, string) (int, error) {
	return 0, errors.New("db down")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []activity.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e activity.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func TestCheck_PersistsAndPublishesOnlyNewUnlocks(t *testing.T) {
	ctx := context.Background()
	repo := &testRepo{}
	pub := &recordingPublisher{}

	events := fakeEvents{{
		ID:              "l1",
		Timestamp:       time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		Consistency:     stool.BristolIdeal,
		Volume:          stool.VolumeMassive,
		Color:           stool.ColorBrown,
		DurationSeconds: 40,
	}}
	svc := NewService(repo, Sources{Events: events, Friends: fixedCount(10)}, pub, nil)
	now := time.Date(2026, 3, 10, 14, 5, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	got, err := svc.Check(ctx, "u1", time.UTC)
	require.NoError(t, err)

	ids := make([]insights.AchievementID, 0)
	for _, u := range got {
		ids = append(ids, u.Achievement)
		assert.Equal(t, now, u.UnlockedAt)
	}
	assert.Equal(t, []insights.AchievementID{
		insights.AchievementFirstFlush,
		insights.AchievementSpeedDemon,
		insights.AchievementTheVoid,
		insights.AchievementSocialButterfly,
	}, ids)
	require.Len(t, pub.events, 4)
	assert.Equal(t, activity.KindAchievementUnlocked, pub.events[0].Kind)
	assert.Equal(t, "first_flush", pub.events[0].Attributes["achievement"])

	again, err := svc.Check(ctx, "u1", time.UTC)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, pub.events, 4)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, activity.Event) error {
	return errors.New("broker unreachable")
}

func TestCheck_PublishFailureIsLoggedAndUnlockKept(t *testing.T) {
	ctx := context.Background()
	repo := &testRepo{}
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Warn, Format: logger.FormatJSON, Output: &buf})

	events := fakeEvents{{
		ID:              "l1",
		Timestamp:       time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		Consistency:     stool.BristolIdeal,
		Volume:          stool.VolumeMedium,
		Color:           stool.ColorBrown,
		DurationSeconds: 200,
	}}
	svc := NewService(repo, Sources{Events: events}, failingPublisher{}, log)

	got, err := svc.Check(ctx, "u1", time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, insights.AchievementFirstFlush, got[0].Achievement)
	assert.Len(t, repo.items, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "activity publish failed", entry["msg"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, "first_flush", entry["achievement"])
	assert.Equal(t, "broker unreachable", entry["err"])
}

func TestCheck_ConvertsEventsToUserLocation(t *testing.T) {
	events := fakeEvents{{
		ID:          "l1",
		Timestamp:   time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		Consistency: 3, Volume: stool.VolumeSmall, Color: stool.ColorBrown, DurationSeconds: 300,
	}}
	svc := NewService(&testRepo{}, Sources{Events: events}, nil, nil)

	got, err := svc.Check(context.Background(), "u1", time.FixedZone("UTC-8", -8*3600))
	require.NoError(t, err)

	ids := make([]insights.AchievementID, 0)
	for _, u := range got {
		ids = append(ids, u.Achievement)
	}
	assert.Contains(t, ids, insights.AchievementNightOwl)
	assert.Contains(t, ids, insights.AchievementEarlyBird)
}

func TestCheck_AuxSources(t *testing.T) {
	svc := NewService(&testRepo{}, Sources{
		Bidets:  fixedCount(10),
		Streaks: fixedCount(30),
	}, nil, nil)

	got, err := svc.Check(context.Background(), "u1", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, insights.AchievementBidetConnoisseur, got[0].Achievement)
	assert.Equal(t, insights.AchievementStreakMaster, got[1].Achievement)
}

func TestCheck_SourceErrorAborts(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, Sources{Friends: failingFriends{}}, nil, nil)

	_, err := svc.Check(context.Background(), "u1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count friends")
	assert.Empty(t, repo.items)
}

func TestList_FullCatalogWithProgress(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	repo := &testRepo{items: []Unlock{
		{ID: "a", UserID: "u1", Achievement: insights.AchievementIronGut, UnlockedAt: at},
		{ID: "b", UserID: "u2", Achievement: insights.AchievementFirstFlush, UnlockedAt: at},
	}}
	svc := NewService(repo, Sources{}, nil, nil)

	ov, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 11, ov.Total)
	assert.Equal(t, 1, ov.Unlocked)
	require.Len(t, ov.Items, 11)
	assert.Equal(t, insights.AchievementFirstFlush, ov.Items[0].Achievement.ID)
	assert.False(t, ov.Items[0].Unlocked)
	assert.True(t, ov.Items[6].Unlocked)
	assert.Equal(t, at, *ov.Items[6].UnlockedAt)
}

func TestCountUnlockedBetween(t *testing.T) {
	ctx := context.Background()
	repo := &testRepo{items: []Unlock{
		{UserID: "u1", Achievement: "a", UnlockedAt: time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)},
		{UserID: "u1", Achievement: "b", UnlockedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{UserID: "u1", Achievement: "c", UnlockedAt: time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)},
		{UserID: "u1", Achievement: "d", UnlockedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(repo, Sources{}, nil, nil)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	n, err := svc.CountUnlockedBetween(ctx, "u1", from, from.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.CountUnlockedBetween(ctx, "u1", from, from)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
