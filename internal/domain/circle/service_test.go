package circle

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/logs"
	"github.com/maxi-cmyk/poop-tracker/internal/platform/logger"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/activity"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Friendship
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Friendship{}}
}

func (r *testRepo) Create(ctx context.Context, f Friendship) error {
	if f.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[f.ID] = f
	return nil
}

func (r *testRepo) Update(ctx context.Context, f Friendship) error {
	if _, ok := r.byID[f.ID]; !ok {
		return ErrNotFound
	}
	r.byID[f.ID] = f
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Friendship, error) {
	f, ok := r.byID[id]
	if !ok {
		return Friendship{}, ErrNotFound
	}
	return f, nil
}

func (r *testRepo) FindByPair(ctx context.Context, a, b string) (Friendship, error) {
	for _, f := range r.byID {
		if (f.UserID == a && f.FriendID == b) || (f.UserID == b && f.FriendID == a) {
			return f, nil
		}
	}
	return Friendship{}, ErrNotFound
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Friendship, error) {
	out := make([]Friendship, 0)
	for _, f := range r.byID {
		if f.Involves(userID) {
			out = append(out, f)
		}
	}
	return out, nil
}

type fakeFeed struct {
	gotIDs []string
	items  []logs.Log
}

func (f *fakeFeed) PublicFeed(ctx context.Context, userIDs []string, limit int) ([]logs.Log, error) {
	f.gotIDs = userIDs
	return f.items, nil
}

type countingPublisher struct{ n int }

func (p *countingPublisher) Publish(context.Context, activity.Event) error {
	p.n++
	return nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, activity.Event) error {
	return errors.New("broker unreachable")
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil, nil)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestRequest_RejectsSelfAndEmpty(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Request(ctx, "ana", "ana"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for self request, got %v", err)
	}
	if _, err := svc.Request(ctx, "ana", " "); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty friend, got %v", err)
	}
}

func TestRequest_DedupesPairInBothDirections(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	f1, err := svc.Request(ctx, "ana", "beto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f2, err := svc.Request(ctx, "beto", "ana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f1.ID != f2.ID {
		t.Fatalf("expected same friendship, got %s and %s", f1.ID, f2.ID)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 friendship, got %d", len(repo.byID))
	}
}

func TestAccept_OnlyAddresseeAndIdempotent(t *testing.T) {
	svc, _ := newTestService()
	pub := &countingPublisher{}
	svc.pub = pub
	ctx := context.Background()

	f, _ := svc.Request(ctx, "ana", "beto")

	if _, err := svc.Accept(ctx, f.ID, "ana"); err != ErrForbidden {
		t.Fatalf("requester must not accept own request, got %v", err)
	}

	got, err := svc.Accept(ctx, f.ID, "beto")
	if err != nil || got.Status != StatusAccepted {
		t.Fatalf("expected accepted, got %v / %v", got.Status, err)
	}
	if _, err := svc.Accept(ctx, f.ID, "beto"); err != nil {
		t.Fatalf("accept should be idempotent, got %v", err)
	}
	if pub.n != 1 {
		t.Fatalf("expected one activity event, got %d", pub.n)
	}

	if _, err := svc.Reject(ctx, f.ID, "beto"); err != ErrBadState {
		t.Fatalf("cannot reject accepted friendship, got %v", err)
	}
}

func TestAccept_PublishFailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	svc, _ := newTestService()
	svc.pub = failingPublisher{}
	svc.log = logger.New(logger.Options{Level: logger.Warn, Format: logger.FormatJSON, Output: &buf})
	ctx := context.Background()

	f, _ := svc.Request(ctx, "ana", "beto")
	got, err := svc.Accept(ctx, f.ID, "beto")
	if err != nil || got.Status != StatusAccepted {
		t.Fatalf("accept must succeed despite publish error, got %v / %v", got.Status, err)
	}

	out := buf.String()
	if !strings.Contains(out, "activity publish failed") || !strings.Contains(out, "broker unreachable") {
		t.Fatalf("expected warning with the publish error, got %q", out)
	}
	if !strings.Contains(out, f.ID) {
		t.Fatalf("expected friendship id in log line, got %q", out)
	}
}

func TestReject_ThenReRequestReopens(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	f, _ := svc.Request(ctx, "ana", "beto")
	if _, err := svc.Reject(ctx, f.ID, "beto"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Accept(ctx, f.ID, "beto"); err != ErrBadState {
		t.Fatalf("expected ErrBadState accepting a rejected request, got %v", err)
	}

	again, err := svc.Request(ctx, "beto", "ana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != f.ID || again.Status != StatusPending || again.UserID != "beto" || again.FriendID != "ana" {
		t.Fatalf("expected reopened request from beto, got %+v", again)
	}
}

func TestListAndCountFriends(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ab, _ := svc.Request(ctx, "ana", "beto")
	_, _ = svc.Accept(ctx, ab.ID, "beto")
	ca, _ := svc.Request(ctx, "caro", "ana")
	_, _ = svc.Accept(ctx, ca.ID, "ana")
	_, _ = svc.Request(ctx, "dani", "ana")
	_, _ = svc.Request(ctx, "ana", "eva")

	n, err := svc.CountFriends(ctx, "ana")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 friends, got %d (%v)", n, err)
	}

	ov, _ := svc.List(ctx, "ana")
	if len(ov.Incoming) != 1 || ov.Incoming[0].UserID != "dani" {
		t.Fatalf("unexpected incoming: %+v", ov.Incoming)
	}
	if len(ov.Outgoing) != 1 || ov.Outgoing[0].FriendID != "eva" {
		t.Fatalf("unexpected outgoing: %+v", ov.Outgoing)
	}
}

func TestRemove_EitherSide(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	f, _ := svc.Request(ctx, "ana", "beto")
	if err := svc.Remove(ctx, f.ID, "caro"); err != ErrForbidden {
		t.Fatalf("outsider must not remove, got %v", err)
	}
	if err := svc.Remove(ctx, f.ID, "beto"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected friendship deleted")
	}
	if err := svc.Remove(ctx, f.ID, "beto"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFeed_PrivacyStripsDetails(t *testing.T) {
	repo := newTestRepo()
	lat, lon := 1.0, 2.0
	feed := &fakeFeed{items: []logs.Log{{
		ID: "l1", UserID: "beto", Consistency: 4, Volume: "large", DurationSeconds: 120,
		Notes: "too much info", Latitude: &lat, Longitude: &lon, VenueID: "v1", IsPublic: true,
	}}}
	svc := NewService(repo, feed, nil, nil)
	ctx := context.Background()

	f, _ := svc.Request(ctx, "ana", "beto")
	_, _ = svc.Accept(ctx, f.ID, "beto")
	_, _ = svc.Request(ctx, "ana", "caro") // pendiente: no entra al feed

	items, err := svc.Feed(ctx, "ana", true, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed.gotIDs) != 1 || feed.gotIDs[0] != "beto" {
		t.Fatalf("feed must only include accepted friends, got %v", feed.gotIDs)
	}
	if items[0].Notes != "" || items[0].Latitude != nil || items[0].VenueID != "" {
		t.Fatalf("privacy mode leaked details: %+v", items[0])
	}
	if items[0].DurationSeconds != 120 || items[0].Volume != "large" {
		t.Fatalf("privacy mode must keep shareable fields: %+v", items[0])
	}

	open, _ := svc.Feed(ctx, "ana", false, 0)
	if open[0].Notes != "too much info" {
		t.Fatalf("expected full details without privacy mode")
	}
}
