package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"snapFeedAPI/internal/types/friendship"
	"snapFeedAPI/services"
	"snapFeedAPI/tests/helpers"

	"github.com/google/uuid"
)

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// TestFriendRequestLifecycle walks the full path: send a request, observe it
// from both sides, accept it, and observe the accepted edge from both sides.
func TestFriendRequestLifecycle(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()
	friendSvc := services.NewFriendService(pool, nil)

	aliceID, _ := helpers.CreateTestUser(t, pool, "alice")
	bobID, _ := helpers.CreateTestUser(t, pool, "bob")

	if err := friendSvc.SendRequest(ctx, aliceID, bobID); err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}

	aliceView, err := friendSvc.Resolve(ctx, aliceID)
	if err != nil {
		t.Fatalf("Resolve(alice) failed: %v", err)
	}
	if !containsID(aliceView.PendingSentTo, bobID) {
		t.Errorf("expected bob in alice's pending-sent set, got %+v", aliceView)
	}
	if containsID(aliceView.AcceptedFriendIDs, bobID) {
		t.Errorf("bob should not yet be an accepted friend of alice")
	}

	bobView, err := friendSvc.Resolve(ctx, bobID)
	if err != nil {
		t.Fatalf("Resolve(bob) failed: %v", err)
	}
	if !containsID(bobView.PendingReceivedFrom, aliceID) {
		t.Errorf("expected alice in bob's pending-received set, got %+v", bobView)
	}

	// A second request in either direction is rejected while one is pending.
	if err := friendSvc.SendRequest(ctx, bobID, aliceID); !errors.Is(err, services.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation for reverse duplicate request, got %v", err)
	}

	edge := friendship.Edge{UserID1: aliceID, UserID2: bobID, Status: friendship.FriendshipPending}
	if err := friendSvc.AcceptRequest(ctx, edge); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}

	// Accepting the same edge twice finds no pending row.
	if err := friendSvc.AcceptRequest(ctx, edge); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound for repeated accept, got %v", err)
	}

	for _, tc := range []struct {
		name   string
		viewer uuid.UUID
		friend uuid.UUID
	}{
		{"alice sees bob", aliceID, bobID},
		{"bob sees alice", bobID, aliceID},
	} {
		view, err := friendSvc.Resolve(ctx, tc.viewer)
		if err != nil {
			t.Fatalf("Resolve failed for %s: %v", tc.name, err)
		}
		if !containsID(view.AcceptedFriendIDs, tc.friend) {
			t.Errorf("%s: expected accepted friend, got %+v", tc.name, view)
		}
		if len(view.PendingSentTo) != 0 || len(view.PendingReceivedFrom) != 0 {
			t.Errorf("%s: expected no pending entries after accept, got %+v", tc.name, view)
		}
	}
}

// TestFeedComposition verifies the feed contains only friends' posts, newest
// first with ids breaking timestamp ties.
func TestFeedComposition(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()
	friendSvc := services.NewFriendService(pool, nil)
	postSvc := services.NewPostService(pool, nil)

	aliceID, _ := helpers.CreateTestUser(t, pool, "feed-alice")
	bobID, bobEmail := helpers.CreateTestUser(t, pool, "feed-bob")
	strangerID, strangerEmail := helpers.CreateTestUser(t, pool, "feed-stranger")

	if err := friendSvc.SendRequest(ctx, aliceID, bobID); err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	edge := friendship.Edge{UserID1: aliceID, UserID2: bobID, Status: friendship.FriendshipPending}
	if err := friendSvc.AcceptRequest(ctx, edge); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	insertPost := func(authorID uuid.UUID, authorEmail, description string, createdAt time.Time) uuid.UUID {
		id := uuid.New()
		_, err := pool.Exec(ctx, `
			INSERT INTO posts (id, user_id, user_email, description, image_urls, created_at)
			VALUES ($1, $2, $3, $4, '[]', $5)
		`, id, authorID, authorEmail, description, createdAt)
		if err != nil {
			t.Fatalf("failed to insert post %q: %v", description, err)
		}
		return id
	}

	older := insertPost(bobID, bobEmail, "older", base)
	tieA := insertPost(bobID, bobEmail, "tie-a", base.Add(time.Minute))
	tieB := insertPost(bobID, bobEmail, "tie-b", base.Add(time.Minute))
	insertPost(strangerID, strangerEmail, "not visible", base.Add(2*time.Minute))

	view, err := friendSvc.Resolve(ctx, aliceID)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	feed, err := postSvc.ComposeFeed(ctx, view.AcceptedFriendIDs)
	if err != nil {
		t.Fatalf("ComposeFeed failed: %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("expected 3 feed posts, got %d", len(feed))
	}

	if feed[2].ID != older {
		t.Errorf("expected oldest post last, got %s", feed[2].Description)
	}
	// Equal timestamps order by id descending.
	first, second := feed[0].ID, feed[1].ID
	wantFirst, wantSecond := tieA, tieB
	if tieB.String() > tieA.String() {
		wantFirst, wantSecond = tieB, tieA
	}
	if first != wantFirst || second != wantSecond {
		t.Errorf("tie-broken order wrong: got (%s, %s), want (%s, %s)", first, second, wantFirst, wantSecond)
	}
	for _, p := range feed {
		if p.UserEmail != bobEmail {
			t.Errorf("feed leaked post from %s", p.UserEmail)
		}
	}
}

// TestEnrichProfilesPartialFailure checks that one unresolvable id does not
// sink the batch.
func TestEnrichProfilesPartialFailure(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()
	friendSvc := services.NewFriendService(pool, nil)

	knownID, knownEmail := helpers.CreateTestUser(t, pool, "enrich")
	missingID := uuid.New()

	profiles := friendSvc.EnrichProfiles(ctx, []uuid.UUID{knownID, missingID})
	if len(profiles) != 1 {
		t.Fatalf("expected 1 enriched profile, got %d", len(profiles))
	}
	p, ok := profiles[knownID]
	if !ok {
		t.Fatal("known user missing from enriched profiles")
	}
	if p.Email != knownEmail {
		t.Errorf("expected email %s, got %s", knownEmail, p.Email)
	}
	if _, ok := profiles[missingID]; ok {
		t.Error("unresolvable id should be dropped, not present")
	}
}
