package friendship

import (
	"testing"

	"github.com/google/uuid"
)

var (
	userA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	userC = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	userD = uuid.MustParse("44444444-4444-4444-4444-444444444444")
)

func TestPartitionPendingSent(t *testing.T) {
	edges := []Edge{
		{UserID1: userA, UserID2: userB, Status: FriendshipPending},
	}

	view := Partition(userA, edges)

	if len(view.AcceptedFriendIDs) != 0 {
		t.Errorf("expected no accepted friends, got %v", view.AcceptedFriendIDs)
	}
	if len(view.PendingSentTo) != 1 || view.PendingSentTo[0] != userB {
		t.Errorf("expected pending sent to B, got %v", view.PendingSentTo)
	}
	if len(view.PendingReceivedFrom) != 0 {
		t.Errorf("expected no received requests, got %v", view.PendingReceivedFrom)
	}
}

func TestPartitionPendingReceived(t *testing.T) {
	edges := []Edge{
		{UserID1: userA, UserID2: userB, Status: FriendshipPending},
	}

	view := Partition(userB, edges)

	if len(view.PendingReceivedFrom) != 1 || view.PendingReceivedFrom[0] != userA {
		t.Errorf("expected pending received from A, got %v", view.PendingReceivedFrom)
	}
	if len(view.PendingSentTo) != 0 {
		t.Errorf("expected no sent requests, got %v", view.PendingSentTo)
	}
}

func TestPartitionAcceptedEitherDirection(t *testing.T) {
	// An accepted edge contributes the other party regardless of which
	// side originally sent the request.
	edges := []Edge{
		{UserID1: userA, UserID2: userB, Status: FriendshipAccepted},
		{UserID1: userC, UserID2: userA, Status: FriendshipAccepted},
	}

	view := Partition(userA, edges)

	if len(view.AcceptedFriendIDs) != 2 {
		t.Fatalf("expected 2 accepted friends, got %v", view.AcceptedFriendIDs)
	}
	got := map[uuid.UUID]bool{}
	for _, id := range view.AcceptedFriendIDs {
		got[id] = true
	}
	if !got[userB] || !got[userC] {
		t.Errorf("expected accepted friends B and C, got %v", view.AcceptedFriendIDs)
	}
}

func TestPartitionAfterAccept(t *testing.T) {
	pending := []Edge{{UserID1: userA, UserID2: userB, Status: FriendshipPending}}
	view := Partition(userA, pending)
	if len(view.PendingSentTo) != 1 {
		t.Fatalf("expected pending request before accept, got %+v", view)
	}

	accepted := []Edge{{UserID1: userA, UserID2: userB, Status: FriendshipAccepted}}
	view = Partition(userA, accepted)
	if len(view.AcceptedFriendIDs) != 1 || view.AcceptedFriendIDs[0] != userB {
		t.Errorf("expected accepted friend B after accept, got %+v", view)
	}
	if len(view.PendingSentTo) != 0 {
		t.Errorf("edge must leave the pending set once accepted, got %v", view.PendingSentTo)
	}
}

func TestPartitionIsDisjointAndTotal(t *testing.T) {
	edges := []Edge{
		{UserID1: userA, UserID2: userB, Status: FriendshipAccepted},
		{UserID1: userA, UserID2: userC, Status: FriendshipPending},
		{UserID1: userD, UserID2: userA, Status: FriendshipPending},
		{UserID1: userB, UserID2: userC, Status: FriendshipAccepted}, // does not touch A
	}

	view := Partition(userA, edges)

	total := len(view.AcceptedFriendIDs) + len(view.PendingSentTo) + len(view.PendingReceivedFrom)
	if total != 3 {
		t.Fatalf("expected every edge touching A classified exactly once, got %d entries", total)
	}

	seen := map[uuid.UUID]int{}
	for _, id := range view.AcceptedFriendIDs {
		seen[id]++
	}
	for _, id := range view.PendingSentTo {
		seen[id]++
	}
	for _, id := range view.PendingReceivedFrom {
		seen[id]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("user %s appears in more than one set", id)
		}
	}
	if seen[userB] != 1 || seen[userC] != 1 || seen[userD] != 1 {
		t.Errorf("expected B, C, D each classified once, got %v", seen)
	}
}

func TestPartitionDeduplicatesRepeatedEdges(t *testing.T) {
	edges := []Edge{
		{UserID1: userA, UserID2: userB, Status: FriendshipAccepted},
		{UserID1: userB, UserID2: userA, Status: FriendshipPending},
	}

	view := Partition(userA, edges)

	total := len(view.AcceptedFriendIDs) + len(view.PendingSentTo) + len(view.PendingReceivedFrom)
	if total != 1 {
		t.Errorf("duplicate edges for the same pair must collapse to one entry, got %+v", view)
	}
	if len(view.AcceptedFriendIDs) != 1 {
		t.Errorf("the first (accepted) edge wins, got %+v", view)
	}
}

func TestEdgeOther(t *testing.T) {
	e := Edge{UserID1: userA, UserID2: userB}
	if e.Other(userA) != userB {
		t.Errorf("Other(A) = %s, want B", e.Other(userA))
	}
	if e.Other(userB) != userA {
		t.Errorf("Other(B) = %s, want A", e.Other(userB))
	}
}
