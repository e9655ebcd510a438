package friendship

import (
	"time"

	"github.com/google/uuid"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
)

// Edge is a directed friend-request row: UserID1 sent the request, UserID2
// received it. An accepted edge means both parties confirmed, so the
// relationship itself is undirected.
type Edge struct {
	UserID1   uuid.UUID        `json:"user_id_1" db:"user_id_1"`
	UserID2   uuid.UUID        `json:"user_id_2" db:"user_id_2"`
	Status    FriendshipStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// Other returns the party on the edge that is not userID.
func (e Edge) Other(userID uuid.UUID) uuid.UUID {
	if e.UserID1 == userID {
		return e.UserID2
	}
	return e.UserID1
}

// Touches reports whether userID is either endpoint of the edge.
func (e Edge) Touches(userID uuid.UUID) bool {
	return e.UserID1 == userID || e.UserID2 == userID
}

// GraphView is the derived summary of a user's relationships. It is
// recomputed on every resolve and never persisted.
type GraphView struct {
	AcceptedFriendIDs   []uuid.UUID `json:"accepted_friend_ids"`
	PendingSentTo       []uuid.UUID `json:"pending_sent_to"`
	PendingReceivedFrom []uuid.UUID `json:"pending_received_from"`
}

func EmptyGraphView() GraphView {
	return GraphView{
		AcceptedFriendIDs:   []uuid.UUID{},
		PendingSentTo:       []uuid.UUID{},
		PendingReceivedFrom: []uuid.UUID{},
	}
}

// Partition classifies every edge touching userID into exactly one of the
// three GraphView sets. Accepted edges contribute the other party regardless
// of direction; pending edges split on whether userID is the requester.
// Edges that do not touch userID are ignored, and repeated edges for the
// same counterparty are deduplicated.
func Partition(userID uuid.UUID, edges []Edge) GraphView {
	view := EmptyGraphView()
	seen := make(map[uuid.UUID]bool, len(edges))

	for _, e := range edges {
		if !e.Touches(userID) {
			continue
		}
		other := e.Other(userID)
		if seen[other] {
			continue
		}
		seen[other] = true

		switch {
		case e.Status == FriendshipAccepted:
			view.AcceptedFriendIDs = append(view.AcceptedFriendIDs, other)
		case e.UserID1 == userID:
			view.PendingSentTo = append(view.PendingSentTo, other)
		default:
			view.PendingReceivedFrom = append(view.PendingReceivedFrom, other)
		}
	}

	return view
}
