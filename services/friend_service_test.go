package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// These cases exercise the guards that must hold before any store access,
// so a zero-value service (no pool) proves no query is issued.

func TestResolveWithoutUserIssuesNoQuery(t *testing.T) {
	svc := &FriendService{}

	view, err := svc.Resolve(context.Background(), uuid.Nil)
	if err != nil {
		t.Fatalf("expected fail-soft empty view, got error: %v", err)
	}
	if len(view.AcceptedFriendIDs) != 0 || len(view.PendingSentTo) != 0 || len(view.PendingReceivedFrom) != 0 {
		t.Errorf("expected empty view, got %+v", view)
	}
}

func TestSendRequestToSelfIssuesNoWrite(t *testing.T) {
	svc := &FriendService{}
	id := uuid.New()

	err := svc.SendRequest(context.Background(), id, id)
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for self request, got %v", err)
	}
}

func TestSendRequestRequiresBothUsers(t *testing.T) {
	svc := &FriendService{}

	err := svc.SendRequest(context.Background(), uuid.New(), uuid.Nil)
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for missing recipient, got %v", err)
	}
}

func TestEnrichProfilesEmptySet(t *testing.T) {
	svc := &FriendService{}

	profiles := svc.EnrichProfiles(context.Background(), nil)
	if len(profiles) != 0 {
		t.Errorf("expected empty mapping, got %v", profiles)
	}
}
