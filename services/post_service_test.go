package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestComposeFeedEmptyAuthorSetIssuesNoQuery(t *testing.T) {
	svc := &PostService{}

	for _, ids := range [][]uuid.UUID{nil, {}} {
		posts, err := svc.ComposeFeed(context.Background(), ids)
		if err != nil {
			t.Fatalf("expected empty feed without error, got %v", err)
		}
		if posts == nil {
			t.Fatal("expected non-nil empty slice, got nil")
		}
		if len(posts) != 0 {
			t.Errorf("expected empty feed, got %d posts", len(posts))
		}
	}
}
