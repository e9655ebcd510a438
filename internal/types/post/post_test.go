package post

import (
	"testing"
	"time"
)

func TestDaysUntilEvent(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	event := time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC)
	p := &Post{EventDate: &event}
	if d := p.DaysUntilEvent(now); d == nil || *d != 10 {
		t.Errorf("expected 10 days until event, got %v", d)
	}

	past := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	p = &Post{EventDate: &past}
	if d := p.DaysUntilEvent(now); d == nil || *d >= 0 {
		t.Errorf("expected negative countdown for past event, got %v", d)
	}
}

func TestDaysUntilEventNil(t *testing.T) {
	p := &Post{}
	if d := p.DaysUntilEvent(time.Now()); d != nil {
		t.Errorf("expected nil countdown for post without event date, got %v", d)
	}
}
