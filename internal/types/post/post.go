package post

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	UserID      uuid.UUID    `json:"user_id" db:"user_id"`
	UserEmail   string       `json:"user_email" db:"user_email"`
	Description string       `json:"description" db:"description"`
	ImageURLs   ImageURLList `json:"image_urls" db:"image_urls"`
	EventDate   *time.Time   `json:"event_date,omitempty" db:"event_date"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

type CreatePostRequest struct {
	Description string `json:"description"`
	EventDate   string `json:"event_date"` // YYYY-MM-DD, optional
}

type UpdatePostRequest struct {
	Description string `json:"description"`
}

// PostDetail is the single-post view with the event countdown precomputed.
type PostDetail struct {
	Post
	DaysUntilEvent *int `json:"days_until_event,omitempty"`
}

// DaysUntilEvent returns the whole days from now until the event date,
// rounded up, or nil when the post has no event date. Past events yield
// negative values.
func (p *Post) DaysUntilEvent(now time.Time) *int {
	if p.EventDate == nil {
		return nil
	}
	diff := p.EventDate.Sub(now)
	days := int(math.Ceil(diff.Hours() / 24))
	return &days
}
