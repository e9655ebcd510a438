package user

import "time"

type User struct {
	ID           string    `json:"id"`
	ClerkID      string    `json:"clerkId"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateUserRequest struct {
	ClerkID      string `json:"clerkId"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
}

type UpdateProfileRequest struct {
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
}

// Profile is the enriched display view of a friend: just what the feed and
// friend list need to render an entry.
type Profile struct {
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
}
