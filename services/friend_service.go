package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"sync"

	"snapFeedAPI/internal/types/friendship"
	"snapFeedAPI/internal/types/notification"
	"snapFeedAPI/internal/types/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skip2/go-qrcode"
)

// FriendService owns the friend graph: resolving a user's relationships,
// enriching friend ids into display profiles, and the request/accept
// mutations.
type FriendService struct {
	db            *pgxpool.Pool
	notifications *NotificationService
}

func NewFriendService(db *pgxpool.Pool, notifications *NotificationService) *FriendService {
	return &FriendService{db: db, notifications: notifications}
}

// Resolve fetches every friend edge touching userID and partitions it into
// accepted friends, requests the user sent, and requests the user received.
// A zero userID yields an empty view without querying. On query failure the
// view is empty and the error is returned for the caller to log; resolving
// is read-only and safe to repeat.
func (s *FriendService) Resolve(ctx context.Context, userID uuid.UUID) (friendship.GraphView, error) {
	if userID == uuid.Nil {
		return friendship.EmptyGraphView(), nil
	}

	query := `
	SELECT user_id_1, user_id_2, status, created_at
	FROM friends
	WHERE user_id_1 = $1 OR user_id_2 = $1
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return friendship.EmptyGraphView(), fmt.Errorf("failed to fetch friend edges: %w", err)
	}
	defer rows.Close()

	var edges []friendship.Edge
	for rows.Next() {
		var e friendship.Edge
		if err := rows.Scan(&e.UserID1, &e.UserID2, &e.Status, &e.CreatedAt); err != nil {
			return friendship.EmptyGraphView(), fmt.Errorf("failed to scan friend edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return friendship.EmptyGraphView(), fmt.Errorf("error iterating friend edges: %w", err)
	}

	return friendship.Partition(userID, edges), nil
}

// EnrichProfiles looks up display attributes for each id. Lookups run
// concurrently; a failed lookup is logged and its id dropped from the
// result, so one bad record never fails the batch.
func (s *FriendService) EnrichProfiles(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]user.Profile {
	profiles := make(map[uuid.UUID]user.Profile, len(ids))
	if len(ids) == 0 {
		return profiles
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()

			var p user.Profile
			var rawImage string
			err := s.db.QueryRow(ctx,
				`SELECT email, nickname, COALESCE(profile_image, '') FROM users WHERE id = $1`,
				id,
			).Scan(&p.Email, &p.Nickname, &rawImage)
			if err != nil {
				log.Printf("EnrichProfiles: lookup failed for %s: %v", id, err)
				return
			}
			p.ProfileImage = user.NormalizeProfileImage(rawImage)

			mu.Lock()
			profiles[id] = p
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return profiles
}

// SendRequest inserts a pending edge from fromID to toID. Self-requests are
// rejected before any write, and an edge already present in either direction
// blocks the insert so a pair of users is never represented twice.
func (s *FriendService) SendRequest(ctx context.Context, fromID, toID uuid.UUID) error {
	if fromID == toID {
		return fmt.Errorf("cannot send a friend request to yourself: %w", ErrInvalidOperation)
	}
	if fromID == uuid.Nil || toID == uuid.Nil {
		return fmt.Errorf("friend request requires both users: %w", ErrInvalidOperation)
	}

	var exists bool
	checkQuery := `
	SELECT EXISTS(
		SELECT 1 FROM friends
		WHERE (user_id_1 = $1 AND user_id_2 = $2)
		   OR (user_id_1 = $2 AND user_id_2 = $1)
	)
	`
	if err := s.db.QueryRow(ctx, checkQuery, fromID, toID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check existing friendship: %w", err)
	}
	if exists {
		return fmt.Errorf("relationship already exists: %w", ErrInvalidOperation)
	}

	insertQuery := `
	INSERT INTO friends (user_id_1, user_id_2, status, created_at)
	VALUES ($1, $2, 'pending', NOW())
	`
	if _, err := s.db.Exec(ctx, insertQuery, fromID, toID); err != nil {
		return fmt.Errorf("failed to insert friend request: %w", err)
	}

	s.notifyFriendEvent(ctx, toID, fromID, notification.NotificationFriendRequest,
		"New friend request", "%s sent you a friend request")

	return nil
}

// AcceptRequest flips the exact (user_id_1, user_id_2, pending) tuple to
// accepted. If no matching row exists anymore the request was already
// handled by a concurrent actor; that is logged and reported as not found,
// with no retry.
func (s *FriendService) AcceptRequest(ctx context.Context, edge friendship.Edge) error {
	query := `
	UPDATE friends
	SET status = 'accepted'
	WHERE user_id_1 = $1 AND user_id_2 = $2 AND status = 'pending'
	`

	result, err := s.db.Exec(ctx, query, edge.UserID1, edge.UserID2)
	if err != nil {
		return fmt.Errorf("failed to accept friend request: %w", err)
	}
	if result.RowsAffected() == 0 {
		log.Printf("AcceptRequest: no pending edge (%s, %s)", edge.UserID1, edge.UserID2)
		return fmt.Errorf("pending friend request: %w", ErrNotFound)
	}

	s.notifyFriendEvent(ctx, edge.UserID1, edge.UserID2, notification.NotificationFriendAccepted,
		"Friend request accepted", "%s accepted your friend request")

	return nil
}

// Suggestions lists candidate friends: everyone except the caller, their
// accepted friends, and users they already sent a pending request to. Users
// with a pending request *toward* the caller stay listed, matching the
// accept flow.
func (s *FriendService) Suggestions(ctx context.Context, userID uuid.UUID) ([]*user.User, error) {
	query := `
	SELECT u.id, u.clerk_id, u.email, u.nickname, COALESCE(u.profile_image, ''), u.created_at, u.updated_at
	FROM users u
	WHERE u.id != $1
	  AND u.id NOT IN (
		SELECT f.user_id_2 FROM friends f WHERE f.user_id_1 = $1 AND f.status = 'accepted'
		UNION
		SELECT f.user_id_1 FROM friends f WHERE f.user_id_2 = $1 AND f.status = 'accepted'
		UNION
		SELECT f.user_id_2 FROM friends f WHERE f.user_id_1 = $1 AND f.status = 'pending'
	  )
	ORDER BY RANDOM()
	LIMIT 30
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friend suggestions: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

type InviteQrResponse struct {
	ProfileURL   string `json:"profile_url"`
	QrCodeBase64 string `json:"qr_code_base64"`
}

// GenerateInviteQr renders a QR code deep-linking to the user's profile so
// another user can scan it and send a friend request.
func (s *FriendService) GenerateInviteQr(u *user.User) (*InviteQrResponse, error) {
	profileURL := fmt.Sprintf("snapfeed://profile/%s", u.Email)

	pngBytes, err := qrcode.Encode(profileURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR png: %w", err)
	}

	return &InviteQrResponse{
		ProfileURL:   profileURL,
		QrCodeBase64: base64.StdEncoding.EncodeToString(pngBytes),
	}, nil
}

// notifyFriendEvent writes an in-app notification for the affected user.
// Delivery is best-effort: a failure here never rolls back the graph write.
func (s *FriendService) notifyFriendEvent(ctx context.Context, recipientID, actorID uuid.UUID, notifType notification.NotificationType, title, messageFmt string) {
	if s.notifications == nil {
		return
	}

	actorName := "Someone"
	var nickname string
	if err := s.db.QueryRow(ctx, `SELECT nickname FROM users WHERE id = $1`, actorID).Scan(&nickname); err == nil && nickname != "" {
		actorName = nickname
	}

	_, err := s.notifications.CreateNotification(ctx, &notification.CreateNotificationRequest{
		UserID:  recipientID,
		Type:    notifType,
		Title:   title,
		Message: fmt.Sprintf(messageFmt, actorName),
		Data:    map[string]any{"actor_id": actorID.String()},
	})
	if err != nil {
		log.Printf("notifyFriendEvent: failed to notify %s: %v", recipientID, err)
	}
}
