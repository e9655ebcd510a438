package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"snapFeedAPI/internal/types/notification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PushProvider delivers a notification to a user's registered devices.
// FCM in production; tests inject stubs.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type NotificationService struct {
	db   *pgxpool.Pool
	push PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

func (s *NotificationService) getUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("user not found for clerk_id %s: %w", clerkID, err)
	}
	return userID, nil
}

// CreateNotification inserts the in-app row, then pushes to the user's
// devices in the background. Push is best-effort and never fails the create.
func (s *NotificationService) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	dataJSON, _ := json.Marshal(req.Data)

	query := `
	INSERT INTO notifications (id, user_id, type, title, message, is_read, data, created_at)
	VALUES ($1, $2, $3, $4, $5, FALSE, $6, NOW())
	RETURNING id, user_id, type, title, message, is_read, created_at
	`

	notif := &notification.Notification{Data: req.Data}
	err := s.db.QueryRow(ctx, query,
		uuid.New(), req.UserID, req.Type, req.Title, req.Message, dataJSON,
	).Scan(
		&notif.ID, &notif.UserID, &notif.Type, &notif.Title, &notif.Message,
		&notif.IsRead, &notif.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.push != nil {
		go func() {
			tokens, err := s.getDeviceTokens(context.Background(), req.UserID)
			if err != nil {
				log.Printf("CreateNotification: failed to load device tokens for %s: %v", req.UserID, err)
				return
			}
			if err := s.push.SendPush(context.Background(), tokens, req.Title, req.Message, req.Data); err != nil {
				log.Printf("CreateNotification: push failed for %s: %v", req.UserID, err)
			}
		}()
	}

	return notif, nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, clerkID string, page, pageSize int) (*notification.NotificationListResponse, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := `
	SELECT id, user_id, type, title, message, is_read, COALESCE(data::text, '{}'), created_at
	FROM notifications
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
	`

	rows, err := s.db.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	notifs := []*notification.Notification{}
	for rows.Next() {
		n := &notification.Notification{}
		var dataStr string
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &dataStr, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		json.Unmarshal([]byte(dataStr), &n.Data)
		notifs = append(notifs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	var total, unread int
	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT is_read) FROM notifications WHERE user_id = $1`,
		userID,
	).Scan(&total, &unread)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	return &notification.NotificationListResponse{
		Notifications: notifs,
		UnreadCount:   unread,
		TotalCount:    total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, clerkID string) (int, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID, clerkID string) error {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification: %w", ErrNotFound)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, clerkID string) error {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

func (s *NotificationService) RegisterDevice(ctx context.Context, clerkID string, req notification.RegisterDeviceRequest) error {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO device_tokens (user_id, token, platform, created_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (token) DO UPDATE SET user_id = $1, platform = $3
	`
	if _, err := s.db.Exec(ctx, query, userID, req.Token, req.Platform); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (s *NotificationService) getDeviceTokens(ctx context.Context, userID uuid.UUID) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx,
		`SELECT token, platform FROM device_tokens WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
