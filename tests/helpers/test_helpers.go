package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB connects to the test database, skipping the test when no
// database URL is configured so the suite stays runnable without one.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set; skipping database test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// CleanupTestDB removes rows created by the test users and closes the pool.
// Friend edges, posts and notifications are removed first so user deletes
// never trip foreign keys.
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	statements := []string{
		`DELETE FROM notifications WHERE user_id IN (SELECT id FROM users WHERE email LIKE 'test%@example.com')`,
		`DELETE FROM friends WHERE user_id_1 IN (SELECT id FROM users WHERE email LIKE 'test%@example.com')
		                        OR user_id_2 IN (SELECT id FROM users WHERE email LIKE 'test%@example.com')`,
		`DELETE FROM posts WHERE user_email LIKE 'test%@example.com'`,
		`DELETE FROM users WHERE email LIKE 'test%@example.com'`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Logf("Warning: failed to cleanup test data: %v", err)
		}
	}
	pool.Close()
}

// CreateTestUser inserts a user row and returns its id.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool, nickname string) (uuid.UUID, string) {
	ctx := context.Background()
	email := fmt.Sprintf("test-%s@example.com", nickname)
	clerkID := fmt.Sprintf("user_test_%s_%d", nickname, time.Now().UnixNano())

	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO users (clerk_id, email, nickname, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`, clerkID, email, nickname).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user %s: %v", nickname, err)
	}

	return id, email
}

// GenerateMockClerkJWT generates a mock JWT token for testing
func GenerateMockClerkJWT(clerkID string) (string, error) {
	secretKey := []byte("test-secret-key-for-testing-only")

	claims := jwt.MapClaims{
		"sub": clerkID,
		"iss": "https://clerk.test",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
		"azp": "test-app-id",
		"sid": "sess_test123",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// MockClerkWebhookPayload creates a mock webhook payload
func MockClerkWebhookPayload(eventType string, clerkID string) []byte {
	payload := ""

	switch eventType {
	case "user.created":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"first_name": "Test",
				"last_name": "User",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "test.user@example.com",
					"verification": {"status": "verified"}
				}],
				"primary_email_address_id": "email_123",
				"username": "testuser",
				"image_url": "https://example.com/image.jpg"
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, eventType)

	case "user.updated":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"first_name": "Updated",
				"last_name": "User",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "test.user@example.com",
					"verification": {"status": "verified"}
				}],
				"primary_email_address_id": "email_123",
				"username": "updateduser",
				"image_url": "https://example.com/new-image.jpg"
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, eventType)

	case "user.deleted":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"deleted": true
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, eventType)
	}

	return []byte(payload)
}
