package workers

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StartNotificationCleanupWorker periodically deletes read notifications
// older than 30 days so the table doesn't grow without bound.
func StartNotificationCleanupWorker(db *pgxpool.Pool) {
	ticker := time.NewTicker(1 * time.Hour)

	go func() {
		for range ticker.C {
			cleanupOldNotifications(db)
		}
	}()
}

func cleanupOldNotifications(db *pgxpool.Pool) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	result, err := db.Exec(ctx,
		`DELETE FROM notifications WHERE is_read AND created_at < NOW() - INTERVAL '30 days'`,
	)
	if err != nil {
		log.Printf("Notification cleanup failed: %v", err)
		return
	}

	if n := result.RowsAffected(); n > 0 {
		log.Printf("Notification cleanup removed %d rows", n)
	}
}
