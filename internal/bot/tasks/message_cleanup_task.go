package tasks

import (
	"context"
	"fmt"
	"time"
)

// NewMessageCleanupTask deletes conversation messages older than the
// configured retention window.
func NewMessageCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "message_cleanup")

	return func(ctx context.Context) error {
		retention := time.Duration(deps.Config.Database.MessageRetention) * 24 * time.Hour
		cutoff := time.Now().UTC().Add(-retention)

		deleted, err := deps.Store.DeleteMessagesBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("message cleanup failed: %w", err)
		}

		log.InfoContext(ctx, "Cleaned up old messages", "deleted", deleted, "cutoff", cutoff)
		return nil
	}
}
