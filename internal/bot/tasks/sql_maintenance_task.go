package tasks

import (
	"context"
	"fmt"
)

// NewSQLMaintenanceTask reclaims database space with VACUUM during the
// weekly low-traffic window.
func NewSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Database maintenance completed")
		return nil
	}
}
