package tasks

import (
	"context"
	"fmt"
)

// NewQuoteRefreshTask re-fetches all popular stock quotes into the cache so
// menu views stay warm during trading hours.
func NewQuoteRefreshTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "quote_refresh")

	return func(ctx context.Context) error {
		refreshed, err := deps.Market.RefreshPopular(ctx)
		if err != nil {
			log.WarnContext(ctx, "Quote refresh finished with errors", "refreshed", refreshed, "error", err)
			return fmt.Errorf("quote refresh incomplete (%d refreshed): %w", refreshed, err)
		}

		log.InfoContext(ctx, "Refreshed popular quotes", "count", refreshed)
		return nil
	}
}
