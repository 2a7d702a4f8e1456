package tasks

// RegisterAllTasks initializes and returns all scheduled tasks keyed by the
// names used in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	return map[string]ScheduledTaskFunc{
		"quote_refresh":   NewQuoteRefreshTask(deps),
		"message_cleanup": NewMessageCleanupTask(deps),
		"sql_maintenance": NewSQLMaintenanceTask(deps),
	}
}
