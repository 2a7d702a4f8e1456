package tasks_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/akademiksaham/sahambot/internal/bot/tasks"
	"github.com/akademiksaham/sahambot/internal/config"
	"github.com/akademiksaham/sahambot/internal/database"
)

// recordingStore captures the arguments scheduled tasks pass to the store.
type recordingStore struct {
	deleteCutoff   time.Time
	deleteErr      error
	deleted        int64
	maintenanceErr error
	maintenanceRan bool
}

func (s *recordingStore) Ping(context.Context) error { return nil }

func (s *recordingStore) SaveMessage(context.Context, *database.Message) error { return nil }
func (s *recordingStore) GetRecentMessages(context.Context, int64, int) ([]*database.Message, error) {
	return nil, nil
}

func (s *recordingStore) DeleteMessagesBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.deleteCutoff = cutoff
	return s.deleted, s.deleteErr
}

func (s *recordingStore) GetQuote(context.Context, string) (*database.Quote, error) {
	return nil, nil
}
func (s *recordingStore) SaveQuote(context.Context, *database.Quote) error { return nil }
func (s *recordingStore) AddToWatchlist(context.Context, int64, string) (bool, error) {
	return false, nil
}
func (s *recordingStore) RemoveFromWatchlist(context.Context, int64, string) (bool, error) {
	return false, nil
}
func (s *recordingStore) GetWatchlist(context.Context, int64) ([]database.WatchlistEntry, error) {
	return nil, nil
}

func (s *recordingStore) RunSQLMaintenance(context.Context) error {
	s.maintenanceRan = true
	return s.maintenanceErr
}

func newTaskDeps(store *recordingStore) tasks.TaskDeps {
	return tasks.TaskDeps{
		Logger: slog.Default(),
		Config: &config.Config{
			Database: config.DatabaseConfig{MessageRetention: 30},
		},
		Store: store,
	}
}

func TestMessageCleanupTask_UsesRetentionWindow(t *testing.T) {
	t.Parallel()

	store := &recordingStore{deleted: 42}
	task := tasks.NewMessageCleanupTask(newTaskDeps(store))

	before := time.Now().UTC()
	if err := task(context.Background()); err != nil {
		t.Fatalf("task returned unexpected error: %v", err)
	}

	wantCutoff := before.Add(-30 * 24 * time.Hour)
	diff := store.deleteCutoff.Sub(wantCutoff)
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Minute {
		t.Errorf("cutoff = %v, want about %v", store.deleteCutoff, wantCutoff)
	}
}

func TestMessageCleanupTask_PropagatesError(t *testing.T) {
	t.Parallel()

	store := &recordingStore{deleteErr: errors.New("disk full")}
	task := tasks.NewMessageCleanupTask(newTaskDeps(store))

	if err := task(context.Background()); err == nil {
		t.Error("task should propagate store errors")
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	task := tasks.NewSQLMaintenanceTask(newTaskDeps(store))

	if err := task(context.Background()); err != nil {
		t.Fatalf("task returned unexpected error: %v", err)
	}
	if !store.maintenanceRan {
		t.Error("task should invoke store maintenance")
	}

	failing := &recordingStore{maintenanceErr: errors.New("locked")}
	if err := tasks.NewSQLMaintenanceTask(newTaskDeps(failing))(context.Background()); err == nil {
		t.Error("task should propagate maintenance errors")
	}
}

func TestRegisterAllTasks_CoversConfiguredNames(t *testing.T) {
	t.Parallel()

	registered := tasks.RegisterAllTasks(newTaskDeps(&recordingStore{}))

	for _, name := range []string{"quote_refresh", "message_cleanup", "sql_maintenance"} {
		if _, ok := registered[name]; !ok {
			t.Errorf("task %q not registered", name)
		}
	}
}
