package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations. Methods accept
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveMessage inserts a new conversation message record.
	SaveMessage(ctx context.Context, message *Message) error

	// GetRecentMessages retrieves the most recent 'limit' messages for a
	// chat, ordered oldest first.
	GetRecentMessages(ctx context.Context, chatID int64, limit int) ([]*Message, error)

	// DeleteMessagesBefore removes messages older than the cutoff and
	// returns the number of rows deleted.
	DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// GetQuote retrieves the cached quote for a symbol. Returns nil, nil
	// when no cache entry exists.
	GetQuote(ctx context.Context, symbol string) (*Quote, error)

	// SaveQuote inserts or replaces the cached quote for a symbol.
	SaveQuote(ctx context.Context, quote *Quote) error

	// AddToWatchlist adds a symbol to a user's watchlist. Returns false
	// when the symbol was already present.
	AddToWatchlist(ctx context.Context, userID int64, symbol string) (bool, error)

	// RemoveFromWatchlist removes a symbol from a user's watchlist.
	// Returns false when the symbol was not present.
	RemoveFromWatchlist(ctx context.Context, userID int64, symbol string) (bool, error)

	// GetWatchlist retrieves a user's watchlist ordered by insertion time.
	GetWatchlist(ctx context.Context, userID int64) ([]WatchlistEntry, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.ChatID == 0 {
		return fmt.Errorf("message must have a non-zero chat_id")
	}
	if message.UserID == 0 {
		return fmt.Errorf("message must have a non-zero user_id")
	}
	if message.Content == "" {
		return fmt.Errorf("message must have non-empty content")
	}
	if message.Timestamp.IsZero() {
		return fmt.Errorf("message must have a non-zero timestamp")
	}

	now := time.Now().UTC()
	message.CreatedAt = now
	message.UpdatedAt = now

	query := `
        INSERT INTO messages (chat_id, user_id, content, timestamp, created_at, updated_at)
        VALUES (:chat_id, :user_id, :content, :timestamp, :created_at, :updated_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "chat_id", message.ChatID, "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to save message (chat %d, user %d): %w", message.ChatID, message.UserID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		message.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
			"chat_id", message.ChatID, "user_id", message.UserID, "error", err)
	}

	s.logger.DebugContext(ctx, "Message saved", "chat_id", message.ChatID, "user_id", message.UserID, "message_id", message.ID)
	return nil
}

func (s *sqlxStore) GetRecentMessages(ctx context.Context, chatID int64, limit int) ([]*Message, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}
	if limit <= 0 {
		limit = 20
		s.logger.DebugContext(ctx, "No limit provided, using default", "chat_id", chatID, "default_limit", limit)
	} else if limit > 200 {
		limit = 200
		s.logger.DebugContext(ctx, "Limit exceeded maximum value, capping", "chat_id", chatID, "capped_limit", limit)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var messages []*Message
	query := `
        SELECT id, chat_id, user_id, content, timestamp, created_at, updated_at
        FROM messages
        WHERE chat_id = ?
        ORDER BY timestamp DESC, id DESC
        LIMIT ?;
    `

	err := s.db.SelectContext(ctx, &messages, query, chatID, limit)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching messages", "chat_id", chatID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent messages", "chat_id", chatID, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent messages for chat %d: %w", chatID, err)
	}

	// Reverse to chronological order for conversation context.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	s.logger.DebugContext(ctx, "Fetched recent messages", "chat_id", chatID, "count", len(messages))
	return messages, nil
}

func (s *sqlxStore) DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if cutoff.IsZero() {
		return 0, fmt.Errorf("cutoff time cannot be zero")
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE timestamp < ?`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting old messages", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete messages before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted old messages", "cutoff", cutoff.Format(time.RFC3339), "count", count)
	return count, nil
}

func (s *sqlxStore) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var quote Quote
	query := `SELECT id, symbol, name, price, change, change_pct, volume, fetched_at
	          FROM quotes WHERE symbol = ?`

	err := s.db.GetContext(ctx, &quote, query, symbol)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No cached quote found", "symbol", symbol)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching quote", "symbol", symbol, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting cached quote", "symbol", symbol, "error", err)
		return nil, fmt.Errorf("failed to get cached quote for %s: %w", symbol, err)
	}

	return &quote, nil
}

func (s *sqlxStore) SaveQuote(ctx context.Context, quote *Quote) error {
	if quote == nil {
		return fmt.Errorf("cannot save nil quote")
	}
	if quote.Symbol == "" {
		return fmt.Errorf("quote must have a non-empty symbol")
	}
	if quote.FetchedAt.IsZero() {
		quote.FetchedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO quotes (symbol, name, price, change, change_pct, volume, fetched_at)
        VALUES (:symbol, :name, :price, :change, :change_pct, :volume, :fetched_at)
        ON CONFLICT (symbol) DO UPDATE SET
            name = excluded.name,
            price = excluded.price,
            change = excluded.change,
            change_pct = excluded.change_pct,
            volume = excluded.volume,
            fetched_at = excluded.fetched_at;
    `

	if _, err := s.db.NamedExecContext(ctx, query, quote); err != nil {
		s.logger.ErrorContext(ctx, "Error saving quote", "symbol", quote.Symbol, "error", err)
		return fmt.Errorf("failed to save quote for %s: %w", quote.Symbol, err)
	}

	s.logger.DebugContext(ctx, "Quote cached", "symbol", quote.Symbol, "price", quote.Price)
	return nil
}

func (s *sqlxStore) AddToWatchlist(ctx context.Context, userID int64, symbol string) (bool, error) {
	if userID == 0 {
		return false, fmt.Errorf("user_id cannot be zero")
	}
	if symbol == "" {
		return false, fmt.Errorf("symbol cannot be empty")
	}

	query := `
        INSERT INTO watchlist (user_id, symbol, created_at)
        VALUES (?, ?, ?)
        ON CONFLICT (user_id, symbol) DO NOTHING;
    `

	result, err := s.db.ExecContext(ctx, query, userID, symbol, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error adding watchlist entry", "user_id", userID, "symbol", symbol, "error", err)
		return false, fmt.Errorf("failed to add %s to watchlist for user %d: %w", symbol, userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count for watchlist insert",
			"user_id", userID, "symbol", symbol, "error", err)
		return true, nil
	}

	s.logger.DebugContext(ctx, "Watchlist entry added", "user_id", userID, "symbol", symbol, "inserted", affected == 1)
	return affected == 1, nil
}

func (s *sqlxStore) RemoveFromWatchlist(ctx context.Context, userID int64, symbol string) (bool, error) {
	if userID == 0 {
		return false, fmt.Errorf("user_id cannot be zero")
	}
	if symbol == "" {
		return false, fmt.Errorf("symbol cannot be empty")
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlist WHERE user_id = ? AND symbol = ?`, userID, symbol)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error removing watchlist entry", "user_id", userID, "symbol", symbol, "error", err)
		return false, fmt.Errorf("failed to remove %s from watchlist for user %d: %w", symbol, userID, err)
	}

	affected, _ := result.RowsAffected()
	s.logger.DebugContext(ctx, "Watchlist entry removed", "user_id", userID, "symbol", symbol, "removed", affected == 1)
	return affected == 1, nil
}

func (s *sqlxStore) GetWatchlist(ctx context.Context, userID int64) ([]WatchlistEntry, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var entries []WatchlistEntry
	query := `SELECT id, user_id, symbol, created_at
	          FROM watchlist WHERE user_id = ? ORDER BY created_at ASC, id ASC`

	err := s.db.SelectContext(ctx, &entries, query, userID)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching watchlist", "user_id", userID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting watchlist", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get watchlist for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Fetched watchlist", "user_id", userID, "count", len(entries))
	return entries, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
// VACUUM must run outside a transaction in SQLite.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
