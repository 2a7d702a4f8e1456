package database

import (
	"time"
)

// Message represents one side of an AI conversation in a chat. Both user
// questions and bot answers are stored so the assistant can be given
// recent conversation context.
type Message struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	ChatID    int64     `db:"chat_id"`
	UserID    int64     `db:"user_id"`
	Content   string    `db:"content"`
	Timestamp time.Time `db:"timestamp"`
}

// Quote is a cached market quote for a single symbol. FetchedAt records
// when the data was retrieved from the upstream provider; readers decide
// freshness against their own TTL.
type Quote struct {
	ID        uint      `db:"id"`
	Symbol    string    `db:"symbol"`
	Name      string    `db:"name"`
	Price     float64   `db:"price"`
	Change    float64   `db:"change"`
	ChangePct float64   `db:"change_pct"`
	Volume    int64     `db:"volume"`
	FetchedAt time.Time `db:"fetched_at"`
}

// WatchlistEntry links a Telegram user to a symbol they follow.
type WatchlistEntry struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	Symbol    string    `db:"symbol"`
	CreatedAt time.Time `db:"created_at"`
}
