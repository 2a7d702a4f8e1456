package market

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/akademiksaham/sahambot/internal/config"
	"github.com/akademiksaham/sahambot/internal/database"
)

func testMarketConfig() config.MarketConfig {
	return config.MarketConfig{
		BaseURL:        "https://query1.finance.yahoo.com",
		Timeout:        5 * time.Second,
		CacheTTL:       5 * time.Minute,
		ExchangeSuffix: ".JK",
		IndexSymbol:    "^JKSE",
		IndexName:      "Indeks Harga Saham Gabungan",
		PopularSymbols: map[string]string{
			"BBCA.JK": "Bank Central Asia",
			"GOTO.JK": "GoTo Gojek Tokopedia",
		},
	}
}

// fakeFetcher returns canned quotes or errors per symbol.
type fakeFetcher struct {
	quotes map[string]*database.Quote
	errs   map[string]error
	calls  int
}

func (f *fakeFetcher) FetchQuote(_ context.Context, symbol string) (*database.Quote, error) {
	f.calls++
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	if q, ok := f.quotes[symbol]; ok {
		copied := *q
		return &copied, nil
	}
	return nil, ErrSymbolNotFound
}

// fakeStore is an in-memory quote cache. The message and watchlist methods
// are unused by the market service.
type fakeStore struct {
	quotes    map[string]*database.Quote
	getErr    error
	saveErr   error
	saveCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{quotes: make(map[string]*database.Quote)}
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func (s *fakeStore) SaveMessage(context.Context, *database.Message) error { return nil }
func (s *fakeStore) GetRecentMessages(context.Context, int64, int) ([]*database.Message, error) {
	return nil, nil
}
func (s *fakeStore) DeleteMessagesBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func (s *fakeStore) GetQuote(_ context.Context, symbol string) (*database.Quote, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	q, ok := s.quotes[symbol]
	if !ok {
		return nil, nil
	}
	copied := *q
	return &copied, nil
}

func (s *fakeStore) SaveQuote(_ context.Context, quote *database.Quote) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	copied := *quote
	s.quotes[quote.Symbol] = &copied
	return nil
}

func (s *fakeStore) AddToWatchlist(context.Context, int64, string) (bool, error) { return false, nil }
func (s *fakeStore) RemoveFromWatchlist(context.Context, int64, string) (bool, error) {
	return false, nil
}
func (s *fakeStore) GetWatchlist(context.Context, int64) ([]database.WatchlistEntry, error) {
	return nil, nil
}
func (s *fakeStore) RunSQLMaintenance(context.Context) error { return nil }

func newTestService(f *fakeFetcher, store database.Store) *Service {
	svc := NewService(testMarketConfig(), store, slog.Default())
	svc.fetcher = f
	return svc
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeFetcher{}, newFakeStore())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare code gets suffix", input: "bbca", want: "BBCA.JK"},
		{name: "uppercase preserved", input: "GOTO", want: "GOTO.JK"},
		{name: "already suffixed", input: "TLKM.JK", want: "TLKM.JK"},
		{name: "foreign exchange suffix kept", input: "aapl.us", want: "AAPL.US"},
		{name: "index symbol untouched", input: "^jkse", want: "^JKSE"},
		{name: "surrounding whitespace trimmed", input: "  bbri ", want: "BBRI.JK"},
		{name: "empty input", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := svc.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDisplayCode(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeFetcher{}, newFakeStore())

	if got := svc.DisplayCode("BBCA.JK"); got != "BBCA" {
		t.Errorf("DisplayCode(BBCA.JK) = %q, want BBCA", got)
	}
	if got := svc.DisplayCode("^JKSE"); got != "^JKSE" {
		t.Errorf("DisplayCode(^JKSE) = %q, want ^JKSE", got)
	}
}

func TestQuote_FetchesAndCaches(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetcher := &fakeFetcher{quotes: map[string]*database.Quote{
		"BBCA.JK": {Symbol: "BBCA.JK", Price: 9750, Change: 50, ChangePct: 0.52, Volume: 12_000_000},
	}}
	svc := newTestService(fetcher, store)

	quote, err := svc.Quote(context.Background(), "bbca")
	if err != nil {
		t.Fatalf("Quote() returned unexpected error: %v", err)
	}

	if quote.Name != "Bank Central Asia" {
		t.Errorf("quote.Name = %q, want popular display name", quote.Name)
	}
	if quote.FetchedAt.IsZero() {
		t.Error("quote.FetchedAt should be set after fetch")
	}
	if store.saveCalls != 1 {
		t.Errorf("store.saveCalls = %d, want 1", store.saveCalls)
	}
}

func TestQuote_ServesFreshCacheWithoutFetching(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.quotes["BBCA.JK"] = &database.Quote{
		Symbol:    "BBCA.JK",
		Name:      "Bank Central Asia",
		Price:     9700,
		FetchedAt: time.Now().UTC(),
	}
	fetcher := &fakeFetcher{}
	svc := newTestService(fetcher, store)

	quote, err := svc.Quote(context.Background(), "BBCA")
	if err != nil {
		t.Fatalf("Quote() returned unexpected error: %v", err)
	}

	if quote.Price != 9700 {
		t.Errorf("quote.Price = %v, want cached 9700", quote.Price)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher.calls = %d, want 0 for fresh cache", fetcher.calls)
	}
}

func TestQuote_RefetchesExpiredCache(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.quotes["BBCA.JK"] = &database.Quote{
		Symbol:    "BBCA.JK",
		Price:     9600,
		FetchedAt: time.Now().UTC().Add(-time.Hour),
	}
	fetcher := &fakeFetcher{quotes: map[string]*database.Quote{
		"BBCA.JK": {Symbol: "BBCA.JK", Price: 9800},
	}}
	svc := newTestService(fetcher, store)

	quote, err := svc.Quote(context.Background(), "BBCA")
	if err != nil {
		t.Fatalf("Quote() returned unexpected error: %v", err)
	}

	if quote.Price != 9800 {
		t.Errorf("quote.Price = %v, want refreshed 9800", quote.Price)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher.calls = %d, want 1", fetcher.calls)
	}
}

func TestQuote_ServesStaleCacheOnProviderFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.quotes["BBCA.JK"] = &database.Quote{
		Symbol:    "BBCA.JK",
		Price:     9600,
		FetchedAt: time.Now().UTC().Add(-time.Hour),
	}
	fetcher := &fakeFetcher{errs: map[string]error{
		"BBCA.JK": errors.New("upstream timeout"),
	}}
	svc := newTestService(fetcher, store)

	quote, err := svc.Quote(context.Background(), "BBCA")
	if err != nil {
		t.Fatalf("Quote() should fall back to stale cache, got error: %v", err)
	}
	if quote.Price != 9600 {
		t.Errorf("quote.Price = %v, want stale 9600", quote.Price)
	}
}

func TestQuote_NotFoundIsNotMasked(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeFetcher{}, newFakeStore())

	_, err := svc.Quote(context.Background(), "XXXX")
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("Quote() error = %v, want ErrSymbolNotFound", err)
	}
}

func TestIndex_UsesConfiguredSymbolAndName(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{quotes: map[string]*database.Quote{
		"^JKSE": {Symbol: "^JKSE", Price: 7150.25},
	}}
	svc := newTestService(fetcher, newFakeStore())

	quote, err := svc.Index(context.Background())
	if err != nil {
		t.Fatalf("Index() returned unexpected error: %v", err)
	}
	if quote.Name != "Indeks Harga Saham Gabungan" {
		t.Errorf("quote.Name = %q, want configured index name", quote.Name)
	}
}

func TestRefreshPopular(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetcher := &fakeFetcher{
		quotes: map[string]*database.Quote{
			"BBCA.JK": {Symbol: "BBCA.JK", Price: 9750},
		},
		errs: map[string]error{
			"GOTO.JK": errors.New("upstream timeout"),
		},
	}
	svc := newTestService(fetcher, store)

	refreshed, err := svc.RefreshPopular(context.Background())
	if err == nil {
		t.Error("RefreshPopular() should report the last fetch error")
	}
	if refreshed != 1 {
		t.Errorf("refreshed = %d, want 1", refreshed)
	}
	if got := store.quotes["BBCA.JK"]; got == nil || got.Name != "Bank Central Asia" {
		t.Errorf("cached BBCA.JK = %+v, want entry with popular display name", got)
	}
}
