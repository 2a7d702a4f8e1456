package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akademiksaham/sahambot/internal/config"
	"github.com/akademiksaham/sahambot/internal/database"
	"github.com/akademiksaham/sahambot/internal/market"
)

// cacheStore serves quotes from a fixed map so the market service never
// reaches the upstream provider.
type cacheStore struct {
	quotes  map[string]*database.Quote
	pingErr error
}

func (s *cacheStore) Ping(context.Context) error { return s.pingErr }

func (s *cacheStore) SaveMessage(context.Context, *database.Message) error { return nil }
func (s *cacheStore) GetRecentMessages(context.Context, int64, int) ([]*database.Message, error) {
	return nil, nil
}
func (s *cacheStore) DeleteMessagesBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func (s *cacheStore) GetQuote(_ context.Context, symbol string) (*database.Quote, error) {
	q, ok := s.quotes[symbol]
	if !ok {
		return nil, nil
	}
	return q, nil
}

func (s *cacheStore) SaveQuote(context.Context, *database.Quote) error { return nil }
func (s *cacheStore) AddToWatchlist(context.Context, int64, string) (bool, error) {
	return false, nil
}
func (s *cacheStore) RemoveFromWatchlist(context.Context, int64, string) (bool, error) {
	return false, nil
}
func (s *cacheStore) GetWatchlist(context.Context, int64) ([]database.WatchlistEntry, error) {
	return nil, nil
}
func (s *cacheStore) RunSQLMaintenance(context.Context) error { return nil }

func newTestRouter(store *cacheStore, notFoundBackend bool) *gin.Engine {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if notFoundBackend {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))

	cfg := config.MarketConfig{
		BaseURL:        backend.URL,
		Timeout:        2 * time.Second,
		CacheTTL:       5 * time.Minute,
		ExchangeSuffix: ".JK",
		IndexSymbol:    "^JKSE",
		PopularSymbols: map[string]string{"BBCA.JK": "Bank Central Asia"},
	}
	mkt := market.NewService(cfg, store, slog.Default())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := &handlers{store: store, market: mkt, logger: slog.Default()}
	router.GET("/healthz", h.health)
	router.GET("/api/v1/quotes/:code", h.quote)
	router.GET("/api/v1/popular", h.popular)
	return router
}

func freshQuote(symbol, name string, price float64) *database.Quote {
	return &database.Quote{
		Symbol:    symbol,
		Name:      name,
		Price:     price,
		FetchedAt: time.Now().UTC(),
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&cacheStore{quotes: map[string]*database.Quote{}}, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthz_Unhealthy(t *testing.T) {
	t.Parallel()

	store := &cacheStore{quotes: map[string]*database.Quote{}, pingErr: errors.New("database closed")}
	router := newTestRouter(store, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /healthz status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestQuoteEndpoint(t *testing.T) {
	t.Parallel()

	store := &cacheStore{quotes: map[string]*database.Quote{
		"BBCA.JK": freshQuote("BBCA.JK", "Bank Central Asia", 9750),
	}}
	router := newTestRouter(store, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/BBCA", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/quotes/BBCA status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Code != "BBCA" {
		t.Errorf("code = %q, want BBCA", got.Code)
	}
	if got.Price != 9750 {
		t.Errorf("price = %v, want 9750", got.Price)
	}
}

func TestQuoteEndpoint_NotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&cacheStore{quotes: map[string]*database.Quote{}}, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/XXXX", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /api/v1/quotes/XXXX status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestPopularEndpoint(t *testing.T) {
	t.Parallel()

	store := &cacheStore{quotes: map[string]*database.Quote{
		"BBCA.JK": freshQuote("BBCA.JK", "Bank Central Asia", 9750),
	}}
	router := newTestRouter(store, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/popular", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/popular status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got struct {
		Quotes []quoteResponse `json:"quotes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got.Quotes) != 1 {
		t.Fatalf("len(quotes) = %d, want 1", len(got.Quotes))
	}
	if got.Quotes[0].Name != "Bank Central Asia" {
		t.Errorf("name = %q, want Bank Central Asia", got.Quotes[0].Name)
	}
}
