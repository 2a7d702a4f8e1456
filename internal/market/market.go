// Package market provides Indonesian stock market data backed by the
// Yahoo Finance chart API, with a persistent read-through quote cache.
package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/akademiksaham/sahambot/internal/config"
	"github.com/akademiksaham/sahambot/internal/database"
)

// ErrSymbolNotFound indicates the upstream provider has no data for the
// requested symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// PopularStock pairs a ticker symbol with its display name.
type PopularStock struct {
	Symbol string
	Name   string
}

// Service fetches market quotes and manages the quote cache.
type Service struct {
	fetcher fetcher
	store   database.Store
	cfg     config.MarketConfig
	logger  *slog.Logger
	popular []PopularStock
}

// fetcher abstracts the upstream quote provider for testing.
type fetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*database.Quote, error)
}

// NewService creates a market data service using the provided store as the
// quote cache.
func NewService(cfg config.MarketConfig, store database.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	popular := make([]PopularStock, 0, len(cfg.PopularSymbols))
	for symbol, name := range cfg.PopularSymbols {
		popular = append(popular, PopularStock{Symbol: symbol, Name: name})
	}
	sort.Slice(popular, func(i, j int) bool { return popular[i].Symbol < popular[j].Symbol })

	return &Service{
		fetcher: newYahooClient(cfg, logger),
		store:   store,
		cfg:     cfg,
		logger:  logger.With("component", "market"),
		popular: popular,
	}
}

// Normalize converts user input into a full provider symbol: uppercased,
// with the configured exchange suffix appended when missing. Index symbols
// (prefixed with ^) are left untouched apart from case.
func (s *Service) Normalize(input string) string {
	symbol := strings.ToUpper(strings.TrimSpace(input))
	if symbol == "" {
		return symbol
	}
	if strings.HasPrefix(symbol, "^") || strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + s.cfg.ExchangeSuffix
}

// DisplayCode strips the exchange suffix for user-facing output.
func (s *Service) DisplayCode(symbol string) string {
	return strings.TrimSuffix(symbol, s.cfg.ExchangeSuffix)
}

// PopularSymbols returns the configured popular stocks in stable order.
func (s *Service) PopularSymbols() []PopularStock {
	return s.popular
}

// IndexName returns the display name of the configured composite index.
func (s *Service) IndexName() string {
	if s.cfg.IndexName != "" {
		return s.cfg.IndexName
	}
	return s.cfg.IndexSymbol
}

// Quote returns market data for a symbol. A cache entry younger than the
// configured TTL is served directly; otherwise the provider is queried and
// the cache refreshed. On provider failure a stale cache entry is served
// as a fallback when available.
func (s *Service) Quote(ctx context.Context, code string) (*database.Quote, error) {
	symbol := s.Normalize(code)
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}

	cached, err := s.store.GetQuote(ctx, symbol)
	if err != nil {
		s.logger.WarnContext(ctx, "Quote cache lookup failed, fetching from provider", "symbol", symbol, "error", err)
		cached = nil
	}
	if cached != nil && time.Since(cached.FetchedAt) < s.cfg.CacheTTL {
		s.logger.DebugContext(ctx, "Serving quote from cache", "symbol", symbol, "age", time.Since(cached.FetchedAt))
		return cached, nil
	}

	quote, err := s.fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, err
		}
		if cached != nil {
			s.logger.WarnContext(ctx, "Provider fetch failed, serving stale cached quote",
				"symbol", symbol, "age", time.Since(cached.FetchedAt), "error", err)
			return cached, nil
		}
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}

	quote.Name = s.displayName(symbol)
	quote.FetchedAt = time.Now().UTC()

	if saveErr := s.store.SaveQuote(ctx, quote); saveErr != nil {
		s.logger.WarnContext(ctx, "Failed to cache quote", "symbol", symbol, "error", saveErr)
	}

	return quote, nil
}

// Index returns the quote for the configured composite index.
func (s *Service) Index(ctx context.Context) (*database.Quote, error) {
	return s.Quote(ctx, s.cfg.IndexSymbol)
}

// RefreshPopular re-fetches all popular symbols into the cache, returning
// the number of symbols refreshed and the last error encountered.
func (s *Service) RefreshPopular(ctx context.Context) (int, error) {
	var lastErr error
	refreshed := 0

	for _, stock := range s.popular {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}

		quote, err := s.fetcher.FetchQuote(ctx, stock.Symbol)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to refresh popular quote", "symbol", stock.Symbol, "error", err)
			lastErr = err
			continue
		}

		quote.Name = stock.Name
		quote.FetchedAt = time.Now().UTC()
		if err := s.store.SaveQuote(ctx, quote); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache refreshed quote", "symbol", stock.Symbol, "error", err)
			lastErr = err
			continue
		}
		refreshed++
	}

	return refreshed, lastErr
}

func (s *Service) displayName(symbol string) string {
	if symbol == s.cfg.IndexSymbol {
		return s.IndexName()
	}
	if name, ok := s.cfg.PopularSymbols[symbol]; ok {
		return name
	}
	return s.DisplayCode(symbol)
}
