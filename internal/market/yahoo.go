package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/akademiksaham/sahambot/internal/config"
	"github.com/akademiksaham/sahambot/internal/database"
)

const userAgent = "sahambot/1.0 (github.com/akademiksaham/sahambot)"

// yahooClient fetches quotes from the Yahoo Finance v8 chart API.
type yahooClient struct {
	client     *http.Client
	baseURL    string
	maxRetries int
	logger     *slog.Logger
}

func newYahooClient(cfg config.MarketConfig, logger *slog.Logger) *yahooClient {
	return &yahooClient{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		logger:     logger.With("component", "yahoo_client"),
	}
}

// chartResponse mirrors the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol string `json:"symbol"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchQuote retrieves daily candles for the symbol and derives the latest
// price, previous close delta, and volume from them, matching how the bot
// has always computed quotes (last close vs the close before it).
func (c *yahooClient) FetchQuote(ctx context.Context, symbol string) (*database.Quote, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=5d&interval=1d", c.baseURL, url.PathEscape(symbol))

	body, err := c.getWithRetries(ctx, endpoint, symbol)
	if err != nil {
		return nil, err
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse chart response for %s: %w", symbol, err)
	}

	if parsed.Chart.Error != nil {
		c.logger.DebugContext(ctx, "Chart API returned error", "symbol", symbol,
			"code", parsed.Chart.Error.Code, "description", parsed.Chart.Error.Description)
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}

	candles := parsed.Chart.Result[0].Indicators.Quote[0]
	closes := nonNullFloats(candles.Close)
	if len(closes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}

	current := closes[len(closes)-1]
	prev := current
	if len(closes) > 1 {
		prev = closes[len(closes)-2]
	}

	change := current - prev
	changePct := 0.0
	if prev != 0 {
		changePct = change / prev * 100
	}

	var volume int64
	for i := len(candles.Volume) - 1; i >= 0; i-- {
		if candles.Volume[i] != nil {
			volume = *candles.Volume[i]
			break
		}
	}

	return &database.Quote{
		Symbol:    symbol,
		Price:     current,
		Change:    change,
		ChangePct: changePct,
		Volume:    volume,
	}, nil
}

// getWithRetries performs the HTTP GET with bounded retries on transport
// errors and 5xx responses. A 404 maps to ErrSymbolNotFound immediately.
func (c *yahooClient) getWithRetries(ctx context.Context, endpoint, symbol string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
			c.logger.DebugContext(ctx, "Retrying chart request", "symbol", symbol, "attempt", attempt+1)
		}

		body, retriable, err := c.getOnce(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retriable {
			return nil, err
		}
		c.logger.WarnContext(ctx, "Chart request failed", "symbol", symbol, "attempt", attempt+1, "error", err)
	}

	return nil, fmt.Errorf("chart request failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *yahooClient) getOnce(ctx context.Context, endpoint string) (body []byte, retriable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w (HTTP 404)", ErrSymbolNotFound)
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, true, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	const maxResponseSize = 2 * 1024 * 1024
	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read chart response: %w", err)
	}
	return body, false, nil
}

func nonNullFloats(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
