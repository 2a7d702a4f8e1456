package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akademiksaham/sahambot/internal/database"
	"github.com/akademiksaham/sahambot/internal/market"
)

type handlers struct {
	store  database.Store
	market *market.Service
	logger *slog.Logger
}

// quoteResponse is the JSON shape for a single quote.
type quoteResponse struct {
	Symbol    string    `json:"symbol"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Change    float64   `json:"change"`
	ChangePct float64   `json:"change_pct"`
	Volume    int64     `json:"volume"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (h *handlers) toQuoteResponse(q *database.Quote) quoteResponse {
	return quoteResponse{
		Symbol:    q.Symbol,
		Code:      h.market.DisplayCode(q.Symbol),
		Name:      q.Name,
		Price:     q.Price,
		Change:    q.Change,
		ChangePct: q.ChangePct,
		Volume:    q.Volume,
		FetchedAt: q.FetchedAt,
	}
}

func (h *handlers) health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) quote(c *gin.Context) {
	code := c.Param("code")

	quote, err := h.market.Quote(c.Request.Context(), code)
	switch {
	case errors.Is(err, market.ErrSymbolNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "symbol not found"})
	case err != nil:
		h.logger.Error("Quote lookup failed", "code", code, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "quote lookup failed"})
	default:
		c.JSON(http.StatusOK, h.toQuoteResponse(quote))
	}
}

func (h *handlers) popular(c *gin.Context) {
	ctx := c.Request.Context()

	quotes := make([]quoteResponse, 0)
	for _, stock := range h.market.PopularSymbols() {
		quote, err := h.market.Quote(ctx, stock.Symbol)
		if err != nil {
			h.logger.Warn("Skipping popular symbol in listing", "symbol", stock.Symbol, "error", err)
			continue
		}
		quotes = append(quotes, h.toQuoteResponse(quote))
	}

	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}
