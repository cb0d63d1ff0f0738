package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/splitmate/splitmate/internal/models"
)

type rateRequest struct {
	FromCurrency  string `json:"fromCurrency" binding:"required,len=3,uppercase"`
	ToCurrency    string `json:"toCurrency" binding:"required,len=3,uppercase"`
	Rate          string `json:"rate" binding:"required"`
	EffectiveDate int64  `json:"effectiveDate" binding:"required"`
}

type rateResponse struct {
	ID            string `json:"id"`
	FromCurrency  string `json:"fromCurrency"`
	ToCurrency    string `json:"toCurrency"`
	Rate          string `json:"rate"`
	EffectiveDate int64  `json:"effectiveDate"`
	CreatedAt     int64  `json:"createdAt"`
}

func toRateResponse(rate *models.ExchangeRate) rateResponse {
	return rateResponse{
		ID:            rate.ID,
		FromCurrency:  rate.FromCurrency,
		ToCurrency:    rate.ToCurrency,
		Rate:          rate.Rate.String(),
		EffectiveDate: rate.EffectiveDate,
		CreatedAt:     rate.CreatedAt,
	}
}

// CreateExchangeRate records a conversion rate. Rates come in as strings to
// avoid float precision loss on the wire.
func (h *Handlers) CreateExchangeRate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FromCurrency == req.ToCurrency {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currencies must differ"})
		return
	}

	value, err := decimal.NewFromString(req.Rate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate: " + err.Error()})
		return
	}
	if value.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate must be positive"})
		return
	}

	rate := &models.ExchangeRate{
		FromCurrency:  req.FromCurrency,
		ToCurrency:    req.ToCurrency,
		Rate:          value,
		EffectiveDate: req.EffectiveDate,
	}
	if err := h.store.CreateExchangeRate(c.Request.Context(), rate); err != nil {
		respondError(c, err)
		return
	}

	// Cached snapshots may have been computed without this rate.
	h.engine.InvalidateAll()

	slog.Info("Exchange rate recorded", "from", rate.FromCurrency, "to", rate.ToCurrency, "rate", rate.Rate)
	c.JSON(http.StatusCreated, gin.H{"rate": toRateResponse(rate)})
}

// ListExchangeRates returns all recorded rates.
func (h *Handlers) ListExchangeRates(c *gin.Context) {
	rates, err := h.store.ListExchangeRates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]rateResponse, len(rates))
	for i, rate := range rates {
		responses[i] = toRateResponse(rate)
	}
	c.JSON(http.StatusOK, gin.H{"rates": responses})
}
