package handler

import (
	"freight-desk/internal/core/logger"
	"freight-desk/internal/features/quotes/domain"
	"freight-desk/internal/features/quotes/ports"
	"freight-desk/internal/features/quotes/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteHandler handles HTTP requests for cost extraction from quote text.
type QuoteHandler struct {
	extractor    *service.Extractor
	fx           ports.FxRateProvider
	baseCurrency string
}

// NewQuoteHandler creates a new QuoteHandler. fx may be nil when no rate
// provider is configured; extraction then relies on the rate in the request.
func NewQuoteHandler(extractor *service.Extractor, fx ports.FxRateProvider, baseCurrency string) *QuoteHandler {
	return &QuoteHandler{
		extractor:    extractor,
		fx:           fx,
		baseCurrency: baseCurrency,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// ExtractRequest is the body for the extraction endpoint.
type ExtractRequest struct {
	// Text is the pasted quote or e-mail body.
	Text string `json:"text"`
	// WeightKg is the chargeable weight used to absolutize per-kg rates.
	WeightKg float64 `json:"weight_kg"`
	// ExchangeRate overrides the rate provider. Foreign amounts are divided
	// by it; zero means "look it up" or, failing that, "treat as base".
	ExchangeRate float64 `json:"exchange_rate"`
	// QuoteCurrency is the foreign currency to fetch a rate for when no
	// explicit rate is given. Defaults to USD.
	QuoteCurrency string `json:"quote_currency"`
}

// Extract godoc
// @Summary Extract cost items from quote text
// @Description Runs the pattern table over pasted free text and returns categorized, currency-normalized cost items with per-leg totals. An empty item list means manual entry is needed; it is not an error.
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body ExtractRequest true "Quote text and normalization parameters"
// @Success 200 {object} domain.ExtractionResult
// @Failure 400 {object} ErrorResponse
// @Router /quotes/extract [post]
func (h *QuoteHandler) Extract(c *fiber.Ctx) error {
	var req ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	rate := h.resolveRate(c, req)

	result := h.extractor.Extract(req.Text, req.WeightKg, rate)

	if result.Items == nil {
		result.Items = []domain.ExtractedCostItem{}
	}

	return c.JSON(result)
}

// resolveRate picks the exchange rate: an explicit request rate wins, then
// the rate provider; with neither, amounts stay in their written currency.
func (h *QuoteHandler) resolveRate(c *fiber.Ctx, req ExtractRequest) decimal.Decimal {
	if req.ExchangeRate > 0 {
		return decimal.NewFromFloat(req.ExchangeRate)
	}

	if h.fx == nil {
		return decimal.Zero
	}

	foreign := req.QuoteCurrency
	if foreign == "" {
		foreign = "USD"
	}
	if foreign == h.baseCurrency {
		return decimal.Zero
	}

	rate, err := h.fx.Rate(c.Context(), h.baseCurrency, foreign)
	if err != nil {
		logger.Get().Warn("Exchange rate lookup failed, amounts kept in original currency",
			zap.String("foreign", foreign),
			zap.Error(err),
		)
		return decimal.Zero
	}
	return rate
}
