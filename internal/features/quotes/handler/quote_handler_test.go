package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"freight-desk/internal/features/quotes/domain"
	"freight-desk/internal/features/quotes/ports"
	"freight-desk/internal/features/quotes/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFxProvider is a mock implementation of FxRateProvider for testing.
type mockFxProvider struct {
	rate        decimal.Decimal
	returnError error
	lastForeign string
}

// Rate implements FxRateProvider.
func (m *mockFxProvider) Rate(ctx context.Context, base, foreign string) (decimal.Decimal, error) {
	m.lastForeign = foreign
	if m.returnError != nil {
		return decimal.Zero, m.returnError
	}
	return m.rate, nil
}

func newTestApp(t *testing.T, fx ports.FxRateProvider) *fiber.App {
	t.Helper()

	h := NewQuoteHandler(service.NewExtractor("EUR"), fx, "EUR")

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/quotes/extract", h.Extract)

	return app
}

func postExtract(t *testing.T, app *fiber.App, body ExtractRequest) domain.ExtractionResult {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/quotes/extract", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result domain.ExtractionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

// TestQuoteHandler_ExplicitRateWins verifies the request rate overrides the
// rate provider.
func TestQuoteHandler_ExplicitRateWins(t *testing.T) {
	fx := &mockFxProvider{rate: decimal.NewFromFloat(2.0)}
	app := newTestApp(t, fx)

	result := postExtract(t, app, ExtractRequest{
		Text:         "Pickup: $200",
		ExchangeRate: 1.10,
	})

	require.Len(t, result.Items, 1)
	assert.True(t, result.Totals[domain.LegPickup].Equal(decimal.RequireFromString("181.82")),
		"got %s", result.Totals[domain.LegPickup])
	assert.Empty(t, fx.lastForeign)
}

// TestQuoteHandler_FallsBackToRateProvider verifies the provider is queried
// when no explicit rate is given, defaulting the foreign currency to USD.
func TestQuoteHandler_FallsBackToRateProvider(t *testing.T) {
	fx := &mockFxProvider{rate: decimal.NewFromFloat(1.25)}
	app := newTestApp(t, fx)

	result := postExtract(t, app, ExtractRequest{Text: "Pickup: $200"})

	assert.Equal(t, "USD", fx.lastForeign)
	assert.True(t, result.Totals[domain.LegPickup].Equal(decimal.NewFromInt(160)),
		"got %s", result.Totals[domain.LegPickup])
}

// TestQuoteHandler_ProviderFailureKeepsOriginalAmounts verifies rate lookup
// failures degrade to face-value amounts instead of failing the request.
func TestQuoteHandler_ProviderFailureKeepsOriginalAmounts(t *testing.T) {
	fx := &mockFxProvider{returnError: errors.New("fx API unreachable")}
	app := newTestApp(t, fx)

	result := postExtract(t, app, ExtractRequest{Text: "Pickup: $200"})

	require.Len(t, result.Items, 1)
	assert.True(t, result.Totals[domain.LegPickup].Equal(decimal.NewFromInt(200)),
		"got %s", result.Totals[domain.LegPickup])
}

// TestQuoteHandler_NoProviderConfigured verifies the handler works without a
// rate provider.
func TestQuoteHandler_NoProviderConfigured(t *testing.T) {
	app := newTestApp(t, nil)

	result := postExtract(t, app, ExtractRequest{Text: "Pickup: $200"})

	require.Len(t, result.Items, 1)
	assert.True(t, result.Totals[domain.LegPickup].Equal(decimal.NewFromInt(200)))
}

// TestQuoteHandler_EmptyExtractionIsStillOK verifies unparseable text returns
// an empty item list, not an error status.
func TestQuoteHandler_EmptyExtractionIsStillOK(t *testing.T) {
	app := newTestApp(t, nil)

	result := postExtract(t, app, ExtractRequest{Text: "no cost lines here"})

	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
}

// TestQuoteHandler_InvalidBody verifies malformed JSON is rejected.
func TestQuoteHandler_InvalidBody(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest("POST", "/quotes/extract", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestQuoteHandler_WeightAbsolutizesPerKgRates verifies the end-to-end flow
// with weight and per-kg rates.
func TestQuoteHandler_WeightAbsolutizesPerKgRates(t *testing.T) {
	app := newTestApp(t, nil)

	result := postExtract(t, app, ExtractRequest{
		Text:     "Air freight: EUR 2.50/kg",
		WeightKg: 120,
	})

	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Items[0].Unit)
	assert.True(t, result.Totals[domain.LegMainrun].Equal(decimal.NewFromInt(300)),
		"got %s", result.Totals[domain.LegMainrun])
}
