package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"freight-desk/internal/features/tariffs/adapters"
	"freight-desk/internal/features/tariffs/domain"
	"freight-desk/internal/features/tariffs/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, zoneRules []domain.ZoneRule, brackets []domain.RateBracket) *fiber.App {
	t.Helper()

	zoneRepo := adapters.NewMemoryZoneRuleRepository()
	for _, rule := range zoneRules {
		require.NoError(t, zoneRepo.Save(context.Background(), rule))
	}

	bracketRepo := adapters.NewMemoryRateBracketRepository()
	for _, bracket := range brackets {
		require.NoError(t, bracketRepo.Save(context.Background(), bracket))
	}

	zones := service.NewZoneResolver(zoneRepo)
	tariffs := service.NewTariffResolver(zones, bracketRepo, "EUR")
	h := NewTariffHandler(zones, tariffs, bracketRepo, 15)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/tariffs/zone", h.GetZone)
	app.Get("/tariffs/rate", h.GetRate)
	app.Post("/tariffs/calculate", h.Calculate)

	return app
}

func standardBracket() domain.RateBracket {
	return domain.RateBracket{
		PartnerID:        "P1",
		ZoneCode:         "ZONE5",
		AirportCode:      "FRA",
		WeightFrom:       0,
		WeightTo:         1000,
		BasePrice:        decimal.NewFromInt(200),
		SurchargeKind:    domain.SurchargePerKg,
		SurchargeBase:    decimal.NewFromInt(50),
		SurchargePerUnit: decimal.NewFromFloat(0.5),
		SurchargeCap:     decimal.NewFromInt(400),
	}
}

// TestTariffHandler_GetZone_Success verifies zone resolution over HTTP.
func TestTariffHandler_GetZone_Success(t *testing.T) {
	app := newTestApp(t,
		[]domain.ZoneRule{{PartnerID: "P1", PostalPrefix: "975", ZoneCode: "ZONE5"}},
		nil,
	)

	req := httptest.NewRequest("GET", "/tariffs/zone?partner=P1&postalCode=97540", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result ZoneResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ZONE5", result.ZoneCode)
}

// TestTariffHandler_GetZone_UnmappedReturnsDefault verifies the default zone is still a 200.
func TestTariffHandler_GetZone_UnmappedReturnsDefault(t *testing.T) {
	app := newTestApp(t, nil, nil)

	req := httptest.NewRequest("GET", "/tariffs/zone?partner=P1&postalCode=99999", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result ZoneResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.DefaultZone, result.ZoneCode)
}

// TestTariffHandler_GetZone_MissingParams verifies parameter validation.
func TestTariffHandler_GetZone_MissingParams(t *testing.T) {
	app := newTestApp(t, nil, nil)

	req := httptest.NewRequest("GET", "/tariffs/zone?partner=P1", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestTariffHandler_GetRate_Success verifies the bracket lookup endpoint.
func TestTariffHandler_GetRate_Success(t *testing.T) {
	app := newTestApp(t, nil, []domain.RateBracket{standardBracket()})

	req := httptest.NewRequest("GET", "/tariffs/rate?partner=P1&zone=ZONE5&airport=FRA&weight=500", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result domain.RateBracket
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "P1", result.PartnerID)
	assert.Equal(t, 1000.0, result.WeightTo)
}

// TestTariffHandler_GetRate_NotFound verifies the 404 for uncovered weights.
func TestTariffHandler_GetRate_NotFound(t *testing.T) {
	app := newTestApp(t, nil, []domain.RateBracket{standardBracket()})

	req := httptest.NewRequest("GET", "/tariffs/rate?partner=P1&zone=ZONE5&airport=FRA&weight=1500", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// TestTariffHandler_Calculate_Success verifies the pricing endpoint end to end.
func TestTariffHandler_Calculate_Success(t *testing.T) {
	app := newTestApp(t,
		[]domain.ZoneRule{{PartnerID: "P1", PostalPrefix: "975", ZoneCode: "ZONE5"}},
		[]domain.RateBracket{standardBracket()},
	)

	body, _ := json.Marshal(CalculateRequest{
		Partner:    "P1",
		PostalCode: "97540",
		Weight:     1000,
		Pieces:     2,
		Airport:    "FRA",
	})
	req := httptest.NewRequest("POST", "/tariffs/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result CalculateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.SurchargeCost.Equal(decimal.NewFromInt(400)), "got %s", result.SurchargeCost)
	assert.True(t, result.TotalCost.Equal(decimal.NewFromInt(600)), "got %s", result.TotalCost)
	assert.True(t, result.SellingPrice.Equal(decimal.NewFromInt(690)), "got %s", result.SellingPrice)
	assert.Equal(t, "ZONE5", result.ZoneUsed)
}

// TestTariffHandler_Calculate_NoTariff verifies the structured no-tariff response.
func TestTariffHandler_Calculate_NoTariff(t *testing.T) {
	app := newTestApp(t, nil, nil)

	body, _ := json.Marshal(CalculateRequest{
		Partner:    "P9",
		PostalCode: "11111",
		Weight:     500,
		Pieces:     1,
		Airport:    "JFK",
	})
	req := httptest.NewRequest("POST", "/tariffs/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var result NoTariffResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotNil(t, result.Lookup)
	assert.Equal(t, "P9", result.Lookup.PartnerID)
	assert.Equal(t, domain.DefaultZone, result.Lookup.ZoneCode)
	assert.Equal(t, "JFK", result.Lookup.AirportCode)
	assert.Equal(t, "test-ray-id", result.RayID)
}

// TestTariffHandler_Calculate_InvalidBody verifies request validation.
func TestTariffHandler_Calculate_InvalidBody(t *testing.T) {
	app := newTestApp(t, nil, nil)

	req := httptest.NewRequest("POST", "/tariffs/calculate", bytes.NewReader([]byte(`{"partner":"P1"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
