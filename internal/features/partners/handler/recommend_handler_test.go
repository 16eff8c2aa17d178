package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"freight-desk/internal/features/partners/adapters"
	"freight-desk/internal/features/partners/domain"
	"freight-desk/internal/features/partners/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(partners []domain.Partner) *fiber.App {
	recommender := service.NewRecommender(adapters.NewStaticCatalog(partners))
	h := NewRecommendHandler(recommender)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/partners/recommend", h.Recommend)

	return app
}

// TestRecommendHandler_Success verifies suggestions over HTTP.
func TestRecommendHandler_Success(t *testing.T) {
	app := newTestApp([]domain.Partner{
		{ID: "AIR-ATLAS", Name: "Atlas Air Cargo", Country: "US"},
	})

	body, _ := json.Marshal(domain.ShipmentAttributes{
		OriginAirport: "FRA",
		DestAirport:   "JFK",
		TransportMode: domain.ModeAir,
		DestCountry:   "US",
	})
	req := httptest.NewRequest("POST", "/partners/recommend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result RecommendResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, domain.LegMainrun, result.Suggestions[0].Leg)
	assert.Equal(t, "AIR-ATLAS", result.Suggestions[0].PartnerID)
}

// TestRecommendHandler_EmptyCatalog verifies an empty suggestion list instead of an error.
func TestRecommendHandler_EmptyCatalog(t *testing.T) {
	app := newTestApp(nil)

	body, _ := json.Marshal(domain.ShipmentAttributes{OriginAirport: "FRA"})
	req := httptest.NewRequest("POST", "/partners/recommend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result RecommendResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Empty(t, result.Suggestions)
}

// TestRecommendHandler_InvalidBody verifies request validation.
func TestRecommendHandler_InvalidBody(t *testing.T) {
	app := newTestApp(nil)

	req := httptest.NewRequest("POST", "/partners/recommend", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
