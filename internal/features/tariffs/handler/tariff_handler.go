package handler

import (
	"errors"

	"freight-desk/internal/features/tariffs/domain"
	"freight-desk/internal/features/tariffs/ports"
	"freight-desk/internal/features/tariffs/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// TariffHandler handles HTTP requests for zone and tariff lookups.
type TariffHandler struct {
	zones         *service.ZoneResolver
	tariffs       *service.TariffResolver
	brackets      ports.RateBracketRepository
	marginPercent float64
}

// NewTariffHandler creates a new TariffHandler. marginPercent is the office
// default margin used to derive the suggested selling price.
func NewTariffHandler(zones *service.ZoneResolver, tariffs *service.TariffResolver, brackets ports.RateBracketRepository, marginPercent float64) *TariffHandler {
	return &TariffHandler{
		zones:         zones,
		tariffs:       tariffs,
		brackets:      brackets,
		marginPercent: marginPercent,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// NoTariffResponse is the structured "no tariff" response carrying the
// attempted lookup parameters so missing master data can be diagnosed.
type NoTariffResponse struct {
	Message string                `json:"message"`
	Lookup  *domain.NoTariffError `json:"lookup"`
	RayID   string                `json:"ray_id,omitempty"`
}

// ZoneResponse is the resolved zone for a postal code.
type ZoneResponse struct {
	ZoneCode string `json:"zone_code"`
}

// CalculateResponse is the cost breakdown extended with the suggested
// selling price at the office default margin.
type CalculateResponse struct {
	domain.CostBreakdown
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// CalculateRequest is the body for the tariff calculation endpoint.
type CalculateRequest struct {
	Partner    string  `json:"partner"`
	PostalCode string  `json:"postal_code"`
	Weight     float64 `json:"weight"`
	Volume     float64 `json:"volume"`
	Pieces     int     `json:"pieces"`
	Airport    string  `json:"airport"`
}

// GetZone godoc
// @Summary Resolve the tariff zone for a postal code
// @Description Maps a postal code to a partner's zone code by prefix matching. Unmapped codes resolve to the default zone.
// @Tags tariffs
// @Produce json
// @Param partner query string true "Partner ID"
// @Param postalCode query string true "Postal code"
// @Success 200 {object} ZoneResponse
// @Failure 400 {object} ErrorResponse
// @Router /tariffs/zone [get]
func (h *TariffHandler) GetZone(c *fiber.Ctx) error {
	partner := c.Query("partner")
	postalCode := c.Query("postalCode")
	if partner == "" || postalCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "partner and postalCode query parameters are required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	zone := h.zones.Resolve(c.Context(), partner, postalCode)

	return c.JSON(ZoneResponse{ZoneCode: zone})
}

// GetRate godoc
// @Summary Look up the rate bracket for a lane and weight
// @Description Returns the single rate bracket covering the given weight on a (partner, zone, airport) lane.
// @Tags tariffs
// @Produce json
// @Param partner query string true "Partner ID"
// @Param zone query string true "Zone code"
// @Param weight query number true "Chargeable weight in kg"
// @Param airport query string true "Airport code"
// @Success 200 {object} domain.RateBracket
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tariffs/rate [get]
func (h *TariffHandler) GetRate(c *fiber.Ctx) error {
	partner := c.Query("partner")
	zone := c.Query("zone")
	airport := c.Query("airport")
	weight := c.QueryFloat("weight", -1)

	if partner == "" || zone == "" || airport == "" || weight < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "partner, zone, airport and weight query parameters are required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	matches, err := h.brackets.FindBrackets(c.Context(), partner, zone, airport, weight)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	if len(matches) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "no rate bracket found",
			RayID:   c.Locals("requestid").(string),
		})
	}

	if len(matches) > 1 {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "overlapping rate brackets, tariff table needs repair",
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(matches[0])
}

// Calculate godoc
// @Summary Price one shipment leg
// @Description Resolves the zone, selects the rate bracket and computes the surcharge for a partner and shipment leg.
// @Tags tariffs
// @Accept json
// @Produce json
// @Param request body CalculateRequest true "Calculation parameters"
// @Success 200 {object} CalculateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} NoTariffResponse
// @Failure 409 {object} ErrorResponse
// @Router /tariffs/calculate [post]
func (h *TariffHandler) Calculate(c *fiber.Ctx) error {
	var req CalculateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	if req.Partner == "" || req.PostalCode == "" || req.Weight <= 0 || req.Airport == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "partner, postal_code, weight and airport are required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	breakdown, err := h.tariffs.Resolve(c.Context(), req.Partner, req.PostalCode, req.Weight, req.Pieces, req.Airport)
	if err != nil {
		var notFound *domain.NoTariffError
		if errors.As(err, &notFound) {
			// Expected, recoverable: the caller falls back to a manual quote.
			return c.Status(fiber.StatusNotFound).JSON(NoTariffResponse{
				Message: "no tariff found, manual quote required",
				Lookup:  notFound,
				RayID:   c.Locals("requestid").(string),
			})
		}

		var overlap *domain.OverlapError
		if errors.As(err, &overlap) {
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
				Message: overlap.Error(),
				RayID:   c.Locals("requestid").(string),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(CalculateResponse{
		CostBreakdown: *breakdown,
		SellingPrice:  breakdown.SellingPrice(h.marginPercent),
	})
}
