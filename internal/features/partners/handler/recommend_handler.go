package handler

import (
	"freight-desk/internal/features/partners/domain"
	"freight-desk/internal/features/partners/service"

	"github.com/gofiber/fiber/v2"
)

// RecommendHandler handles HTTP requests for partner recommendations.
type RecommendHandler struct {
	recommender *service.Recommender
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(recommender *service.Recommender) *RecommendHandler {
	return &RecommendHandler{recommender: recommender}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// RecommendResponse carries the per-leg partner suggestions.
type RecommendResponse struct {
	Suggestions []domain.PartnerSuggestion `json:"suggestions"`
}

// Recommend godoc
// @Summary Recommend a partner per transport leg
// @Description Evaluates the historical-usage decision table and proposes a partner with a confidence score for each leg. Legs without an applicable rule are omitted.
// @Tags partners
// @Accept json
// @Produce json
// @Param request body domain.ShipmentAttributes true "Shipment route attributes"
// @Success 200 {object} RecommendResponse
// @Failure 400 {object} ErrorResponse
// @Router /partners/recommend [post]
func (h *RecommendHandler) Recommend(c *fiber.Ctx) error {
	var attrs domain.ShipmentAttributes
	if err := c.BodyParser(&attrs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	suggestions := h.recommender.Recommend(c.Context(), attrs)
	if suggestions == nil {
		suggestions = []domain.PartnerSuggestion{}
	}

	return c.JSON(RecommendResponse{Suggestions: suggestions})
}
