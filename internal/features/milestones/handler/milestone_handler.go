package handler

import (
	"errors"

	"freight-desk/internal/features/milestones/domain"
	"freight-desk/internal/features/milestones/service"

	"github.com/gofiber/fiber/v2"
)

// MilestoneHandler handles HTTP requests for milestone sequences and
// shipment progress.
type MilestoneHandler struct {
	engine *service.Engine
}

// NewMilestoneHandler creates a new MilestoneHandler.
func NewMilestoneHandler(engine *service.Engine) *MilestoneHandler {
	return &MilestoneHandler{engine: engine}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// InvalidMilestoneResponse carries the rejected advance parameters together
// with the unchanged shipment state.
type InvalidMilestoneResponse struct {
	Message  string                        `json:"message"`
	Rejected *domain.InvalidMilestoneError `json:"rejected"`
	Current  *domain.ShipmentProgress      `json:"current"`
	RayID    string                        `json:"ray_id,omitempty"`
}

// StartRequest is the body for registering shipment progress.
type StartRequest struct {
	TransportMode string `json:"transport_mode"`
	Direction     string `json:"direction"`
	Actor         string `json:"actor"`
}

// AdvanceRequest is the body for the milestone advance endpoint.
type AdvanceRequest struct {
	MilestoneID int    `json:"milestone_id"`
	Actor       string `json:"actor"`
}

// AdvanceResponse is the outcome of a successful advance.
type AdvanceResponse struct {
	Progress      *domain.ShipmentProgress `json:"progress"`
	DerivedStatus domain.StatusCode        `json:"derived_status"`
	RenderedText  string                   `json:"rendered_text"`
}

// ListDefinitions godoc
// @Summary List the milestone sequence for a transport mode and direction
// @Description Returns the ordered, fixed milestone chain used for the given mode/direction pair.
// @Tags milestones
// @Produce json
// @Param transportMode query string true "Transport mode" Enums(air, sea, truck)
// @Param direction query string true "Direction" Enums(export, import)
// @Success 200 {array} domain.MilestoneDefinition
// @Failure 400 {object} ErrorResponse
// @Router /milestones [get]
func (h *MilestoneHandler) ListDefinitions(c *fiber.Ctx) error {
	mode := c.Query("transportMode")
	direction := c.Query("direction")
	if mode == "" || direction == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "transportMode and direction query parameters are required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	definitions, err := h.engine.ListDefinitions(domain.TransportMode(mode), domain.Direction(direction))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(definitions)
}

// Start godoc
// @Summary Register milestone tracking for a booked shipment
// @Description Creates the progress record at milestone 1 and writes the first history entry.
// @Tags milestones
// @Accept json
// @Produce json
// @Param id path string true "Shipment ID"
// @Param request body StartRequest true "Transport mode, direction and actor"
// @Success 201 {object} domain.ShipmentProgress
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /shipments/{id}/progress [post]
func (h *MilestoneHandler) Start(c *fiber.Ctx) error {
	var req StartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	progress, err := h.engine.Start(c.Context(), c.Params("id"),
		domain.TransportMode(req.TransportMode), domain.Direction(req.Direction), req.Actor)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrUnknownSequence):
			status = fiber.StatusBadRequest
		case errors.Is(err, domain.ErrShipmentExists):
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(progress)
}

// Advance godoc
// @Summary Set a shipment's current milestone
// @Description Moves the milestone pointer, derives the shipment status and appends a history entry. Invalid ids leave the stored state untouched and return it alongside the rejection.
// @Tags milestones
// @Accept json
// @Produce json
// @Param id path string true "Shipment ID"
// @Param request body AdvanceRequest true "Milestone id and actor"
// @Success 200 {object} AdvanceResponse
// @Failure 400 {object} InvalidMilestoneResponse
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id}/milestone [put]
func (h *MilestoneHandler) Advance(c *fiber.Ctx) error {
	var req AdvanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	shipmentID := c.Params("id")

	progress, rendered, err := h.engine.Advance(c.Context(), shipmentID, req.MilestoneID, req.Actor)
	if err != nil {
		var invalid *domain.InvalidMilestoneError
		if errors.As(err, &invalid) {
			// The previous valid state is returned unchanged so the caller
			// can see which sequence it was actually validated against.
			current, findErr := h.engine.Progress(c.Context(), shipmentID)
			if findErr != nil {
				current = nil
			}
			return c.Status(fiber.StatusBadRequest).JSON(InvalidMilestoneResponse{
				Message:  "milestone id outside the active sequence",
				Rejected: invalid,
				Current:  current,
				RayID:    c.Locals("requestid").(string),
			})
		}

		if errors.Is(err, domain.ErrShipmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   c.Locals("requestid").(string),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(AdvanceResponse{
		Progress:      progress,
		DerivedStatus: progress.StatusCode,
		RenderedText:  rendered,
	})
}

// View godoc
// @Summary Show a shipment's milestone completion view
// @Description Returns every milestone of the active sequence with its completed/pending/future state and, for completed ones, who advanced it and when.
// @Tags milestones
// @Produce json
// @Param id path string true "Shipment ID"
// @Success 200 {object} domain.CompletionView
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id}/milestones [get]
func (h *MilestoneHandler) View(c *fiber.Ctx) error {
	view, err := h.engine.View(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   c.Locals("requestid").(string),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(view)
}
