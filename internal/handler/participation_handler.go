package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/service"
	"github.com/vireo-labs/vireo-hr-api/internal/utils"
)

// ParticipationHandler wires participation HTTP routes.
type ParticipationHandler struct {
	service service.ParticipationService
	logger  zerolog.Logger
}

// NewParticipationHandler constructs the handler.
func NewParticipationHandler(service service.ParticipationService, logger zerolog.Logger) *ParticipationHandler {
	return &ParticipationHandler{
		service: service,
		logger:  logger.With().Str("component", "participation_handler").Logger(),
	}
}

// ParticipationGuards carries the role middleware for each route set. The
// participation surface is the most finely gated one: managers and HR drive
// confirmations, employees respond to their own invitations.
type ParticipationGuards struct {
	Staff       fiber.Handler // HR and MANAGER: listing, creation, removal
	Employee    fiber.Handler // EMPLOYEE: responding to own invitations
	Manager     fiber.Handler // MANAGER: rejecting on the employee's behalf
	Participant fiber.Handler // any workflow role: reads and generic update
}

// Register attaches participation endpoints to the router group.
func (h *ParticipationHandler) Register(router fiber.Router, guards ParticipationGuards) {
	router.Get("", guards.Staff, h.list)
	router.Post("", guards.Staff, h.create)
	router.Post("/bulk", guards.Staff, h.createMany)
	router.Get("/my-participations", guards.Employee, h.listMine)
	router.Get("/activity/:activityId", guards.Staff, h.listByActivity)
	router.Get("/activity/:activityId/seats", guards.Staff, h.availableSeats)
	router.Get("/employee/:employeeId", guards.Participant, h.listByEmployee)
	router.Get("/:id", guards.Participant, h.get)
	router.Patch("/:id", guards.Participant, h.update)
	router.Patch("/:id/accept", guards.Employee, h.accept)
	router.Patch("/:id/decline", guards.Employee, h.decline)
	router.Patch("/:id/reject", guards.Manager, h.reject)
	router.Delete("/:id", guards.Staff, h.delete)
}

func (h *ParticipationHandler) list(c *fiber.Ctx) error {
	participations, err := h.service.List(requestContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "participations retrieved", participations)
}

func (h *ParticipationHandler) listByActivity(c *fiber.Ctx) error {
	activityID, err := parseIDParam(c, "activityId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	participations, err := h.service.ListByActivity(requestContext(c), activityID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "participations retrieved", participations)
}

func (h *ParticipationHandler) listMine(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	participations, err := h.service.ListByEmployee(requestContext(c), userID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "participations retrieved", participations)
}

func (h *ParticipationHandler) listByEmployee(c *fiber.Ctx) error {
	employeeID, err := parseIDParam(c, "employeeId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	participations, err := h.service.ListByEmployee(requestContext(c), employeeID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "participations retrieved", participations)
}

func (h *ParticipationHandler) availableSeats(c *fiber.Ctx) error {
	activityID, err := parseIDParam(c, "activityId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	seats, err := h.service.AvailableSeats(requestContext(c), activityID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "available seats computed", seats)
}

func (h *ParticipationHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid participation id")
	}

	participation, err := h.service.Get(requestContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "participation retrieved", participation)
}

func (h *ParticipationHandler) create(c *fiber.Ctx) error {
	var payload dto.ParticipationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	participation, err := h.service.Create(requestContext(c), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "participation created", participation)
}

func (h *ParticipationHandler) createMany(c *fiber.Ctx) error {
	var payload dto.ParticipationBulkCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.CreateMany(requestContext(c), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "participations created", result)
}

func (h *ParticipationHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid participation id")
	}

	var payload dto.ParticipationUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	participation, err := h.service.Update(requestContext(c), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "participation updated", participation)
}

func (h *ParticipationHandler) accept(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid participation id")
	}

	participation, err := h.service.Accept(requestContext(c), actorFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "participation accepted", participation)
}

func (h *ParticipationHandler) decline(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid participation id")
	}

	var payload dto.ParticipationDeclineRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	participation, err := h.service.Decline(requestContext(c), actorFromContext(c), id, payload.Justification)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "participation declined", participation)
}

func (h *ParticipationHandler) reject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid participation id")
	}

	participation, err := h.service.Reject(requestContext(c), actorFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "participation rejected", participation)
}

func (h *ParticipationHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid participation id")
	}

	if err := h.service.Delete(requestContext(c), actorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "participation deleted", fiber.Map{"id": id})
}

func (h *ParticipationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrParticipationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "participation not found")
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "activity not found")
	case errors.Is(err, service.ErrParticipationExists):
		return utils.SendError(c, fiber.StatusConflict, "employee is already registered for this activity")
	case errors.Is(err, service.ErrJustificationRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "a justification is required when declining")
	case errors.Is(err, service.ErrInvalidParticipationStatus):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid participation status")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ParticipationHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
