package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
	"github.com/vireo-labs/vireo-hr-api/internal/service"
	"github.com/vireo-labs/vireo-hr-api/internal/utils"
)

// ActivityHandler wires activity HTTP routes.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// ActivityGuards carries the role middleware for each route set.
type ActivityGuards struct {
	HR      fiber.Handler // HR: create, update, forward, delete
	Manager fiber.Handler // MANAGER: personal queues
	Staff   fiber.Handler // HR, MANAGER, ADMIN: listings and status changes
	Any     fiber.Handler // any workflow role: single fetch
}

// Register attaches activity endpoints to the router group. Literal segments
// are bound before the ":id" routes so Fiber never swallows them as ids.
func (h *ActivityHandler) Register(router fiber.Router, guards ActivityGuards) {
	router.Get("", guards.Staff, h.list)
	router.Post("", guards.HR, h.create)
	router.Get("/my-activities", guards.Manager, h.listMine)
	router.Get("/pending", guards.Manager, h.listPending)
	router.Get("/status/:status", guards.Staff, h.listByStatus)
	router.Get("/department/:departmentId", guards.Staff, h.listByDepartment)
	router.Get("/:id", guards.Any, h.get)
	router.Patch("/:id", guards.HR, h.update)
	router.Patch("/:id/forward", guards.HR, h.forward)
	router.Patch("/:id/status", guards.Staff, h.updateStatus)
	router.Delete("/:id", guards.HR, h.delete)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	activities, err := h.service.List(requestContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "activities retrieved", activities)
}

func (h *ActivityHandler) listMine(c *fiber.Ctx) error {
	activities, err := h.service.ListByManager(requestContext(c), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "activities retrieved", activities)
}

func (h *ActivityHandler) listPending(c *fiber.Ctx) error {
	activities, err := h.service.ListPendingForManager(requestContext(c), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "activities retrieved", activities)
}

func (h *ActivityHandler) listByStatus(c *fiber.Ctx) error {
	status := c.Params("status")
	if !models.ValidActivityStatus(status) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity status")
	}

	activities, err := h.service.ListByStatus(requestContext(c), status)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "activities retrieved", activities)
}

func (h *ActivityHandler) listByDepartment(c *fiber.Ctx) error {
	departmentID, err := parseIDParam(c, "departmentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid department id")
	}

	activities, err := h.service.ListByDepartment(requestContext(c), departmentID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "activities retrieved", activities)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	activity, err := h.service.Get(requestContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity retrieved", activity)
}

func (h *ActivityHandler) create(c *fiber.Ctx) error {
	var payload dto.ActivityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	activity, err := h.service.Create(requestContext(c), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity created", activity)
}

func (h *ActivityHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	var payload dto.ActivityUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	activity, err := h.service.Update(requestContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity updated", activity)
}

func (h *ActivityHandler) forward(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	var payload dto.ActivityForwardRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	activity, err := h.service.Forward(requestContext(c), actorFromContext(c), id, payload.ManagerID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity forwarded", activity)
}

func (h *ActivityHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	var payload dto.ActivityStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	activity, err := h.service.UpdateStatus(requestContext(c), actorFromContext(c), id, payload.Status)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity status updated", activity)
}

func (h *ActivityHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	if err := h.service.Delete(requestContext(c), actorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity deleted", fiber.Map{"id": id})
}

func (h *ActivityHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "activity not found")
	case errors.Is(err, service.ErrManagerNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "manager not found")
	case errors.Is(err, service.ErrInvalidActivityStatus):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity status")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ActivityHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
