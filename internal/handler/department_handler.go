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

// DepartmentHandler wires department HTTP routes.
type DepartmentHandler struct {
	service service.DepartmentService
	logger  zerolog.Logger
}

// NewDepartmentHandler constructs the handler.
func NewDepartmentHandler(service service.DepartmentService, logger zerolog.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		service: service,
		logger:  logger.With().Str("component", "department_handler").Logger(),
	}
}

// Register attaches department endpoints to the router group.
func (h *DepartmentHandler) Register(router fiber.Router, hrOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", hrOnly, h.create)
	router.Patch("/:id", hrOnly, h.update)
	router.Delete("/:id", hrOnly, h.delete)
}

func (h *DepartmentHandler) list(c *fiber.Ctx) error {
	departments, err := h.service.List(requestContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "departments retrieved", departments)
}

func (h *DepartmentHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid department id")
	}

	department, err := h.service.Get(requestContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "department retrieved", department)
}

func (h *DepartmentHandler) create(c *fiber.Ctx) error {
	var payload dto.DepartmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	department, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "department created", department)
}

func (h *DepartmentHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid department id")
	}

	var payload dto.DepartmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	department, err := h.service.Update(requestContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "department updated", department)
}

func (h *DepartmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid department id")
	}

	if err := h.service.Delete(requestContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "department deleted", fiber.Map{"id": id})
}

func (h *DepartmentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "department not found")
	case errors.Is(err, service.ErrDepartmentCodeExists):
		return utils.SendError(c, fiber.StatusConflict, "department code already in use")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *DepartmentHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
