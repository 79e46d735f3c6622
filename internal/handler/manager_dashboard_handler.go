package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-labs/vireo-hr-api/internal/observability"
	"github.com/vireo-labs/vireo-hr-api/internal/service"
	"github.com/vireo-labs/vireo-hr-api/internal/utils"
)

// ManagerDashboardHandler exposes the aggregated manager view.
type ManagerDashboardHandler struct {
	service service.ManagerDashboardService
	logger  zerolog.Logger
}

// NewManagerDashboardHandler constructs the handler.
func NewManagerDashboardHandler(service service.ManagerDashboardService, logger zerolog.Logger) *ManagerDashboardHandler {
	return &ManagerDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "manager_dashboard_handler").Logger(),
	}
}

// Register attaches dashboard endpoints to the router group.
func (h *ManagerDashboardHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Post("/refresh", h.refresh)
}

func (h *ManagerDashboardHandler) get(c *fiber.Ctx) error {
	managerID := userIDFromContext(c)
	if managerID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	dashboard, err := h.service.GetDashboard(requestContext(c), managerID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *ManagerDashboardHandler) refresh(c *fiber.Ctx) error {
	managerID := userIDFromContext(c)
	if managerID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	dashboard, err := h.service.Refresh(requestContext(c), managerID)
	if err != nil {
		return h.internalError(c, err)
	}

	observability.DashboardRefreshesTotal().WithLabelValues("manual").Inc()
	return utils.SendSuccess(c, "dashboard refreshed", dashboard)
}

func (h *ManagerDashboardHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
