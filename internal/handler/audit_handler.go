package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-labs/vireo-hr-api/internal/repository"
	"github.com/vireo-labs/vireo-hr-api/internal/service"
	"github.com/vireo-labs/vireo-hr-api/internal/utils"
)

// AuditHandler exposes the workflow audit trail.
type AuditHandler struct {
	recorder service.AuditRecorder
	logger   zerolog.Logger
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(recorder service.AuditRecorder, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		recorder: recorder,
		logger:   logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register attaches audit endpoints to the router group.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	filter := repository.AuditLogFilter{
		Page:       page,
		PageSize:   pageSize,
		Action:     strings.TrimSpace(c.Query("action")),
		EntityType: strings.TrimSpace(c.Query("entity_type")),
	}

	if actorParam := strings.TrimSpace(c.Query("actor_id")); actorParam != "" {
		actorID, err := parseQueryInt(c, "actor_id")
		if err != nil || actorID < 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid actor_id")
		}
		actor := uint(actorID)
		filter.ActorID = &actor
	}

	entries, err := h.recorder.List(requestContext(c), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "audit entries retrieved", entries)
}
