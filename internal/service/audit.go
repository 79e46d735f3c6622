package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
	"github.com/vireo-labs/vireo-hr-api/internal/repository"
)

// Actor identifies the authenticated caller performing a workflow operation.
type Actor struct {
	ID   uint
	Role string
}

// AuditRecorder records workflow transitions. Recording is best effort: a
// failed write is logged and never fails the triggering operation.
type AuditRecorder interface {
	Record(ctx context.Context, actor Actor, action, entityType string, entityID *uint, metadata map[string]interface{})
	List(ctx context.Context, filter repository.AuditLogFilter) (dto.AuditLogListResponse, error)
}

type auditRecorder struct {
	repo   repository.AuditLogRepository
	logger zerolog.Logger
}

// NewAuditRecorder constructs the workflow audit recorder.
func NewAuditRecorder(repo repository.AuditLogRepository, logger zerolog.Logger) AuditRecorder {
	return &auditRecorder{
		repo:   repo,
		logger: logger.With().Str("component", "audit_recorder").Logger(),
	}
}

func (a *auditRecorder) Record(ctx context.Context, actor Actor, action, entityType string, entityID *uint, metadata map[string]interface{}) {
	entry := models.AuditLog{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   datatypes.JSONMap(metadata),
	}

	if err := a.repo.Create(ctx, &entry); err != nil {
		a.logger.Warn().Err(err).Str("action", action).Msg("failed to record audit entry")
	}
}

func (a *auditRecorder) List(ctx context.Context, filter repository.AuditLogFilter) (dto.AuditLogListResponse, error) {
	entries, total, err := a.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}

	return dto.AuditLogListResponse{
		Entries: dto.NewAuditLogResponseSlice(entries),
		Total:   total,
	}, nil
}
