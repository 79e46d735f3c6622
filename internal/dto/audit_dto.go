package dto

import (
	"time"

	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

// AuditLogResponse is the serialized representation of a workflow audit entry.
type AuditLogResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// AuditLogListResponse pages through the audit trail.
type AuditLogListResponse struct {
	Entries []AuditLogResponse `json:"entries"`
	Total   int64              `json:"total"`
}

// NewAuditLogResponse converts a model into a DTO.
func NewAuditLogResponse(model models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         model.ID,
		ActorID:    model.ActorID,
		ActorRole:  model.ActorRole,
		Action:     model.Action,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		Metadata:   model.Metadata,
		CreatedAt:  model.CreatedAt,
	}
}

// NewAuditLogResponseSlice converts a slice of models into DTOs.
func NewAuditLogResponseSlice(entries []models.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, NewAuditLogResponse(entry))
	}
	return out
}
