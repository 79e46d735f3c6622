package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog captures workflow transitions for traceability: forwards, status
// overwrites and participation responses.
type AuditLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null" json:"action"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Audit actions recorded by the workflow services.
const (
	AuditActionActivityCreated       = "activity.created"
	AuditActionActivityForwarded     = "activity.forwarded"
	AuditActionActivityStatusChanged = "activity.status_changed"
	AuditActionActivityDeleted       = "activity.deleted"
	AuditActionParticipationCreated  = "participation.created"
	AuditActionParticipationUpdated  = "participation.updated"
	AuditActionParticipationDeleted  = "participation.deleted"
)
