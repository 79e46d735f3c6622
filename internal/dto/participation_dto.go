package dto

import (
	"time"

	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

// ActivityRef is the lightweight activity projection joined into participation responses.
type ActivityRef struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Location  string     `json:"location,omitempty"`
}

// ParticipationCreateRequest confirms a single employee for an activity.
type ParticipationCreateRequest struct {
	ActivityID  uint  `json:"activity_id" validate:"required,min=1"`
	EmployeeID  uint  `json:"employee_id" validate:"required,min=1"`
	ConfirmedBy *uint `json:"confirmed_by" validate:"omitempty,min=1"`
}

// ParticipationBulkCreateRequest confirms a batch of employees in one call.
// Insertion is best effort: a failing row never rolls back its siblings.
type ParticipationBulkCreateRequest struct {
	ActivityID  uint   `json:"activity_id" validate:"required,min=1"`
	EmployeeIDs []uint `json:"employee_ids" validate:"required,min=1,dive,min=1"`
}

// ParticipationUpdateRequest transitions a participation status.
type ParticipationUpdateRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=PENDING ACCEPTED DECLINED REJECTED_BY_MANAGER CANCELLED"`
	Justification *string `json:"justification" validate:"omitempty,max=500"`
}

// ParticipationDeclineRequest carries the mandatory refusal justification.
type ParticipationDeclineRequest struct {
	Justification string `json:"justification" validate:"required,max=500"`
}

// ParticipationResponse is the serialized representation with resolved references.
type ParticipationResponse struct {
	ID            uint         `json:"id"`
	ActivityID    uint         `json:"activity_id"`
	EmployeeID    uint         `json:"employee_id"`
	Activity      *ActivityRef `json:"activity,omitempty"`
	Employee      *UserRef     `json:"employee,omitempty"`
	Confirmer     *UserRef     `json:"confirmed_by,omitempty"`
	Status        string       `json:"status"`
	Justification string       `json:"justification,omitempty"`
	RespondedAt   *time.Time   `json:"responded_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// BulkCreateFailure reports one employee whose insert failed during a batch.
type BulkCreateFailure struct {
	EmployeeID uint   `json:"employee_id"`
	Reason     string `json:"reason"`
}

// ParticipationBulkCreateResponse summarises a best-effort batch insert.
type ParticipationBulkCreateResponse struct {
	Created []ParticipationResponse `json:"created"`
	Failed  []BulkCreateFailure     `json:"failed"`
}

// AvailableSeatsResponse reports remaining capacity for an activity. Pending
// participations reserve seats; the value is not clamped at zero.
type AvailableSeatsResponse struct {
	ActivityID      uint  `json:"activity_id"`
	MaxParticipants int   `json:"max_participants"`
	Accepted        int64 `json:"accepted"`
	Pending         int64 `json:"pending"`
	AvailableSeats  int64 `json:"available_seats"`
}

// NewParticipationResponse converts a model into a DTO with resolved references.
func NewParticipationResponse(model models.Participation, activity *ActivityRef, employee, confirmer *UserRef) ParticipationResponse {
	return ParticipationResponse{
		ID:            model.ID,
		ActivityID:    model.ActivityID,
		EmployeeID:    model.EmployeeID,
		Activity:      activity,
		Employee:      employee,
		Confirmer:     confirmer,
		Status:        model.Status,
		Justification: model.Justification,
		RespondedAt:   model.RespondedAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewActivityRef builds the activity projection.
func NewActivityRef(activity models.Activity) *ActivityRef {
	return &ActivityRef{
		ID:        activity.ID,
		Title:     activity.Title,
		Type:      activity.Type,
		StartDate: activity.StartDate,
		EndDate:   activity.EndDate,
		Location:  activity.Location,
	}
}
