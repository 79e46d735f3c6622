package dto

import (
	"time"

	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

// NotificationCreateRequest describes the payload to create a notification.
type NotificationCreateRequest struct {
	UserID          uint   `json:"user_id" validate:"required,min=1"`
	Type            string `json:"type" validate:"required,oneof=ACTIVITY_FORWARDED PARTICIPATION_REQUEST PARTICIPATION_ACCEPTED PARTICIPATION_DECLINED ACTIVITY_REMINDER ACTIVITY_STARTED ACTIVITY_COMPLETED EVALUATION_REQUEST SEATS_AVAILABLE"`
	Title           string `json:"title" validate:"required,max=255"`
	Content         string `json:"content" validate:"required"`
	ActivityID      *uint  `json:"activity_id" validate:"omitempty,min=1"`
	ParticipationID *uint  `json:"participation_id" validate:"omitempty,min=1"`
	Priority        string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// NotificationResponse is the serialized representation of an inbox entry.
type NotificationResponse struct {
	ID              uint       `json:"id"`
	UserID          uint       `json:"user_id"`
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	ActivityID      *uint      `json:"activity_id,omitempty"`
	ParticipationID *uint      `json:"participation_id,omitempty"`
	Priority        string     `json:"priority"`
	Read            bool       `json:"read"`
	ReadAt          *time.Time `json:"read_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// UnreadCountResponse reports the number of unread inbox entries.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// NewNotificationResponse converts a model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:              model.ID,
		UserID:          model.UserID,
		Type:            model.Type,
		Title:           model.Title,
		Content:         model.Content,
		ActivityID:      model.ActivityID,
		ParticipationID: model.ParticipationID,
		Priority:        model.Priority,
		Read:            model.Read,
		ReadAt:          model.ReadAt,
		CreatedAt:       model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of models into DTOs.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, NewNotificationResponse(notification))
	}
	return out
}
