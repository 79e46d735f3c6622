package models

import "time"

// Notification is a per-user inbox entry created as a side effect of activity
// and participation transitions. Only the read state mutates after creation.
type Notification struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index:idx_notifications_user_read;index:idx_notifications_user_created" json:"user_id"`
	Type            string     `gorm:"size:64;index;not null" json:"type"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	ActivityID      *uint      `gorm:"index" json:"activity_id"`
	ParticipationID *uint      `json:"participation_id"`
	Priority        string     `gorm:"size:16;default:MEDIUM" json:"priority"`
	Read            bool       `gorm:"not null;default:false;index:idx_notifications_user_read" json:"read"`
	ReadAt          *time.Time `json:"read_at"`
	CreatedAt       time.Time  `gorm:"index:idx_notifications_user_created" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Workflow notification types.
const (
	NotificationTypeActivityForwarded     = "ACTIVITY_FORWARDED"
	NotificationTypeParticipationRequest  = "PARTICIPATION_REQUEST"
	NotificationTypeParticipationAccepted = "PARTICIPATION_ACCEPTED"
	NotificationTypeParticipationDeclined = "PARTICIPATION_DECLINED"
	NotificationTypeActivityReminder      = "ACTIVITY_REMINDER"
	NotificationTypeActivityStarted       = "ACTIVITY_STARTED"
	NotificationTypeActivityCompleted     = "ACTIVITY_COMPLETED"
	NotificationTypeEvaluationRequest     = "EVALUATION_REQUEST"
	NotificationTypeSeatsAvailable        = "SEATS_AVAILABLE"
)

// Notification priorities.
const (
	NotificationPriorityLow    = "LOW"
	NotificationPriorityMedium = "MEDIUM"
	NotificationPriorityHigh   = "HIGH"
	NotificationPriorityUrgent = "URGENT"
)

var notificationTypes = map[string]struct{}{
	NotificationTypeActivityForwarded:     {},
	NotificationTypeParticipationRequest:  {},
	NotificationTypeParticipationAccepted: {},
	NotificationTypeParticipationDeclined: {},
	NotificationTypeActivityReminder:      {},
	NotificationTypeActivityStarted:       {},
	NotificationTypeActivityCompleted:     {},
	NotificationTypeEvaluationRequest:     {},
	NotificationTypeSeatsAvailable:        {},
}

var notificationPriorities = map[string]struct{}{
	NotificationPriorityLow:    {},
	NotificationPriorityMedium: {},
	NotificationPriorityHigh:   {},
	NotificationPriorityUrgent: {},
}

// ValidNotificationType reports whether the value is a known workflow event.
func ValidNotificationType(notificationType string) bool {
	_, ok := notificationTypes[notificationType]
	return ok
}

// ValidNotificationPriority reports whether the value is a known priority.
func ValidNotificationPriority(priority string) bool {
	_, ok := notificationPriorities[priority]
	return ok
}
