package dto

import "time"

// ManagerDashboardResponse aggregates the manager-facing collections in one
// payload: owned activities, the pending subset, participations scoped to the
// manager's activities and the notification inbox.
type ManagerDashboardResponse struct {
	MyActivities      []ActivityResponse      `json:"my_activities"`
	PendingActivities []ActivityResponse      `json:"pending_activities"`
	Participations    []ParticipationResponse `json:"participations"`
	Notifications     []NotificationResponse  `json:"notifications"`
	UnreadCount       int64                   `json:"unread_count"`
	RefreshedAt       time.Time               `json:"refreshed_at"`
}
