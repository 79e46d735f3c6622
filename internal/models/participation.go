package models

import "time"

// Participation holds an employee's candidate slot within an activity. An
// employee may hold at most one participation per activity; the composite
// unique index is the store-level guarantee under concurrent creation.
type Participation struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ActivityID    uint       `gorm:"not null;index;uniqueIndex:idx_activity_employee" json:"activity_id"`
	EmployeeID    uint       `gorm:"not null;index;uniqueIndex:idx_activity_employee" json:"employee_id"`
	Status        string     `gorm:"size:32;index;default:PENDING" json:"status"`
	Justification string     `gorm:"size:500" json:"justification"`
	RespondedAt   *time.Time `json:"responded_at"`
	ConfirmedBy   uint       `gorm:"not null" json:"confirmed_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Participation statuses.
const (
	ParticipationStatusPending           = "PENDING"
	ParticipationStatusAccepted          = "ACCEPTED"
	ParticipationStatusDeclined          = "DECLINED"
	ParticipationStatusRejectedByManager = "REJECTED_BY_MANAGER"
	ParticipationStatusCancelled         = "CANCELLED"
)

var participationStatuses = map[string]struct{}{
	ParticipationStatusPending:           {},
	ParticipationStatusAccepted:          {},
	ParticipationStatusDeclined:          {},
	ParticipationStatusRejectedByManager: {},
	ParticipationStatusCancelled:         {},
}

// ValidParticipationStatus reports whether the value is a known status.
func ValidParticipationStatus(status string) bool {
	_, ok := participationStatuses[status]
	return ok
}

// OccupiesSeat reports whether the participation consumes one unit of the
// activity capacity. Pending invitations reserve a seat so managers cannot
// over-invite.
func (p Participation) OccupiesSeat() bool {
	return p.Status == ParticipationStatusPending || p.Status == ParticipationStatusAccepted
}
