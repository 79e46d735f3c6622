package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity represents an HR-initiated event (training, mission, audit...) with
// a capacity, a schedule and a lifecycle status.
type Activity struct {
	ID              uint                               `gorm:"primaryKey" json:"id"`
	Title           string                             `gorm:"size:255;not null" json:"title"`
	Description     string                             `gorm:"type:text;not null" json:"description"`
	Type            string                             `gorm:"size:32;not null" json:"type"`
	DepartmentID    *uint                              `gorm:"index" json:"department_id"`
	CreatedBy       *uint                              `gorm:"index" json:"created_by"`
	ManagerID       *uint                              `gorm:"index" json:"manager_id"`
	RequiredSkills  datatypes.JSONSlice[RequiredSkill] `json:"required_skills"`
	MaxParticipants int                                `gorm:"not null" json:"max_participants"`
	StartDate       time.Time                          `gorm:"index;not null" json:"start_date"`
	EndDate         *time.Time                         `json:"end_date"`
	Location        string                             `gorm:"size:255" json:"location"`
	Priority        string                             `gorm:"size:32;default:CONSOLIDATE" json:"priority"`
	Status          string                             `gorm:"size:32;index;default:CREATED" json:"status"`
	DurationHours   float64                            `gorm:"default:0" json:"duration_hours"`
	CreatedAt       time.Time                          `json:"created_at"`
	UpdatedAt       time.Time                          `json:"updated_at"`
}

// RequiredSkill is embedded in an activity; it has no identity of its own.
type RequiredSkill struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Level  string  `json:"level"`
	Weight float64 `json:"weight"`
}

// Activity lifecycle statuses.
const (
	ActivityStatusCreated     = "CREATED"
	ActivityStatusRecommended = "RECOMMENDED"
	ActivityStatusValidated   = "VALIDATED"
	ActivityStatusInProgress  = "IN_PROGRESS"
	ActivityStatusCompleted   = "COMPLETED"
	ActivityStatusCancelled   = "CANCELLED"
)

// Activity types.
const (
	ActivityTypeFormation     = "FORMATION"
	ActivityTypeCertification = "CERTIFICATION"
	ActivityTypeAudit         = "AUDIT"
	ActivityTypeProject       = "PROJECT"
	ActivityTypeMission       = "MISSION"
)

// Activity priorities.
const (
	ActivityPriorityDevelopLow  = "DEVELOP_LOW"
	ActivityPriorityConsolidate = "CONSOLIDATE"
	ActivityPriorityExpert      = "EXPERT"
)

// Required-skill dimensions.
const (
	SkillTypeKnowledge  = "KNOWLEDGE"
	SkillTypeKnowHow    = "KNOW_HOW"
	SkillTypeSoftSkills = "SOFT_SKILLS"

	SkillLevelLow    = "LOW"
	SkillLevelMedium = "MEDIUM"
	SkillLevelHigh   = "HIGH"
	SkillLevelExpert = "EXPERT"
)

var activityStatuses = map[string]struct{}{
	ActivityStatusCreated:     {},
	ActivityStatusRecommended: {},
	ActivityStatusValidated:   {},
	ActivityStatusInProgress:  {},
	ActivityStatusCompleted:   {},
	ActivityStatusCancelled:   {},
}

var activityTypes = map[string]struct{}{
	ActivityTypeFormation:     {},
	ActivityTypeCertification: {},
	ActivityTypeAudit:         {},
	ActivityTypeProject:       {},
	ActivityTypeMission:       {},
}

var activityPriorities = map[string]struct{}{
	ActivityPriorityDevelopLow:  {},
	ActivityPriorityConsolidate: {},
	ActivityPriorityExpert:      {},
}

// ValidActivityStatus reports whether the value is a known lifecycle status.
func ValidActivityStatus(status string) bool {
	_, ok := activityStatuses[status]
	return ok
}

// ValidActivityType reports whether the value is a known activity type.
func ValidActivityType(activityType string) bool {
	_, ok := activityTypes[activityType]
	return ok
}

// ValidActivityPriority reports whether the value is a known priority.
func ValidActivityPriority(priority string) bool {
	_, ok := activityPriorities[priority]
	return ok
}

// IsPending reports whether the activity awaits manager handling.
func (a Activity) IsPending() bool {
	return a.Status == ActivityStatusValidated || a.Status == ActivityStatusInProgress
}
