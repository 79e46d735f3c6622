package dto

import (
	"time"

	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

// UserRef is the lightweight user projection joined into read responses.
type UserRef struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Matricule string `json:"matricule,omitempty"`
}

// DepartmentRef is the lightweight department projection joined into read responses.
type DepartmentRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// RequiredSkillPayload describes one embedded skill requirement.
type RequiredSkillPayload struct {
	Name   string  `json:"name" validate:"required,max=255"`
	Type   string  `json:"type" validate:"required,oneof=KNOWLEDGE KNOW_HOW SOFT_SKILLS"`
	Level  string  `json:"level" validate:"required,oneof=LOW MEDIUM HIGH EXPERT"`
	Weight float64 `json:"weight" validate:"gte=0,lte=1"`
}

// ActivityCreateRequest describes the payload for creating a new activity.
type ActivityCreateRequest struct {
	Title           string                 `json:"title" validate:"required,max=255"`
	Description     string                 `json:"description" validate:"required"`
	Type            string                 `json:"type" validate:"required,oneof=FORMATION CERTIFICATION AUDIT PROJECT MISSION"`
	DepartmentID    *uint                  `json:"department_id"`
	RequiredSkills  []RequiredSkillPayload `json:"required_skills" validate:"omitempty,dive"`
	MaxParticipants int                    `json:"max_participants" validate:"required,min=1"`
	StartDate       string                 `json:"start_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate         *string                `json:"end_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Location        string                 `json:"location" validate:"omitempty,max=255"`
	Priority        string                 `json:"priority" validate:"omitempty,oneof=DEVELOP_LOW CONSOLIDATE EXPERT"`
	DurationHours   float64                `json:"duration_hours" validate:"omitempty,gte=0"`
}

// ActivityUpdateRequest describes the partial-merge payload for updating an activity.
type ActivityUpdateRequest struct {
	Title           *string                `json:"title" validate:"omitempty,max=255"`
	Description     *string                `json:"description" validate:"omitempty"`
	Type            *string                `json:"type" validate:"omitempty,oneof=FORMATION CERTIFICATION AUDIT PROJECT MISSION"`
	DepartmentID    *uint                  `json:"department_id"`
	RequiredSkills  []RequiredSkillPayload `json:"required_skills" validate:"omitempty,dive"`
	MaxParticipants *int                   `json:"max_participants" validate:"omitempty,min=1"`
	StartDate       *string                `json:"start_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate         *string                `json:"end_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Location        *string                `json:"location" validate:"omitempty,max=255"`
	Priority        *string                `json:"priority" validate:"omitempty,oneof=DEVELOP_LOW CONSOLIDATE EXPERT"`
	DurationHours   *float64               `json:"duration_hours" validate:"omitempty,gte=0"`
}

// ActivityForwardRequest assigns a manager to own an activity.
type ActivityForwardRequest struct {
	ManagerID uint `json:"manager_id" validate:"required,min=1"`
}

// ActivityStatusRequest overwrites the lifecycle status.
type ActivityStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CREATED RECOMMENDED VALIDATED IN_PROGRESS COMPLETED CANCELLED"`
}

// ActivityResponse is the serialized representation returned to API clients,
// with department/creator/manager projections resolved.
type ActivityResponse struct {
	ID              uint                   `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Type            string                 `json:"type"`
	Department      *DepartmentRef         `json:"department,omitempty"`
	Creator         *UserRef               `json:"created_by,omitempty"`
	Manager         *UserRef               `json:"manager,omitempty"`
	RequiredSkills  []models.RequiredSkill `json:"required_skills"`
	MaxParticipants int                    `json:"max_participants"`
	StartDate       time.Time              `json:"start_date"`
	EndDate         *time.Time             `json:"end_date,omitempty"`
	Location        string                 `json:"location"`
	Priority        string                 `json:"priority"`
	Status          string                 `json:"status"`
	DurationHours   float64                `json:"duration_hours"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// NewActivityResponse converts a model into a DTO with resolved references.
func NewActivityResponse(model models.Activity, department *DepartmentRef, creator, manager *UserRef) ActivityResponse {
	return ActivityResponse{
		ID:              model.ID,
		Title:           model.Title,
		Description:     model.Description,
		Type:            model.Type,
		Department:      department,
		Creator:         creator,
		Manager:         manager,
		RequiredSkills:  model.RequiredSkills,
		MaxParticipants: model.MaxParticipants,
		StartDate:       model.StartDate,
		EndDate:         model.EndDate,
		Location:        model.Location,
		Priority:        model.Priority,
		Status:          model.Status,
		DurationHours:   model.DurationHours,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewUserRef builds the user projection.
func NewUserRef(user models.User) *UserRef {
	return &UserRef{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Matricule: user.Matricule,
	}
}

// NewDepartmentRef builds the department projection.
func NewDepartmentRef(department models.Department) *DepartmentRef {
	return &DepartmentRef{
		ID:   department.ID,
		Name: department.Name,
		Code: department.Code,
	}
}
