package dto

import (
	"time"

	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

// DepartmentCreateRequest describes the payload for creating a department.
type DepartmentCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Code        string `json:"code" validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty"`
	ManagerID   *uint  `json:"manager_id" validate:"omitempty,min=1"`
}

// DepartmentUpdateRequest describes the partial-merge payload for a department.
type DepartmentUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Code        *string `json:"code" validate:"omitempty,max=50"`
	Description *string `json:"description"`
	ManagerID   *uint   `json:"manager_id" validate:"omitempty,min=1"`
}

// DepartmentResponse is the serialized representation of a department.
type DepartmentResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	ManagerID   *uint     `json:"manager_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDepartmentResponse converts a model into a DTO.
func NewDepartmentResponse(model models.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          model.ID,
		Name:        model.Name,
		Code:        model.Code,
		Description: model.Description,
		ManagerID:   model.ManagerID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewDepartmentResponseSlice converts a slice of models into DTOs.
func NewDepartmentResponseSlice(departments []models.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		out = append(out, NewDepartmentResponse(department))
	}
	return out
}
