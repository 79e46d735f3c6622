package models

import "time"

// User is a read model over the identity store. Authentication and account
// lifecycle belong to the external auth collaborator; this table only serves
// reference lookups when composing activity and participation responses.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Matricule    string    `gorm:"size:64;index" json:"matricule"`
	Role         string    `gorm:"size:32;not null" json:"role"`
	DepartmentID *uint     `gorm:"index" json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Workflow roles carried in JWT claims.
const (
	RoleHR       = "HR"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)
