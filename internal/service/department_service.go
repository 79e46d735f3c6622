package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
	"github.com/vireo-labs/vireo-hr-api/internal/repository"
)

// ErrDepartmentNotFound indicates the requested department does not exist.
var ErrDepartmentNotFound = errors.New("department not found")

// ErrDepartmentCodeExists indicates another department already uses the code.
var ErrDepartmentCodeExists = errors.New("department code already in use")

// DepartmentService manages organisational units referenced by activities.
type DepartmentService interface {
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
	Get(ctx context.Context, id uint) (dto.DepartmentResponse, error)
	Create(ctx context.Context, payload dto.DepartmentCreateRequest) (dto.DepartmentResponse, error)
	Update(ctx context.Context, id uint, payload dto.DepartmentUpdateRequest) (dto.DepartmentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type departmentService struct {
	repo      repository.DepartmentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDepartmentService builds the department service.
func NewDepartmentService(repo repository.DepartmentRepository, validate *validator.Validate, logger zerolog.Logger) DepartmentService {
	return &departmentService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "department_service").Logger(),
	}
}

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewDepartmentResponseSlice(departments), nil
}

func (s *departmentService) Get(ctx context.Context, id uint) (dto.DepartmentResponse, error) {
	department, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartmentResponse{}, ErrDepartmentNotFound
		}
		return dto.DepartmentResponse{}, err
	}
	return dto.NewDepartmentResponse(department), nil
}

func (s *departmentService) Create(ctx context.Context, payload dto.DepartmentCreateRequest) (dto.DepartmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DepartmentResponse{}, err
	}

	department := models.Department{
		Name:        payload.Name,
		Code:        payload.Code,
		Description: payload.Description,
		ManagerID:   payload.ManagerID,
	}

	if err := s.repo.Create(ctx, &department); err != nil {
		if errors.Is(err, repository.ErrDuplicateDepartmentCode) {
			return dto.DepartmentResponse{}, ErrDepartmentCodeExists
		}
		return dto.DepartmentResponse{}, err
	}

	s.logger.Info().Uint("department_id", department.ID).Str("code", department.Code).Msg("department created")
	return dto.NewDepartmentResponse(department), nil
}

func (s *departmentService) Update(ctx context.Context, id uint, payload dto.DepartmentUpdateRequest) (dto.DepartmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DepartmentResponse{}, err
	}

	department, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartmentResponse{}, ErrDepartmentNotFound
		}
		return dto.DepartmentResponse{}, err
	}

	if payload.Name != nil {
		department.Name = *payload.Name
	}
	if payload.Code != nil {
		department.Code = *payload.Code
	}
	if payload.Description != nil {
		department.Description = *payload.Description
	}
	if payload.ManagerID != nil {
		department.ManagerID = payload.ManagerID
	}

	if err := s.repo.Update(ctx, &department); err != nil {
		if errors.Is(err, repository.ErrDuplicateDepartmentCode) {
			return dto.DepartmentResponse{}, ErrDepartmentCodeExists
		}
		return dto.DepartmentResponse{}, err
	}

	return dto.NewDepartmentResponse(department), nil
}

func (s *departmentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}
	s.logger.Info().Uint("department_id", id).Msg("department deleted")
	return nil
}
