package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

// ErrDuplicateDepartmentCode signals a department code collision.
var ErrDuplicateDepartmentCode = errors.New("department code already exists")

// DepartmentRepository defines persistence operations for reference departments.
type DepartmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	GetByID(ctx context.Context, id uint) (models.Department, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id uint) error
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository instantiates a GORM-backed repository.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) List(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, err
	}

	return departments, nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id uint) (models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return models.Department{}, err
	}

	return department, nil
}

func (r *departmentRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Department, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var departments []models.Department
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&departments).Error; err != nil {
		return nil, err
	}

	return departments, nil
}

func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	if err := r.db.WithContext(ctx).Create(department).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateDepartmentCode
		}
		return err
	}
	return nil
}

func (r *departmentRepository) Update(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Save(department).Error
}

func (r *departmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Department{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
