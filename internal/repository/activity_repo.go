package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

// ActivityRepository defines persistence operations for activities.
type ActivityRepository interface {
	List(ctx context.Context) ([]models.Activity, error)
	ListByManager(ctx context.Context, managerID uint) ([]models.Activity, error)
	ListPendingForManager(ctx context.Context, managerID uint) ([]models.Activity, error)
	ListByStatus(ctx context.Context, status string) ([]models.Activity, error)
	ListByDepartment(ctx context.Context, departmentID uint) ([]models.Activity, error)
	GetByID(ctx context.Context, id uint) (models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id uint) error
	DistinctManagerIDs(ctx context.Context) ([]uint, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository instantiates a GORM-backed repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) List(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.db.WithContext(ctx).Order("start_date DESC").Find(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) ListByManager(ctx context.Context, managerID uint) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("start_date DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) ListPendingForManager(ctx context.Context, managerID uint) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.db.WithContext(ctx).
		Where("manager_id = ? AND status IN ?", managerID, []string{models.ActivityStatusValidated, models.ActivityStatusInProgress}).
		Order("start_date ASC").
		Find(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) ListByStatus(ctx context.Context, status string) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("start_date DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) ListByDepartment(ctx context.Context, departmentID uint) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("start_date DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).First(&activity, id).Error; err != nil {
		return models.Activity{}, err
	}

	return activity, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *activityRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Activity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *activityRepository) DistinctManagerIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("manager_id IS NOT NULL").
		Distinct("manager_id").
		Pluck("manager_id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}
