package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

// ErrDuplicateParticipation signals a second participation for the same
// (activity, employee) pair. The composite unique index guarantees at most
// one row survives under concurrent creation.
var ErrDuplicateParticipation = errors.New("participation already exists for this activity and employee")

// ParticipationRepository defines persistence operations for participations.
type ParticipationRepository interface {
	List(ctx context.Context) ([]models.Participation, error)
	ListByActivity(ctx context.Context, activityID uint) ([]models.Participation, error)
	ListByEmployee(ctx context.Context, employeeID uint) ([]models.Participation, error)
	ListByConfirmer(ctx context.Context, managerID uint) ([]models.Participation, error)
	GetByID(ctx context.Context, id uint) (models.Participation, error)
	ExistsByPair(ctx context.Context, activityID, employeeID uint) (bool, error)
	Create(ctx context.Context, participation *models.Participation) error
	Update(ctx context.Context, participation *models.Participation) error
	Delete(ctx context.Context, id uint) error
	CountByActivityAndStatus(ctx context.Context, activityID uint, status string) (int64, error)
}

type participationRepository struct {
	db *gorm.DB
}

// NewParticipationRepository instantiates a GORM-backed repository.
func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &participationRepository{db: db}
}

func (r *participationRepository) List(ctx context.Context) ([]models.Participation, error) {
	var participations []models.Participation
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&participations).Error; err != nil {
		return nil, err
	}

	return participations, nil
}

func (r *participationRepository) ListByActivity(ctx context.Context, activityID uint) ([]models.Participation, error) {
	var participations []models.Participation
	if err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at ASC").
		Find(&participations).Error; err != nil {
		return nil, err
	}

	return participations, nil
}

func (r *participationRepository) ListByEmployee(ctx context.Context, employeeID uint) ([]models.Participation, error) {
	var participations []models.Participation
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&participations).Error; err != nil {
		return nil, err
	}

	return participations, nil
}

func (r *participationRepository) ListByConfirmer(ctx context.Context, managerID uint) ([]models.Participation, error) {
	var participations []models.Participation
	if err := r.db.WithContext(ctx).
		Where("confirmed_by = ?", managerID).
		Order("created_at DESC").
		Find(&participations).Error; err != nil {
		return nil, err
	}

	return participations, nil
}

func (r *participationRepository) GetByID(ctx context.Context, id uint) (models.Participation, error) {
	var participation models.Participation
	if err := r.db.WithContext(ctx).First(&participation, id).Error; err != nil {
		return models.Participation{}, err
	}

	return participation, nil
}

func (r *participationRepository) ExistsByPair(ctx context.Context, activityID, employeeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("activity_id = ? AND employee_id = ?", activityID, employeeID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *participationRepository) Create(ctx context.Context, participation *models.Participation) error {
	if err := r.db.WithContext(ctx).Create(participation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateParticipation
		}
		return err
	}
	return nil
}

func (r *participationRepository) Update(ctx context.Context, participation *models.Participation) error {
	return r.db.WithContext(ctx).Save(participation).Error
}

func (r *participationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Participation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *participationRepository) CountByActivityAndStatus(ctx context.Context, activityID uint, status string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("activity_id = ? AND status = ?", activityID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
