package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
	"github.com/vireo-labs/vireo-hr-api/internal/observability"
	"github.com/vireo-labs/vireo-hr-api/internal/repository"
)

// ErrActivityNotFound indicates the requested activity does not exist.
var ErrActivityNotFound = errors.New("activity not found")

// ErrInvalidActivityStatus indicates an unknown lifecycle status value.
var ErrInvalidActivityStatus = errors.New("invalid activity status")

// ErrManagerNotFound indicates a forward target that does not exist.
var ErrManagerNotFound = errors.New("manager not found")

// ActivityService exposes the activity lifecycle use cases: HR creates, HR
// forwards to a manager, HR/manager/admin drive the status. Status overwrites
// are deliberately unrestricted beyond enum membership; any status may follow
// any status (administrative override semantics).
type ActivityService interface {
	Create(ctx context.Context, actor Actor, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error)
	List(ctx context.Context) ([]dto.ActivityResponse, error)
	Get(ctx context.Context, id uint) (dto.ActivityResponse, error)
	ListByManager(ctx context.Context, managerID uint) ([]dto.ActivityResponse, error)
	ListPendingForManager(ctx context.Context, managerID uint) ([]dto.ActivityResponse, error)
	ListByStatus(ctx context.Context, status string) ([]dto.ActivityResponse, error)
	ListByDepartment(ctx context.Context, departmentID uint) ([]dto.ActivityResponse, error)
	Update(ctx context.Context, id uint, payload dto.ActivityUpdateRequest) (dto.ActivityResponse, error)
	Forward(ctx context.Context, actor Actor, id, managerID uint) (dto.ActivityResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id uint, status string) (dto.ActivityResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type activityService struct {
	repo        repository.ActivityRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	notifier    NotificationService
	audit       AuditRecorder
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewActivityService builds the activity lifecycle service.
func NewActivityService(repo repository.ActivityRepository, departments repository.DepartmentRepository, users repository.UserRepository, notifier NotificationService, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:        repo,
		departments: departments,
		users:       users,
		notifier:    notifier,
		audit:       audit,
		validator:   validate,
		logger:      logger.With().Str("component", "activity_service").Logger(),
		tracer:      otel.Tracer("github.com/vireo-labs/vireo-hr-api/internal/service/activity"),
	}
}

func (s *activityService) Create(ctx context.Context, actor Actor, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	startDate, err := time.Parse(time.RFC3339, payload.StartDate)
	if err != nil {
		return dto.ActivityResponse{}, fmt.Errorf("invalid start date: %w", err)
	}

	var endDate *time.Time
	if payload.EndDate != nil {
		parsed, err := time.Parse(time.RFC3339, *payload.EndDate)
		if err != nil {
			return dto.ActivityResponse{}, fmt.Errorf("invalid end date: %w", err)
		}
		endDate = &parsed
	}

	priority := payload.Priority
	if priority == "" {
		priority = models.ActivityPriorityConsolidate
	}

	createdBy := actor.ID
	activity := models.Activity{
		Title:           payload.Title,
		Description:     payload.Description,
		Type:            payload.Type,
		DepartmentID:    payload.DepartmentID,
		CreatedBy:       &createdBy,
		RequiredSkills:  datatypes.NewJSONSlice(toRequiredSkills(payload.RequiredSkills)),
		MaxParticipants: payload.MaxParticipants,
		StartDate:       startDate,
		EndDate:         endDate,
		Location:        payload.Location,
		Priority:        priority,
		Status:          models.ActivityStatusCreated,
		DurationHours:   payload.DurationHours,
	}

	if err := s.repo.Create(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.audit.Record(ctx, actor, models.AuditActionActivityCreated, "activity", &activity.ID, map[string]interface{}{
		"title": activity.Title,
		"type":  activity.Type,
	})
	observability.WorkflowTransitionsTotal().WithLabelValues("activity", "created").Inc()
	s.logger.Info().Uint("activity_id", activity.ID).Msg("activity created")

	return s.populateOne(ctx, activity)
}

func (s *activityService) List(ctx context.Context) ([]dto.ActivityResponse, error) {
	activities, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return s.populate(ctx, activities)
}

func (s *activityService) Get(ctx context.Context, id uint) (dto.ActivityResponse, error) {
	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}

	return s.populateOne(ctx, activity)
}

func (s *activityService) ListByManager(ctx context.Context, managerID uint) ([]dto.ActivityResponse, error) {
	activities, err := s.repo.ListByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	return s.populate(ctx, activities)
}

func (s *activityService) ListPendingForManager(ctx context.Context, managerID uint) ([]dto.ActivityResponse, error) {
	activities, err := s.repo.ListPendingForManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	return s.populate(ctx, activities)
}

func (s *activityService) ListByStatus(ctx context.Context, status string) ([]dto.ActivityResponse, error) {
	if !models.ValidActivityStatus(status) {
		return nil, ErrInvalidActivityStatus
	}

	activities, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	return s.populate(ctx, activities)
}

func (s *activityService) ListByDepartment(ctx context.Context, departmentID uint) ([]dto.ActivityResponse, error) {
	activities, err := s.repo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	return s.populate(ctx, activities)
}

func (s *activityService) Update(ctx context.Context, id uint, payload dto.ActivityUpdateRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}

	if payload.Title != nil {
		activity.Title = *payload.Title
	}
	if payload.Description != nil {
		activity.Description = *payload.Description
	}
	if payload.Type != nil {
		activity.Type = *payload.Type
	}
	if payload.DepartmentID != nil {
		activity.DepartmentID = payload.DepartmentID
	}
	if payload.RequiredSkills != nil {
		activity.RequiredSkills = datatypes.NewJSONSlice(toRequiredSkills(payload.RequiredSkills))
	}
	if payload.MaxParticipants != nil {
		activity.MaxParticipants = *payload.MaxParticipants
	}
	if payload.StartDate != nil {
		startDate, err := time.Parse(time.RFC3339, *payload.StartDate)
		if err != nil {
			return dto.ActivityResponse{}, fmt.Errorf("invalid start date: %w", err)
		}
		activity.StartDate = startDate
	}
	if payload.EndDate != nil {
		endDate, err := time.Parse(time.RFC3339, *payload.EndDate)
		if err != nil {
			return dto.ActivityResponse{}, fmt.Errorf("invalid end date: %w", err)
		}
		activity.EndDate = &endDate
	}
	if payload.Location != nil {
		activity.Location = *payload.Location
	}
	if payload.Priority != nil {
		activity.Priority = *payload.Priority
	}
	if payload.DurationHours != nil {
		activity.DurationHours = *payload.DurationHours
	}

	if err := s.repo.Update(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activity.ID).Msg("activity updated")

	return s.populateOne(ctx, activity)
}

// Forward assigns the owning manager and moves the activity to IN_PROGRESS.
// Forwarding twice is allowed; the latest manager wins.
func (s *activityService) Forward(ctx context.Context, actor Actor, id, managerID uint) (dto.ActivityResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "activities.forward", trace.WithAttributes(
		attribute.Int64("activity.id", int64(id)),
		attribute.Int64("activity.manager_id", int64(managerID)),
	))
	defer span.End()

	activity, err := s.repo.GetByID(spanCtx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		span.RecordError(err)
		return dto.ActivityResponse{}, err
	}

	if _, err := s.users.GetByID(spanCtx, managerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrManagerNotFound
		}
		span.RecordError(err)
		return dto.ActivityResponse{}, err
	}

	activity.ManagerID = &managerID
	activity.Status = models.ActivityStatusInProgress

	if err := s.repo.Update(spanCtx, &activity); err != nil {
		span.RecordError(err)
		return dto.ActivityResponse{}, err
	}

	s.notifier.NotifyActivityForwarded(spanCtx, managerID, activity.ID, activity.Title)
	s.audit.Record(spanCtx, actor, models.AuditActionActivityForwarded, "activity", &activity.ID, map[string]interface{}{
		"manager_id": managerID,
	})
	observability.WorkflowTransitionsTotal().WithLabelValues("activity", "forwarded").Inc()
	s.logger.Info().Uint("activity_id", activity.ID).Uint("manager_id", managerID).Msg("activity forwarded to manager")

	return s.populateOne(spanCtx, activity)
}

// UpdateStatus overwrites the lifecycle status without consulting a transition
// table. Enum membership is the only check.
func (s *activityService) UpdateStatus(ctx context.Context, actor Actor, id uint, status string) (dto.ActivityResponse, error) {
	if !models.ValidActivityStatus(status) {
		return dto.ActivityResponse{}, ErrInvalidActivityStatus
	}

	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}

	previous := activity.Status
	activity.Status = status

	if err := s.repo.Update(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	if activity.ManagerID != nil {
		s.notifier.NotifyActivityStatus(ctx, *activity.ManagerID, activity.ID, activity.Title, status)
	}
	s.audit.Record(ctx, actor, models.AuditActionActivityStatusChanged, "activity", &activity.ID, map[string]interface{}{
		"from": previous,
		"to":   status,
	})
	observability.WorkflowTransitionsTotal().WithLabelValues("activity", "status_changed").Inc()
	s.logger.Info().Uint("activity_id", activity.ID).Str("from", previous).Str("to", status).Msg("activity status updated")

	return s.populateOne(ctx, activity)
}

// Delete hard-deletes the activity. Participations and notifications
// referencing it are kept; references are weak by design.
func (s *activityService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return err
	}

	s.audit.Record(ctx, actor, models.AuditActionActivityDeleted, "activity", &id, nil)
	s.logger.Info().Uint("activity_id", id).Msg("activity deleted")
	return nil
}

// populate resolves department/creator/manager projections with two batched
// lookups instead of per-row queries.
func (s *activityService) populate(ctx context.Context, activities []models.Activity) ([]dto.ActivityResponse, error) {
	departmentIDs := make([]uint, 0, len(activities))
	userIDs := make([]uint, 0, 2*len(activities))
	seenDepartments := map[uint]struct{}{}
	seenUsers := map[uint]struct{}{}

	collectUser := func(id *uint) {
		if id == nil {
			return
		}
		if _, ok := seenUsers[*id]; !ok {
			seenUsers[*id] = struct{}{}
			userIDs = append(userIDs, *id)
		}
	}

	for _, activity := range activities {
		if activity.DepartmentID != nil {
			if _, ok := seenDepartments[*activity.DepartmentID]; !ok {
				seenDepartments[*activity.DepartmentID] = struct{}{}
				departmentIDs = append(departmentIDs, *activity.DepartmentID)
			}
		}
		collectUser(activity.CreatedBy)
		collectUser(activity.ManagerID)
	}

	departments, err := s.departments.GetByIDs(ctx, departmentIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	departmentRefs := make(map[uint]*dto.DepartmentRef, len(departments))
	for _, department := range departments {
		departmentRefs[department.ID] = dto.NewDepartmentRef(department)
	}
	userRefs := make(map[uint]*dto.UserRef, len(users))
	for _, user := range users {
		userRefs[user.ID] = dto.NewUserRef(user)
	}

	responses := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		var department *dto.DepartmentRef
		if activity.DepartmentID != nil {
			department = departmentRefs[*activity.DepartmentID]
		}
		var creator, manager *dto.UserRef
		if activity.CreatedBy != nil {
			creator = userRefs[*activity.CreatedBy]
		}
		if activity.ManagerID != nil {
			manager = userRefs[*activity.ManagerID]
		}
		responses = append(responses, dto.NewActivityResponse(activity, department, creator, manager))
	}

	return responses, nil
}

func (s *activityService) populateOne(ctx context.Context, activity models.Activity) (dto.ActivityResponse, error) {
	responses, err := s.populate(ctx, []models.Activity{activity})
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	return responses[0], nil
}

func toRequiredSkills(payloads []dto.RequiredSkillPayload) []models.RequiredSkill {
	skills := make([]models.RequiredSkill, 0, len(payloads))
	for _, payload := range payloads {
		skills = append(skills, models.RequiredSkill{
			Name:   payload.Name,
			Type:   payload.Type,
			Level:  payload.Level,
			Weight: payload.Weight,
		})
	}
	return skills
}
