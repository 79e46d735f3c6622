package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
	"github.com/vireo-labs/vireo-hr-api/internal/observability"
	"github.com/vireo-labs/vireo-hr-api/internal/repository"
)

// ErrParticipationNotFound indicates the requested participation does not exist.
var ErrParticipationNotFound = errors.New("participation not found")

// ErrParticipationExists indicates the employee is already registered for the activity.
var ErrParticipationExists = errors.New("employee is already registered for this activity")

// ErrJustificationRequired indicates a decline without the mandatory justification.
var ErrJustificationRequired = errors.New("a justification is required when declining")

// ErrInvalidParticipationStatus indicates an unknown status value.
var ErrInvalidParticipationStatus = errors.New("invalid participation status")

// ParticipationService drives the confirm/accept/decline workflow. One
// participation per (activity, employee) pair; pending invitations reserve
// seats so the available-seat count treats PENDING like ACCEPTED.
type ParticipationService interface {
	Create(ctx context.Context, actor Actor, payload dto.ParticipationCreateRequest) (dto.ParticipationResponse, error)
	CreateMany(ctx context.Context, actor Actor, payload dto.ParticipationBulkCreateRequest) (dto.ParticipationBulkCreateResponse, error)
	List(ctx context.Context) ([]dto.ParticipationResponse, error)
	ListByActivity(ctx context.Context, activityID uint) ([]dto.ParticipationResponse, error)
	ListByEmployee(ctx context.Context, employeeID uint) ([]dto.ParticipationResponse, error)
	ListByManager(ctx context.Context, managerID uint) ([]dto.ParticipationResponse, error)
	Get(ctx context.Context, id uint) (dto.ParticipationResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.ParticipationUpdateRequest) (dto.ParticipationResponse, error)
	Accept(ctx context.Context, actor Actor, id uint) (dto.ParticipationResponse, error)
	Decline(ctx context.Context, actor Actor, id uint, justification string) (dto.ParticipationResponse, error)
	Reject(ctx context.Context, actor Actor, id uint) (dto.ParticipationResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	AvailableSeats(ctx context.Context, activityID uint) (dto.AvailableSeatsResponse, error)
}

type participationService struct {
	repo       repository.ParticipationRepository
	activities repository.ActivityRepository
	users      repository.UserRepository
	notifier   NotificationService
	audit      AuditRecorder
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewParticipationService builds the participation workflow service.
func NewParticipationService(repo repository.ParticipationRepository, activities repository.ActivityRepository, users repository.UserRepository, notifier NotificationService, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) ParticipationService {
	return &participationService{
		repo:       repo,
		activities: activities,
		users:      users,
		notifier:   notifier,
		audit:      audit,
		validator:  validate,
		logger:     logger.With().Str("component", "participation_service").Logger(),
		tracer:     otel.Tracer("github.com/vireo-labs/vireo-hr-api/internal/service/participation"),
		now:        time.Now,
	}
}

func (s *participationService) Create(ctx context.Context, actor Actor, payload dto.ParticipationCreateRequest) (dto.ParticipationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ParticipationResponse{}, err
	}

	activity, err := s.activities.GetByID(ctx, payload.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ParticipationResponse{}, ErrActivityNotFound
		}
		return dto.ParticipationResponse{}, err
	}

	confirmedBy := actor.ID
	if payload.ConfirmedBy != nil {
		confirmedBy = *payload.ConfirmedBy
	}

	participation, err := s.insertPending(ctx, payload.ActivityID, payload.EmployeeID, confirmedBy)
	if err != nil {
		return dto.ParticipationResponse{}, err
	}

	s.notifier.NotifyParticipationRequest(ctx, participation.EmployeeID, activity.ID, participation.ID, activity.Title)
	s.audit.Record(ctx, actor, models.AuditActionParticipationCreated, "participation", &participation.ID, map[string]interface{}{
		"activity_id": participation.ActivityID,
		"employee_id": participation.EmployeeID,
	})
	observability.WorkflowTransitionsTotal().WithLabelValues("participation", "created").Inc()
	s.logger.Info().
		Uint("participation_id", participation.ID).
		Uint("activity_id", participation.ActivityID).
		Uint("employee_id", participation.EmployeeID).
		Msg("participation created")

	return s.populateOne(ctx, participation)
}

// CreateMany inserts one pending participation per employee, best effort: a
// failing row (typically a duplicate) is reported and never rolls back its
// siblings.
func (s *participationService) CreateMany(ctx context.Context, actor Actor, payload dto.ParticipationBulkCreateRequest) (dto.ParticipationBulkCreateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ParticipationBulkCreateResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "participations.create_many", trace.WithAttributes(
		attribute.Int64("participation.activity_id", int64(payload.ActivityID)),
		attribute.Int("participation.batch_size", len(payload.EmployeeIDs)),
	))
	defer span.End()

	activity, err := s.activities.GetByID(spanCtx, payload.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ParticipationBulkCreateResponse{}, ErrActivityNotFound
		}
		span.RecordError(err)
		return dto.ParticipationBulkCreateResponse{}, err
	}

	result := dto.ParticipationBulkCreateResponse{
		Created: make([]dto.ParticipationResponse, 0, len(payload.EmployeeIDs)),
		Failed:  make([]dto.BulkCreateFailure, 0),
	}

	for _, employeeID := range payload.EmployeeIDs {
		participation, err := s.insertPending(spanCtx, payload.ActivityID, employeeID, actor.ID)
		if err != nil {
			result.Failed = append(result.Failed, dto.BulkCreateFailure{
				EmployeeID: employeeID,
				Reason:     err.Error(),
			})
			continue
		}

		s.notifier.NotifyParticipationRequest(spanCtx, employeeID, activity.ID, participation.ID, activity.Title)
		response, err := s.populateOne(spanCtx, participation)
		if err != nil {
			return result, err
		}
		result.Created = append(result.Created, response)
	}

	s.audit.Record(spanCtx, actor, models.AuditActionParticipationCreated, "activity", &activity.ID, map[string]interface{}{
		"batch_size": len(payload.EmployeeIDs),
		"created":    len(result.Created),
		"failed":     len(result.Failed),
	})
	s.logger.Info().
		Uint("activity_id", activity.ID).
		Int("created", len(result.Created)).
		Int("failed", len(result.Failed)).
		Msg("bulk participation insert finished")

	return result, nil
}

func (s *participationService) insertPending(ctx context.Context, activityID, employeeID, confirmedBy uint) (models.Participation, error) {
	exists, err := s.repo.ExistsByPair(ctx, activityID, employeeID)
	if err != nil {
		return models.Participation{}, err
	}
	if exists {
		return models.Participation{}, ErrParticipationExists
	}

	participation := models.Participation{
		ActivityID:  activityID,
		EmployeeID:  employeeID,
		Status:      models.ParticipationStatusPending,
		ConfirmedBy: confirmedBy,
	}

	if err := s.repo.Create(ctx, &participation); err != nil {
		// The unique index catches races the pre-check missed.
		if errors.Is(err, repository.ErrDuplicateParticipation) {
			return models.Participation{}, ErrParticipationExists
		}
		return models.Participation{}, err
	}

	return participation, nil
}

func (s *participationService) List(ctx context.Context) ([]dto.ParticipationResponse, error) {
	participations, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, participations)
}

func (s *participationService) ListByActivity(ctx context.Context, activityID uint) ([]dto.ParticipationResponse, error) {
	participations, err := s.repo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, participations)
}

func (s *participationService) ListByEmployee(ctx context.Context, employeeID uint) ([]dto.ParticipationResponse, error) {
	participations, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, participations)
}

func (s *participationService) ListByManager(ctx context.Context, managerID uint) ([]dto.ParticipationResponse, error) {
	participations, err := s.repo.ListByConfirmer(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, participations)
}

func (s *participationService) Get(ctx context.Context, id uint) (dto.ParticipationResponse, error) {
	participation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ParticipationResponse{}, ErrParticipationNotFound
		}
		return dto.ParticipationResponse{}, err
	}
	return s.populateOne(ctx, participation)
}

// Update applies a status transition. Declining requires a justification; any
// update stamps the response time.
func (s *participationService) Update(ctx context.Context, actor Actor, id uint, payload dto.ParticipationUpdateRequest) (dto.ParticipationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ParticipationResponse{}, err
	}

	participation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ParticipationResponse{}, ErrParticipationNotFound
		}
		return dto.ParticipationResponse{}, err
	}

	if payload.Status != nil {
		if !models.ValidParticipationStatus(*payload.Status) {
			return dto.ParticipationResponse{}, ErrInvalidParticipationStatus
		}
		if *payload.Status == models.ParticipationStatusDeclined &&
			(payload.Justification == nil || *payload.Justification == "") {
			return dto.ParticipationResponse{}, ErrJustificationRequired
		}
		participation.Status = *payload.Status
	}
	if payload.Justification != nil {
		participation.Justification = *payload.Justification
	}

	respondedAt := s.now().UTC()
	participation.RespondedAt = &respondedAt

	if err := s.repo.Update(ctx, &participation); err != nil {
		return dto.ParticipationResponse{}, err
	}

	s.notifyResponse(ctx, participation)
	s.audit.Record(ctx, actor, models.AuditActionParticipationUpdated, "participation", &participation.ID, map[string]interface{}{
		"status": participation.Status,
	})
	observability.WorkflowTransitionsTotal().WithLabelValues("participation", "updated").Inc()
	s.logger.Info().
		Uint("participation_id", participation.ID).
		Str("status", participation.Status).
		Msg("participation updated")

	return s.populateOne(ctx, participation)
}

func (s *participationService) Accept(ctx context.Context, actor Actor, id uint) (dto.ParticipationResponse, error) {
	status := models.ParticipationStatusAccepted
	return s.Update(ctx, actor, id, dto.ParticipationUpdateRequest{Status: &status})
}

func (s *participationService) Decline(ctx context.Context, actor Actor, id uint, justification string) (dto.ParticipationResponse, error) {
	status := models.ParticipationStatusDeclined
	return s.Update(ctx, actor, id, dto.ParticipationUpdateRequest{Status: &status, Justification: &justification})
}

func (s *participationService) Reject(ctx context.Context, actor Actor, id uint) (dto.ParticipationResponse, error) {
	status := models.ParticipationStatusRejectedByManager
	return s.Update(ctx, actor, id, dto.ParticipationUpdateRequest{Status: &status})
}

func (s *participationService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipationNotFound
		}
		return err
	}

	s.audit.Record(ctx, actor, models.AuditActionParticipationDeleted, "participation", &id, nil)
	s.logger.Info().Uint("participation_id", id).Msg("participation deleted")
	return nil
}

// AvailableSeats reports max − accepted − pending. The value is deliberately
// not clamped at zero; callers decide how to react to over-booking.
func (s *participationService) AvailableSeats(ctx context.Context, activityID uint) (dto.AvailableSeatsResponse, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AvailableSeatsResponse{}, ErrActivityNotFound
		}
		return dto.AvailableSeatsResponse{}, err
	}

	accepted, err := s.repo.CountByActivityAndStatus(ctx, activityID, models.ParticipationStatusAccepted)
	if err != nil {
		return dto.AvailableSeatsResponse{}, err
	}
	pending, err := s.repo.CountByActivityAndStatus(ctx, activityID, models.ParticipationStatusPending)
	if err != nil {
		return dto.AvailableSeatsResponse{}, err
	}

	return dto.AvailableSeatsResponse{
		ActivityID:      activityID,
		MaxParticipants: activity.MaxParticipants,
		Accepted:        accepted,
		Pending:         pending,
		AvailableSeats:  int64(activity.MaxParticipants) - accepted - pending,
	}, nil
}

// notifyResponse emits the counterpart notifications for an employee
// response. Failures are logged inside the notifier and never surface here.
func (s *participationService) notifyResponse(ctx context.Context, participation models.Participation) {
	accepted := participation.Status == models.ParticipationStatusAccepted
	declined := participation.Status == models.ParticipationStatusDeclined
	if !accepted && !declined {
		return
	}

	activity, err := s.activities.GetByID(ctx, participation.ActivityID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("activity_id", participation.ActivityID).Msg("skipping response notification, activity lookup failed")
		return
	}

	employeeName := "An employee"
	if employee, err := s.users.GetByID(ctx, participation.EmployeeID); err == nil {
		employeeName = employee.Name
	}

	s.notifier.NotifyParticipationResponse(ctx, participation.ConfirmedBy, participation.ID, employeeName, activity.Title, accepted)

	if declined {
		seats, err := s.AvailableSeats(ctx, participation.ActivityID)
		if err != nil {
			s.logger.Warn().Err(err).Uint("activity_id", participation.ActivityID).Msg("skipping seats notification, seat count failed")
			return
		}
		if seats.AvailableSeats > 0 {
			s.notifier.NotifySeatsAvailable(ctx, participation.ConfirmedBy, activity.ID, activity.Title, seats.AvailableSeats)
		}
	}
}

// populate resolves activity/employee/confirmer projections with batched lookups.
func (s *participationService) populate(ctx context.Context, participations []models.Participation) ([]dto.ParticipationResponse, error) {
	activityIDs := make([]uint, 0, len(participations))
	userIDs := make([]uint, 0, 2*len(participations))
	seenActivities := map[uint]struct{}{}
	seenUsers := map[uint]struct{}{}

	for _, participation := range participations {
		if _, ok := seenActivities[participation.ActivityID]; !ok {
			seenActivities[participation.ActivityID] = struct{}{}
			activityIDs = append(activityIDs, participation.ActivityID)
		}
		for _, id := range []uint{participation.EmployeeID, participation.ConfirmedBy} {
			if _, ok := seenUsers[id]; !ok {
				seenUsers[id] = struct{}{}
				userIDs = append(userIDs, id)
			}
		}
	}

	activityRefs := make(map[uint]*dto.ActivityRef, len(activityIDs))
	for _, id := range activityIDs {
		activity, err := s.activities.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		activityRefs[id] = dto.NewActivityRef(activity)
	}

	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userRefs := make(map[uint]*dto.UserRef, len(users))
	for _, user := range users {
		userRefs[user.ID] = dto.NewUserRef(user)
	}

	responses := make([]dto.ParticipationResponse, 0, len(participations))
	for _, participation := range participations {
		responses = append(responses, dto.NewParticipationResponse(
			participation,
			activityRefs[participation.ActivityID],
			userRefs[participation.EmployeeID],
			userRefs[participation.ConfirmedBy],
		))
	}

	return responses, nil
}

func (s *participationService) populateOne(ctx context.Context, participation models.Participation) (dto.ParticipationResponse, error) {
	responses, err := s.populate(ctx, []models.Participation{participation})
	if err != nil {
		return dto.ParticipationResponse{}, err
	}
	return responses[0], nil
}
