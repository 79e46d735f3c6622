package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
	"github.com/vireo-labs/vireo-hr-api/internal/repository"
)

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type stubActivityRepo struct {
	activities map[uint]models.Activity
	nextID     uint
}

func newStubActivityRepo(activities ...models.Activity) *stubActivityRepo {
	repo := &stubActivityRepo{activities: map[uint]models.Activity{}, nextID: 1}
	for _, activity := range activities {
		if activity.ID >= repo.nextID {
			repo.nextID = activity.ID + 1
		}
		repo.activities[activity.ID] = activity
	}
	return repo
}

func (s *stubActivityRepo) List(ctx context.Context) ([]models.Activity, error) {
	result := make([]models.Activity, 0, len(s.activities))
	for _, activity := range s.activities {
		result = append(result, activity)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *stubActivityRepo) ListByManager(ctx context.Context, managerID uint) ([]models.Activity, error) {
	var result []models.Activity
	for _, activity := range s.activities {
		if activity.ManagerID != nil && *activity.ManagerID == managerID {
			result = append(result, activity)
		}
	}
	return result, nil
}

func (s *stubActivityRepo) ListPendingForManager(ctx context.Context, managerID uint) ([]models.Activity, error) {
	var result []models.Activity
	for _, activity := range s.activities {
		if activity.ManagerID != nil && *activity.ManagerID == managerID && activity.IsPending() {
			result = append(result, activity)
		}
	}
	return result, nil
}

func (s *stubActivityRepo) ListByStatus(ctx context.Context, status string) ([]models.Activity, error) {
	var result []models.Activity
	for _, activity := range s.activities {
		if activity.Status == status {
			result = append(result, activity)
		}
	}
	return result, nil
}

func (s *stubActivityRepo) ListByDepartment(ctx context.Context, departmentID uint) ([]models.Activity, error) {
	var result []models.Activity
	for _, activity := range s.activities {
		if activity.DepartmentID != nil && *activity.DepartmentID == departmentID {
			result = append(result, activity)
		}
	}
	return result, nil
}

func (s *stubActivityRepo) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	activity, ok := s.activities[id]
	if !ok {
		return models.Activity{}, gorm.ErrRecordNotFound
	}
	return activity, nil
}

func (s *stubActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	activity.ID = s.nextID
	s.nextID++
	activity.CreatedAt = time.Now().UTC()
	activity.UpdatedAt = activity.CreatedAt
	s.activities[activity.ID] = *activity
	return nil
}

func (s *stubActivityRepo) Update(ctx context.Context, activity *models.Activity) error {
	if _, ok := s.activities[activity.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	activity.UpdatedAt = time.Now().UTC()
	s.activities[activity.ID] = *activity
	return nil
}

func (s *stubActivityRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := s.activities[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.activities, id)
	return nil
}

func (s *stubActivityRepo) DistinctManagerIDs(ctx context.Context) ([]uint, error) {
	seen := map[uint]struct{}{}
	var ids []uint
	for _, activity := range s.activities {
		if activity.ManagerID == nil {
			continue
		}
		if _, ok := seen[*activity.ManagerID]; ok {
			continue
		}
		seen[*activity.ManagerID] = struct{}{}
		ids = append(ids, *activity.ManagerID)
	}
	return ids, nil
}

type stubParticipationRepo struct {
	participations map[uint]models.Participation
	nextID         uint
}

func newStubParticipationRepo(participations ...models.Participation) *stubParticipationRepo {
	repo := &stubParticipationRepo{participations: map[uint]models.Participation{}, nextID: 1}
	for _, participation := range participations {
		if participation.ID >= repo.nextID {
			repo.nextID = participation.ID + 1
		}
		repo.participations[participation.ID] = participation
	}
	return repo
}

func (s *stubParticipationRepo) List(ctx context.Context) ([]models.Participation, error) {
	result := make([]models.Participation, 0, len(s.participations))
	for _, participation := range s.participations {
		result = append(result, participation)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *stubParticipationRepo) ListByActivity(ctx context.Context, activityID uint) ([]models.Participation, error) {
	var result []models.Participation
	for _, participation := range s.participations {
		if participation.ActivityID == activityID {
			result = append(result, participation)
		}
	}
	return result, nil
}

func (s *stubParticipationRepo) ListByEmployee(ctx context.Context, employeeID uint) ([]models.Participation, error) {
	var result []models.Participation
	for _, participation := range s.participations {
		if participation.EmployeeID == employeeID {
			result = append(result, participation)
		}
	}
	return result, nil
}

func (s *stubParticipationRepo) ListByConfirmer(ctx context.Context, managerID uint) ([]models.Participation, error) {
	var result []models.Participation
	for _, participation := range s.participations {
		if participation.ConfirmedBy == managerID {
			result = append(result, participation)
		}
	}
	return result, nil
}

func (s *stubParticipationRepo) GetByID(ctx context.Context, id uint) (models.Participation, error) {
	participation, ok := s.participations[id]
	if !ok {
		return models.Participation{}, gorm.ErrRecordNotFound
	}
	return participation, nil
}

func (s *stubParticipationRepo) ExistsByPair(ctx context.Context, activityID, employeeID uint) (bool, error) {
	for _, participation := range s.participations {
		if participation.ActivityID == activityID && participation.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubParticipationRepo) Create(ctx context.Context, participation *models.Participation) error {
	exists, _ := s.ExistsByPair(ctx, participation.ActivityID, participation.EmployeeID)
	if exists {
		return repository.ErrDuplicateParticipation
	}
	participation.ID = s.nextID
	s.nextID++
	participation.CreatedAt = time.Now().UTC()
	participation.UpdatedAt = participation.CreatedAt
	s.participations[participation.ID] = *participation
	return nil
}

func (s *stubParticipationRepo) Update(ctx context.Context, participation *models.Participation) error {
	if _, ok := s.participations[participation.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	participation.UpdatedAt = time.Now().UTC()
	s.participations[participation.ID] = *participation
	return nil
}

func (s *stubParticipationRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := s.participations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.participations, id)
	return nil
}

func (s *stubParticipationRepo) CountByActivityAndStatus(ctx context.Context, activityID uint, status string) (int64, error) {
	var count int64
	for _, participation := range s.participations {
		if participation.ActivityID == activityID && participation.Status == status {
			count++
		}
	}
	return count, nil
}

type stubNotificationRepo struct {
	notifications map[uint]models.Notification
	nextID        uint
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{notifications: map[uint]models.Notification{}, nextID: 1}
}

func (s *stubNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = s.nextID
	s.nextID++
	notification.CreatedAt = time.Now().UTC()
	notification.UpdatedAt = notification.CreatedAt
	s.notifications[notification.ID] = *notification
	return nil
}

func (s *stubNotificationRepo) CreateMany(ctx context.Context, notifications []models.Notification) error {
	for i := range notifications {
		if err := s.Create(ctx, &notifications[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubNotificationRepo) ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	var result []models.Notification
	for _, notification := range s.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.Read {
			continue
		}
		result = append(result, notification)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *stubNotificationRepo) GetByID(ctx context.Context, id uint) (models.Notification, error) {
	notification, ok := s.notifications[id]
	if !ok {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	return notification, nil
}

func (s *stubNotificationRepo) MarkRead(ctx context.Context, id, userID uint, readAt time.Time) (models.Notification, error) {
	notification, ok := s.notifications[id]
	if !ok || notification.UserID != userID {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	if !notification.Read {
		notification.Read = true
		notification.ReadAt = &readAt
		s.notifications[id] = notification
	}
	return notification, nil
}

func (s *stubNotificationRepo) MarkAllRead(ctx context.Context, userID uint, readAt time.Time) error {
	for id, notification := range s.notifications {
		if notification.UserID == userID && !notification.Read {
			notification.Read = true
			notification.ReadAt = &readAt
			s.notifications[id] = notification
		}
	}
	return nil
}

func (s *stubNotificationRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	for _, notification := range s.notifications {
		if notification.UserID == userID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (s *stubNotificationRepo) Delete(ctx context.Context, id, userID uint) error {
	notification, ok := s.notifications[id]
	if !ok || notification.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(s.notifications, id)
	return nil
}

func (s *stubNotificationRepo) DeleteAllForUser(ctx context.Context, userID uint) error {
	for id, notification := range s.notifications {
		if notification.UserID == userID {
			delete(s.notifications, id)
		}
	}
	return nil
}

func (s *stubNotificationRepo) byType(userID uint, notificationType string) []models.Notification {
	var result []models.Notification
	for _, notification := range s.notifications {
		if notification.UserID == userID && notification.Type == notificationType {
			result = append(result, notification)
		}
	}
	return result
}

type stubUserRepo struct {
	users map[uint]models.User
}

func newStubUserRepo(users ...models.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[uint]models.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var result []models.User
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}

type stubDepartmentRepo struct {
	departments map[uint]models.Department
}

func newStubDepartmentRepo(departments ...models.Department) *stubDepartmentRepo {
	repo := &stubDepartmentRepo{departments: map[uint]models.Department{}}
	for _, department := range departments {
		repo.departments[department.ID] = department
	}
	return repo
}

func (s *stubDepartmentRepo) List(ctx context.Context) ([]models.Department, error) {
	var result []models.Department
	for _, department := range s.departments {
		result = append(result, department)
	}
	return result, nil
}

func (s *stubDepartmentRepo) GetByID(ctx context.Context, id uint) (models.Department, error) {
	department, ok := s.departments[id]
	if !ok {
		return models.Department{}, gorm.ErrRecordNotFound
	}
	return department, nil
}

func (s *stubDepartmentRepo) GetByIDs(ctx context.Context, ids []uint) ([]models.Department, error) {
	var result []models.Department
	for _, id := range ids {
		if department, ok := s.departments[id]; ok {
			result = append(result, department)
		}
	}
	return result, nil
}

func (s *stubDepartmentRepo) Create(ctx context.Context, department *models.Department) error {
	for _, existing := range s.departments {
		if existing.Code == department.Code {
			return repository.ErrDuplicateDepartmentCode
		}
	}
	department.ID = uint(len(s.departments) + 1)
	s.departments[department.ID] = *department
	return nil
}

func (s *stubDepartmentRepo) Update(ctx context.Context, department *models.Department) error {
	if _, ok := s.departments[department.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.departments[department.ID] = *department
	return nil
}

func (s *stubDepartmentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := s.departments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.departments, id)
	return nil
}

type stubAuditRecorder struct {
	actions []string
}

func (s *stubAuditRecorder) Record(ctx context.Context, actor Actor, action, entityType string, entityID *uint, metadata map[string]interface{}) {
	s.actions = append(s.actions, action)
}

func (s *stubAuditRecorder) List(ctx context.Context, filter repository.AuditLogFilter) (dto.AuditLogListResponse, error) {
	return dto.AuditLogListResponse{}, nil
}

// newTestNotifier returns a real notification service wired against the
// in-memory repo, without redis or nats.
func newTestNotifier(repo repository.NotificationRepository) NotificationService {
	return NewNotificationService(repo, nil, "", nil, testValidator(), zerolog.Nop())
}
