package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
)

// ManagerDashboardService aggregates the manager view: owned activities,
// activities awaiting confirmation, confirmed participations and recent
// notifications. Results are cached per manager; staleness is bounded by the
// cache TTL rather than cross-service invalidation.
type ManagerDashboardService interface {
	GetDashboard(ctx context.Context, managerID uint) (dto.ManagerDashboardResponse, error)
	Refresh(ctx context.Context, managerID uint) (dto.ManagerDashboardResponse, error)
}

type managerDashboardService struct {
	activities     ActivityService
	participations ParticipationService
	notifications  NotificationService
	cache          *redis.Client
	cacheTTL       time.Duration
	logger         zerolog.Logger
	now            func() time.Time
}

// NewManagerDashboardService builds the dashboard aggregator.
func NewManagerDashboardService(activities ActivityService, participations ParticipationService, notifications NotificationService, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ManagerDashboardService {
	return &managerDashboardService{
		activities:     activities,
		participations: participations,
		notifications:  notifications,
		cache:          cache,
		cacheTTL:       ttl,
		logger:         logger.With().Str("component", "manager_dashboard_service").Logger(),
		now:            time.Now,
	}
}

func (s *managerDashboardService) GetDashboard(ctx context.Context, managerID uint) (dto.ManagerDashboardResponse, error) {
	cacheKey := s.cacheKey(managerID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ManagerDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("manager_id", managerID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	return s.Refresh(ctx, managerID)
}

// Refresh rebuilds the dashboard from the stores, bypassing any cached copy,
// and re-primes the cache.
func (s *managerDashboardService) Refresh(ctx context.Context, managerID uint) (dto.ManagerDashboardResponse, error) {
	myActivities, err := s.activities.ListByManager(ctx, managerID)
	if err != nil {
		return dto.ManagerDashboardResponse{}, err
	}

	pendingActivities, err := s.activities.ListPendingForManager(ctx, managerID)
	if err != nil {
		return dto.ManagerDashboardResponse{}, err
	}

	participations, err := s.participations.ListByManager(ctx, managerID)
	if err != nil {
		return dto.ManagerDashboardResponse{}, err
	}

	notifications, err := s.notifications.ListByUser(ctx, managerID, true)
	if err != nil {
		return dto.ManagerDashboardResponse{}, err
	}

	unread, err := s.notifications.CountUnread(ctx, managerID)
	if err != nil {
		return dto.ManagerDashboardResponse{}, err
	}

	response := dto.ManagerDashboardResponse{
		MyActivities:      myActivities,
		PendingActivities: pendingActivities,
		Participations:    participations,
		Notifications:     notifications,
		UnreadCount:       unread,
		RefreshedAt:       s.now().UTC(),
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, s.cacheKey(managerID), payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *managerDashboardService) cacheKey(managerID uint) string {
	return fmt.Sprintf("dashboard:manager:%d", managerID)
}
