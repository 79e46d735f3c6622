package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/vireo-labs/vireo-hr-api/internal/observability"
	"github.com/vireo-labs/vireo-hr-api/internal/repository"
)

// DashboardRefresher periodically re-primes the manager dashboard cache so
// managers see fresh data without polling. A single run is in flight at a
// time; a tick that fires while the previous run is still working is skipped.
type DashboardRefresher struct {
	dashboards ManagerDashboardService
	activities repository.ActivityRepository
	interval   time.Duration
	logger     zerolog.Logger
	inFlight   atomic.Bool
}

// NewDashboardRefresher builds the background refresher. The interval falls
// back to 30 seconds when non-positive.
func NewDashboardRefresher(dashboards ManagerDashboardService, activities repository.ActivityRepository, interval time.Duration, logger zerolog.Logger) *DashboardRefresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &DashboardRefresher{
		dashboards: dashboards,
		activities: activities,
		interval:   interval,
		logger:     logger.With().Str("component", "dashboard_refresher").Logger(),
	}
}

// Start runs the refresh loop until ctx is cancelled. Call in a goroutine.
func (r *DashboardRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", r.interval).Msg("dashboard refresher started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("dashboard refresher stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *DashboardRefresher) runOnce(ctx context.Context) {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.logger.Debug().Msg("previous refresh still running, skipping tick")
		return
	}
	defer r.inFlight.Store(false)

	managerIDs, err := r.activities.DistinctManagerIDs(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to list managers for refresh")
		return
	}

	for _, managerID := range managerIDs {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.dashboards.Refresh(ctx, managerID); err != nil {
			r.logger.Warn().Err(err).Uint("manager_id", managerID).Msg("dashboard refresh failed")
			continue
		}
		observability.DashboardRefreshesTotal().WithLabelValues("interval").Inc()
	}
}
