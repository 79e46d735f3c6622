package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

type recordingDashboardService struct {
	mu        sync.Mutex
	refreshed []uint
}

func (r *recordingDashboardService) GetDashboard(ctx context.Context, managerID uint) (dto.ManagerDashboardResponse, error) {
	return dto.ManagerDashboardResponse{}, nil
}

func (r *recordingDashboardService) Refresh(ctx context.Context, managerID uint) (dto.ManagerDashboardResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshed = append(r.refreshed, managerID)
	return dto.ManagerDashboardResponse{}, nil
}

func (r *recordingDashboardService) snapshot() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint(nil), r.refreshed...)
}

func TestDashboardRefresherPrimesEveryManager(t *testing.T) {
	managerA := uint(7)
	managerB := uint(8)
	activities := newStubActivityRepo(
		models.Activity{ID: 1, Title: "A", Description: "d", Type: models.ActivityTypeFormation, ManagerID: &managerA, MaxParticipants: 2, StartDate: time.Now(), Status: models.ActivityStatusInProgress},
		models.Activity{ID: 2, Title: "B", Description: "d", Type: models.ActivityTypeFormation, ManagerID: &managerB, MaxParticipants: 2, StartDate: time.Now(), Status: models.ActivityStatusValidated},
		models.Activity{ID: 3, Title: "C", Description: "d", Type: models.ActivityTypeFormation, MaxParticipants: 2, StartDate: time.Now(), Status: models.ActivityStatusCreated},
	)
	dashboards := &recordingDashboardService{}

	refresher := NewDashboardRefresher(dashboards, activities, time.Minute, zerolog.Nop())
	refresher.runOnce(context.Background())

	require.ElementsMatch(t, []uint{7, 8}, dashboards.snapshot())
}

func TestDashboardRefresherStopsOnCancel(t *testing.T) {
	activities := newStubActivityRepo()
	dashboards := &recordingDashboardService{}

	refresher := NewDashboardRefresher(dashboards, activities, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		refresher.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after cancellation")
	}
}

func TestDashboardRefresherSkipsOverlappingRuns(t *testing.T) {
	activities := newStubActivityRepo()
	dashboards := &recordingDashboardService{}

	refresher := NewDashboardRefresher(dashboards, activities, time.Minute, zerolog.Nop())
	refresher.inFlight.Store(true)

	refresher.runOnce(context.Background())
	require.Empty(t, dashboards.snapshot())
}
