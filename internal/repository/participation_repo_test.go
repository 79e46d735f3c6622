package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

func setupWorkflowDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Activity{}, &models.Participation{}))
	return db
}

func TestParticipationRepositoryUniquePair(t *testing.T) {
	db := setupWorkflowDB(t)
	repo := NewParticipationRepository(db)
	ctx := context.Background()

	first := models.Participation{ActivityID: 9001, EmployeeID: 9101, Status: models.ParticipationStatusPending, ConfirmedBy: 1}
	require.NoError(t, repo.Create(ctx, &first))

	duplicate := models.Participation{ActivityID: 9001, EmployeeID: 9101, Status: models.ParticipationStatusPending, ConfirmedBy: 2}
	err := repo.Create(ctx, &duplicate)
	require.ErrorIs(t, err, ErrDuplicateParticipation)

	// Same employee on a different activity is fine.
	other := models.Participation{ActivityID: 9002, EmployeeID: 9101, Status: models.ParticipationStatusPending, ConfirmedBy: 1}
	require.NoError(t, repo.Create(ctx, &other))

	exists, err := repo.ExistsByPair(ctx, 9001, 9101)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByPair(ctx, 9001, 9999)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestParticipationRepositoryCountByStatus(t *testing.T) {
	db := setupWorkflowDB(t)
	repo := NewParticipationRepository(db)
	ctx := context.Background()

	activityID := uint(9100)
	seed := []models.Participation{
		{ActivityID: activityID, EmployeeID: 9201, Status: models.ParticipationStatusAccepted, ConfirmedBy: 1},
		{ActivityID: activityID, EmployeeID: 9202, Status: models.ParticipationStatusAccepted, ConfirmedBy: 1},
		{ActivityID: activityID, EmployeeID: 9203, Status: models.ParticipationStatusPending, ConfirmedBy: 1},
		{ActivityID: activityID, EmployeeID: 9204, Status: models.ParticipationStatusDeclined, ConfirmedBy: 1},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	accepted, err := repo.CountByActivityAndStatus(ctx, activityID, models.ParticipationStatusAccepted)
	require.NoError(t, err)
	require.Equal(t, int64(2), accepted)

	pending, err := repo.CountByActivityAndStatus(ctx, activityID, models.ParticipationStatusPending)
	require.NoError(t, err)
	require.Equal(t, int64(1), pending)
}

func TestParticipationRepositoryDeleteMissing(t *testing.T) {
	db := setupWorkflowDB(t)
	repo := NewParticipationRepository(db)

	err := repo.Delete(context.Background(), 987654)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestActivityRepositoryPendingForManager(t *testing.T) {
	db := setupWorkflowDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	managerID := uint(9301)
	now := time.Now().UTC()
	seed := []models.Activity{
		{Title: "Later", Description: "d", Type: models.ActivityTypeFormation, ManagerID: &managerID, MaxParticipants: 3, StartDate: now.Add(48 * time.Hour), Status: models.ActivityStatusValidated},
		{Title: "Sooner", Description: "d", Type: models.ActivityTypeFormation, ManagerID: &managerID, MaxParticipants: 3, StartDate: now.Add(24 * time.Hour), Status: models.ActivityStatusInProgress},
		{Title: "Done", Description: "d", Type: models.ActivityTypeFormation, ManagerID: &managerID, MaxParticipants: 3, StartDate: now, Status: models.ActivityStatusCompleted},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	pending, err := repo.ListPendingForManager(ctx, managerID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "Sooner", pending[0].Title, "expected earliest start date first")

	ids, err := repo.DistinctManagerIDs(ctx)
	require.NoError(t, err)
	require.Contains(t, ids, managerID)
}
