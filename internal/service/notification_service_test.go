package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
)

func TestNotificationCreateSanitizesMarkup(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotifier(repo)

	created, err := svc.Create(context.Background(), dto.NotificationCreateRequest{
		UserID:  7,
		Type:    models.NotificationTypeActivityReminder,
		Title:   "<b>Reminder</b>",
		Content: "<script>alert(1)</script>Session starts tomorrow",
	})
	require.NoError(t, err)
	require.Equal(t, "Reminder", created.Title)
	require.Equal(t, "Session starts tomorrow", created.Content)
	require.Equal(t, models.NotificationPriorityMedium, created.Priority)
}

func TestNotificationCreateRejectsEmptyAfterSanitization(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotifier(repo)

	_, err := svc.Create(context.Background(), dto.NotificationCreateRequest{
		UserID:  7,
		Type:    models.NotificationTypeActivityReminder,
		Title:   "<script></script>",
		Content: "body",
	})
	require.Error(t, err)
}

func TestNotificationSubscribeReceivesBroadcast(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotifier(repo)

	stream, cleanup := svc.Subscribe(7)
	defer cleanup()

	_, err := svc.Create(context.Background(), dto.NotificationCreateRequest{
		UserID:  7,
		Type:    models.NotificationTypeActivityForwarded,
		Title:   "New activity to handle",
		Content: "An activity awaits confirmation",
	})
	require.NoError(t, err)

	select {
	case notification := <-stream:
		require.Equal(t, models.NotificationTypeActivityForwarded, notification.Type)
		require.Equal(t, uint(7), notification.UserID)
	case <-time.After(time.Second):
		t.Fatal("expected a streamed notification")
	}
}

func TestNotificationSubscribeIgnoresOtherUsers(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotifier(repo)

	stream, cleanup := svc.Subscribe(7)
	defer cleanup()

	_, err := svc.Create(context.Background(), dto.NotificationCreateRequest{
		UserID:  8,
		Type:    models.NotificationTypeActivityReminder,
		Title:   "Reminder",
		Content: "Not for user 7",
	})
	require.NoError(t, err)

	select {
	case notification := <-stream:
		t.Fatalf("unexpected notification for user %d", notification.UserID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotificationMarkReadScopedToOwner(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotifier(repo)

	created, err := svc.Create(context.Background(), dto.NotificationCreateRequest{
		UserID:  7,
		Type:    models.NotificationTypeActivityReminder,
		Title:   "Reminder",
		Content: "Session starts tomorrow",
	})
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), created.ID, 99)
	require.ErrorIs(t, err, ErrNotificationNotFound)

	read, err := svc.MarkRead(context.Background(), created.ID, 7)
	require.NoError(t, err)
	require.True(t, read.Read)
	require.NotNil(t, read.ReadAt)

	count, err := svc.CountUnread(context.Background(), 7)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestNotificationMarkAllRead(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotifier(repo)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), dto.NotificationCreateRequest{
			UserID:  7,
			Type:    models.NotificationTypeActivityReminder,
			Title:   "Reminder",
			Content: "Session starts tomorrow",
		})
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead(context.Background(), 7))

	count, err := svc.CountUnread(context.Background(), 7)
	require.NoError(t, err)
	require.Zero(t, count)

	unread, err := svc.ListByUser(context.Background(), 7, true)
	require.NoError(t, err)
	require.Empty(t, unread)
}
