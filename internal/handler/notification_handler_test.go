package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/handler"
	"github.com/vireo-labs/vireo-hr-api/internal/middleware"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
	"github.com/vireo-labs/vireo-hr-api/internal/service"
)

type stubNotificationService struct {
	notification dto.NotificationResponse
	count        int64
	err          error
}

func (s stubNotificationService) Create(context.Context, dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	return s.notification, s.err
}

func (s stubNotificationService) CreateMany(context.Context, []dto.NotificationCreateRequest) ([]dto.NotificationResponse, error) {
	return []dto.NotificationResponse{s.notification}, s.err
}

func (s stubNotificationService) ListByUser(context.Context, uint, bool) ([]dto.NotificationResponse, error) {
	return []dto.NotificationResponse{s.notification}, s.err
}

func (s stubNotificationService) Get(context.Context, uint) (dto.NotificationResponse, error) {
	return s.notification, s.err
}

func (s stubNotificationService) MarkRead(context.Context, uint, uint) (dto.NotificationResponse, error) {
	return s.notification, s.err
}

func (s stubNotificationService) MarkAllRead(context.Context, uint) error {
	return s.err
}

func (s stubNotificationService) CountUnread(context.Context, uint) (int64, error) {
	return s.count, s.err
}

func (s stubNotificationService) Delete(context.Context, uint, uint) error {
	return s.err
}

func (s stubNotificationService) DeleteAllForUser(context.Context, uint) error {
	return s.err
}

func (s stubNotificationService) Subscribe(uint) (<-chan dto.NotificationResponse, func()) {
	stream := make(chan dto.NotificationResponse)
	close(stream)
	return stream, func() {}
}

func (s stubNotificationService) Start(context.Context) {}

func (s stubNotificationService) NotifyActivityForwarded(context.Context, uint, uint, string) {}

func (s stubNotificationService) NotifyParticipationRequest(context.Context, uint, uint, uint, string) {
}

func (s stubNotificationService) NotifyParticipationResponse(context.Context, uint, uint, string, string, bool) {
}

func (s stubNotificationService) NotifySeatsAvailable(context.Context, uint, uint, string, int64) {}

func (s stubNotificationService) NotifyActivityStatus(context.Context, uint, uint, string, string) {}

func newNotificationApp(svc service.NotificationService, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(21))
		c.Locals("user_role", role)
		return c.Next()
	})

	h := handler.NewNotificationHandler(svc, zerolog.Nop(), time.Second)
	staffOnly := middleware.RequireRole(models.RoleHR, models.RoleManager, models.RoleAdmin)
	h.Register(app.Group("/api/v1/notifications"), staffOnly)
	return app
}

func TestNotificationHandlerDeleteAllForUser(t *testing.T) {
	app := newNotificationApp(stubNotificationService{}, "employee")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/user/all", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNotificationHandlerDeleteAllLegacyAlias(t *testing.T) {
	app := newNotificationApp(stubNotificationService{}, "employee")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/all", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNotificationHandlerCreateRequiresStaff(t *testing.T) {
	app := newNotificationApp(stubNotificationService{}, "employee")

	body, err := json.Marshal(dto.NotificationCreateRequest{
		UserID:  21,
		Type:    models.NotificationTypeParticipationRequest,
		Title:   "Participation request",
		Content: "invitation pending",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestNotificationHandlerUnreadCount(t *testing.T) {
	app := newNotificationApp(stubNotificationService{count: 3}, "employee")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                    `json:"success"`
		Data    dto.UnreadCountResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Equal(t, int64(3), payload.Data.Count)
}

func TestNotificationHandlerGetHidesForeignNotification(t *testing.T) {
	app := newNotificationApp(stubNotificationService{notification: dto.NotificationResponse{ID: 9, UserID: 99}}, "employee")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/9", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
