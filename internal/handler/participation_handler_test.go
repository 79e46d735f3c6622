package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vireo-labs/vireo-hr-api/internal/dto"
	"github.com/vireo-labs/vireo-hr-api/internal/handler"
	"github.com/vireo-labs/vireo-hr-api/internal/middleware"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
	"github.com/vireo-labs/vireo-hr-api/internal/service"
)

type stubParticipationService struct {
	response dto.ParticipationResponse
	seats    dto.AvailableSeatsResponse
	err      error
}

func (s stubParticipationService) Create(context.Context, service.Actor, dto.ParticipationCreateRequest) (dto.ParticipationResponse, error) {
	return s.response, s.err
}

func (s stubParticipationService) CreateMany(context.Context, service.Actor, dto.ParticipationBulkCreateRequest) (dto.ParticipationBulkCreateResponse, error) {
	return dto.ParticipationBulkCreateResponse{Created: []dto.ParticipationResponse{s.response}}, s.err
}

func (s stubParticipationService) List(context.Context) ([]dto.ParticipationResponse, error) {
	return []dto.ParticipationResponse{s.response}, s.err
}

func (s stubParticipationService) ListByActivity(context.Context, uint) ([]dto.ParticipationResponse, error) {
	return []dto.ParticipationResponse{s.response}, s.err
}

func (s stubParticipationService) ListByEmployee(context.Context, uint) ([]dto.ParticipationResponse, error) {
	return []dto.ParticipationResponse{s.response}, s.err
}

func (s stubParticipationService) ListByManager(context.Context, uint) ([]dto.ParticipationResponse, error) {
	return []dto.ParticipationResponse{s.response}, s.err
}

func (s stubParticipationService) Get(context.Context, uint) (dto.ParticipationResponse, error) {
	return s.response, s.err
}

func (s stubParticipationService) Update(context.Context, service.Actor, uint, dto.ParticipationUpdateRequest) (dto.ParticipationResponse, error) {
	return s.response, s.err
}

func (s stubParticipationService) Accept(context.Context, service.Actor, uint) (dto.ParticipationResponse, error) {
	return s.response, s.err
}

func (s stubParticipationService) Decline(context.Context, service.Actor, uint, string) (dto.ParticipationResponse, error) {
	return s.response, s.err
}

func (s stubParticipationService) Reject(context.Context, service.Actor, uint) (dto.ParticipationResponse, error) {
	return s.response, s.err
}

func (s stubParticipationService) Delete(context.Context, service.Actor, uint) error {
	return s.err
}

func (s stubParticipationService) AvailableSeats(context.Context, uint) (dto.AvailableSeatsResponse, error) {
	return s.seats, s.err
}

func newParticipationApp(svc service.ParticipationService, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		c.Locals("user_role", role)
		return c.Next()
	})

	h := handler.NewParticipationHandler(svc, zerolog.Nop())
	h.Register(app.Group("/api/v1/participations"), handler.ParticipationGuards{
		Staff:       middleware.RequireRole(models.RoleHR, models.RoleManager, models.RoleAdmin),
		Employee:    middleware.RequireRole(models.RoleEmployee),
		Manager:     middleware.RequireRole(models.RoleManager, models.RoleAdmin),
		Participant: middleware.RequireRole(models.RoleHR, models.RoleManager, models.RoleEmployee, models.RoleAdmin),
	})
	return app
}

func TestParticipationHandlerRejectsMalformedID(t *testing.T) {
	app := newParticipationApp(stubParticipationService{}, "employee")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/participations/not-a-number", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestParticipationHandlerCreateAllowsHR(t *testing.T) {
	app := newParticipationApp(stubParticipationService{response: dto.ParticipationResponse{ID: 1, Status: models.ParticipationStatusPending}}, "hr")

	body, err := json.Marshal(dto.ParticipationCreateRequest{ActivityID: 1, EmployeeID: 21})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/participations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestParticipationHandlerCreateForbiddenForEmployee(t *testing.T) {
	app := newParticipationApp(stubParticipationService{}, "employee")

	body, err := json.Marshal(dto.ParticipationCreateRequest{ActivityID: 1, EmployeeID: 21})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/participations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestParticipationHandlerAcceptRequiresEmployeeRole(t *testing.T) {
	app := newParticipationApp(stubParticipationService{}, "manager")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/participations/3/accept", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestParticipationHandlerListForbiddenForEmployee(t *testing.T) {
	app := newParticipationApp(stubParticipationService{}, "employee")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/participations", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestParticipationHandlerDuplicateConflict(t *testing.T) {
	app := newParticipationApp(stubParticipationService{err: service.ErrParticipationExists}, "manager")

	body, err := json.Marshal(dto.ParticipationCreateRequest{ActivityID: 1, EmployeeID: 21})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/participations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestParticipationHandlerDeclineWithoutJustification(t *testing.T) {
	app := newParticipationApp(stubParticipationService{err: service.ErrJustificationRequired}, "employee")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/participations/3/decline", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestParticipationHandlerAvailableSeats(t *testing.T) {
	app := newParticipationApp(stubParticipationService{seats: dto.AvailableSeatsResponse{
		ActivityID:      4,
		MaxParticipants: 10,
		Accepted:        3,
		Pending:         2,
		AvailableSeats:  5,
	}}, "manager")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/participations/activity/4/seats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                       `json:"success"`
		Data    dto.AvailableSeatsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Equal(t, int64(5), payload.Data.AvailableSeats)
}

func TestParticipationHandlerUnknownParticipation(t *testing.T) {
	app := newParticipationApp(stubParticipationService{err: service.ErrParticipationNotFound}, "employee")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/participations/42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
