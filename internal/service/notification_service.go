package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
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

const notificationBufferSize = 16

// ErrNotificationNotFound indicates the requested notification does not exist
// or belongs to another user.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService creates, queries and streams per-user inbox entries.
// Creation is fire-and-forget from the workflow's point of view: a failed
// notification never rolls back the transition that triggered it.
type NotificationService interface {
	Create(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
	CreateMany(ctx context.Context, payloads []dto.NotificationCreateRequest) ([]dto.NotificationResponse, error)
	ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]dto.NotificationResponse, error)
	Get(ctx context.Context, id uint) (dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context, userID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, id, userID uint) error
	DeleteAllForUser(ctx context.Context, userID uint) error
	Subscribe(userID uint) (<-chan dto.NotificationResponse, func())
	Start(ctx context.Context)

	NotifyActivityForwarded(ctx context.Context, managerID, activityID uint, activityTitle string)
	NotifyParticipationRequest(ctx context.Context, employeeID, activityID, participationID uint, activityTitle string)
	NotifyParticipationResponse(ctx context.Context, managerID, participationID uint, employeeName, activityTitle string, accepted bool)
	NotifySeatsAvailable(ctx context.Context, managerID, activityID uint, activityTitle string, availableSeats int64)
	NotifyActivityStatus(ctx context.Context, managerID, activityID uint, activityTitle, status string)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
	broker      *notificationBroker
	nodeID      string
	now         func() time.Time
}

type notificationEvent struct {
	Source       string                   `json:"source"`
	Notification dto.NotificationResponse `json:"notification"`
	SentAt       time.Time                `json:"sent_at"`
}

type notificationBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan dto.NotificationResponse]struct{}
}

// NewNotificationService constructs a notification service. The redis client
// and NATS connection are optional; when nil the service degrades to the
// in-process broker only.
func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, validate *validator.Validate, logger zerolog.Logger) NotificationService {
	stream := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":notifications"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".notifications"
	}

	return &notificationService{
		repo:        repo,
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		validator:   validate,
		logger:      logger.With().Str("component", "notification_service").Logger(),
		tracer:      otel.Tracer("github.com/vireo-labs/vireo-hr-api/internal/service/notification"),
		sanitizer:   bluemonday.StrictPolicy(),
		broker: &notificationBroker{
			subscribers: make(map[uint]map[chan dto.NotificationResponse]struct{}),
		},
		nodeID: uuid.NewString(),
		now:    time.Now,
	}
}

func (s *notificationService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *notificationService) Create(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NotificationResponse{}, err
	}

	cleanTitle := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	cleanContent := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if cleanTitle == "" || cleanContent == "" {
		return dto.NotificationResponse{}, errors.New("notification text empty after sanitization")
	}

	priority := payload.Priority
	if priority == "" {
		priority = models.NotificationPriorityMedium
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("notification.user_id", int64(payload.UserID)),
		attribute.String("notification.type", payload.Type),
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.create", trace.WithAttributes(attrs...))
	defer span.End()

	model := models.Notification{
		UserID:          payload.UserID,
		Type:            payload.Type,
		Title:           cleanTitle,
		Content:         cleanContent,
		ActivityID:      payload.ActivityID,
		ParticipationID: payload.ParticipationID,
		Priority:        priority,
	}

	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	response := dto.NewNotificationResponse(model)
	s.broadcast(response)
	if err := s.publish(spanCtx, response); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish notification to broker")
	}

	observability.NotificationsPublishedTotal().WithLabelValues(response.Type).Inc()

	return response, nil
}

func (s *notificationService) CreateMany(ctx context.Context, payloads []dto.NotificationCreateRequest) ([]dto.NotificationResponse, error) {
	responses := make([]dto.NotificationResponse, 0, len(payloads))
	for _, payload := range payloads {
		response, err := s.Create(ctx, payload)
		if err != nil {
			return responses, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

func (s *notificationService) ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) Get(ctx context.Context, id uint) (dto.NotificationResponse, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "notifications.mark_read",
		trace.WithAttributes(attribute.Int64("notification.user_id", int64(userID))))
	defer span.End()

	notification, err := s.repo.MarkRead(spanCtx, id, userID, s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllRead(ctx, userID, s.now().UTC())
}

func (s *notificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, id, userID uint) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) DeleteAllForUser(ctx context.Context, userID uint) error {
	return s.repo.DeleteAllForUser(ctx, userID)
}

func (s *notificationService) Subscribe(userID uint) (<-chan dto.NotificationResponse, func()) {
	channel := make(chan dto.NotificationResponse, notificationBufferSize)

	s.broker.subscribe(userID, channel)
	observability.SSEClientsActive().Inc()

	cleanup := func() {
		s.broker.unsubscribe(userID, channel)
		observability.SSEClientsActive().Dec()
	}

	return channel, cleanup
}

// NotifyActivityForwarded tells a manager an activity was assigned to them.
func (s *notificationService) NotifyActivityForwarded(ctx context.Context, managerID, activityID uint, activityTitle string) {
	s.fireAndForget(ctx, dto.NotificationCreateRequest{
		UserID:     managerID,
		Type:       models.NotificationTypeActivityForwarded,
		Title:      "New activity to handle",
		Content:    fmt.Sprintf("The activity %q has been assigned to you. Please confirm the participants.", activityTitle),
		ActivityID: &activityID,
		Priority:   models.NotificationPriorityHigh,
	})
}

// NotifyParticipationRequest invites an employee to an activity.
func (s *notificationService) NotifyParticipationRequest(ctx context.Context, employeeID, activityID, participationID uint, activityTitle string) {
	s.fireAndForget(ctx, dto.NotificationCreateRequest{
		UserID:          employeeID,
		Type:            models.NotificationTypeParticipationRequest,
		Title:           "New activity invitation",
		Content:         fmt.Sprintf("You are invited to take part in the activity %q. Please confirm your participation.", activityTitle),
		ActivityID:      &activityID,
		ParticipationID: &participationID,
		Priority:        models.NotificationPriorityHigh,
	})
}

// NotifyParticipationResponse tells the confirming manager how an employee responded.
func (s *notificationService) NotifyParticipationResponse(ctx context.Context, managerID, participationID uint, employeeName, activityTitle string, accepted bool) {
	notificationType := models.NotificationTypeParticipationDeclined
	title := "Participation declined"
	verb := "declined"
	priority := models.NotificationPriorityHigh
	if accepted {
		notificationType = models.NotificationTypeParticipationAccepted
		title = "Participation accepted"
		verb = "accepted"
		priority = models.NotificationPriorityMedium
	}

	s.fireAndForget(ctx, dto.NotificationCreateRequest{
		UserID:          managerID,
		Type:            notificationType,
		Title:           title,
		Content:         fmt.Sprintf("%s has %s the invitation to %q.", employeeName, verb, activityTitle),
		ParticipationID: &participationID,
		Priority:        priority,
	})
}

// NotifySeatsAvailable tells a manager seats opened up after a refusal.
func (s *notificationService) NotifySeatsAvailable(ctx context.Context, managerID, activityID uint, activityTitle string, availableSeats int64) {
	s.fireAndForget(ctx, dto.NotificationCreateRequest{
		UserID:     managerID,
		Type:       models.NotificationTypeSeatsAvailable,
		Title:      "Seats available",
		Content:    fmt.Sprintf("%d seat(s) available for the activity %q. You can select replacements.", availableSeats, activityTitle),
		ActivityID: &activityID,
		Priority:   models.NotificationPriorityHigh,
	})
}

// NotifyActivityStatus tells the owning manager about start/completion transitions.
func (s *notificationService) NotifyActivityStatus(ctx context.Context, managerID, activityID uint, activityTitle, status string) {
	var notificationType, title, content string
	switch status {
	case models.ActivityStatusInProgress:
		notificationType = models.NotificationTypeActivityStarted
		title = "Activity started"
		content = fmt.Sprintf("The activity %q is now in progress.", activityTitle)
	case models.ActivityStatusCompleted:
		notificationType = models.NotificationTypeActivityCompleted
		title = "Activity completed"
		content = fmt.Sprintf("The activity %q has been completed.", activityTitle)
	default:
		return
	}

	s.fireAndForget(ctx, dto.NotificationCreateRequest{
		UserID:     managerID,
		Type:       notificationType,
		Title:      title,
		Content:    content,
		ActivityID: &activityID,
		Priority:   models.NotificationPriorityMedium,
	})
}

func (s *notificationService) fireAndForget(ctx context.Context, payload dto.NotificationCreateRequest) {
	if _, err := s.Create(ctx, payload); err != nil {
		s.logger.Warn().Err(err).
			Str("type", payload.Type).
			Uint("user_id", payload.UserID).
			Msg("failed to emit workflow notification")
	}
}

func (s *notificationService) broadcast(notification dto.NotificationResponse) {
	s.broker.broadcast(notification.UserID, notification)
}

func (s *notificationService) publish(ctx context.Context, notification dto.NotificationResponse) error {
	event := notificationEvent{
		Source:       s.nodeID,
		Notification: notification,
		SentAt:       s.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *notificationService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("notification redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *notificationService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "vireo-notifications", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats notifications subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain notification nats subscription")
		}
	}()
}

func (s *notificationService) handleEvent(payload []byte) {
	var event notificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid notification event payload")
		return
	}

	if event.Source == s.nodeID {
		return
	}

	observability.NotificationsPublishedTotal().WithLabelValues(event.Notification.Type).Inc()
	s.broadcast(event.Notification)
}

func (b *notificationBroker) subscribe(userID uint, ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[userID]; !exists {
		b.subscribers[userID] = make(map[chan dto.NotificationResponse]struct{})
	}
	b.subscribers[userID][ch] = struct{}{}
}

func (b *notificationBroker) unsubscribe(userID uint, ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[userID]; ok {
		delete(subscribers, ch)
		close(ch)
		if len(subscribers) == 0 {
			delete(b.subscribers, userID)
		}
	}
}

func (b *notificationBroker) broadcast(userID uint, notification dto.NotificationResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[userID] {
		select {
		case ch <- notification:
		default:
		}
	}
}
