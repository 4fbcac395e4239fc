package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// NotificationService turns workflow events into persisted notification
// intents. Delivery is best-effort: failures are logged and never surfaced
// to the caller whose transition produced the event.
type NotificationService struct {
	dispatcher    events.Dispatcher
	notifications repository.NotificationRepository
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifications repository.NotificationRepository, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher:    dispatcher,
		notifications: notifications,
		logger:        logger,
		cfg:           cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventLeadAssigned, n.handleLeadAssigned)
	n.dispatcher.Subscribe(events.EventLeadResponded, n.handleLeadResponded)
	n.dispatcher.Subscribe(events.EventProjectStatusChanged, n.handleProjectStatusChanged)
	n.dispatcher.Subscribe(events.EventAccountApprovalChanged, n.handleAccountApprovalChanged)
}

func (n *NotificationService) handleLeadAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.LeadAssignedPayload)
	if !ok {
		return nil
	}
	n.persist(ctx, &domain.Notification{
		RecipientID: payload.DesignerID,
		Title:       "New Project Assigned",
		Message:     fmt.Sprintf("You have been assigned to project: %s", payload.ProjectTitle),
		Type:        domain.NotificationTypeProjectAssigned,
	})
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLeadResponded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.LeadRespondedPayload)
	if !ok {
		return nil
	}
	if payload.AssignedByID == nil {
		return nil
	}
	n.persist(ctx, &domain.Notification{
		RecipientID: *payload.AssignedByID,
		Title:       fmt.Sprintf("Lead %s", payload.Decision),
		Message:     fmt.Sprintf("Your lead for project %q has been %s", payload.ProjectTitle, payload.Decision),
		Type:        domain.NotificationTypeLeadResponse,
	})
	return nil
}

func (n *NotificationService) handleProjectStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ProjectStatusChangedPayload)
	if !ok {
		return nil
	}
	n.persist(ctx, &domain.Notification{
		RecipientID: payload.CustomerID,
		Title:       "Project Status Update",
		Message:     fmt.Sprintf("Project %q is now %s", payload.ProjectTitle, payload.NewStatus),
		Type:        domain.NotificationTypeProjectStatus,
	})
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAccountApprovalChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountApprovalChangedPayload)
	if !ok {
		return nil
	}
	title := "Account Approved"
	message := "Your account has been approved."
	if !payload.Approved {
		title = "Account Rejected"
		message = "Your account application requires additional review."
	}
	n.persist(ctx, &domain.Notification{
		RecipientID: payload.AccountID,
		Title:       title,
		Message:     message,
		Type:        domain.NotificationTypeAccountStatus,
	})
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

// ListForAccount returns the actor's own notifications, newest first.
func (n *NotificationService) ListForAccount(ctx context.Context, actor *domain.Account, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	result, err := n.notifications.ListForRecipient(ctx, actor.ID, unreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if result == nil {
		result = []domain.Notification{}
	}
	return result, nil
}

// MarkRead flags a notification as read. Only the recipient (or a bypass
// role) may do it; marking an already-read notification is a no-op.
func (n *NotificationService) MarkRead(ctx context.Context, actor *domain.Account, notificationID string) (*domain.Notification, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	notification, err := n.notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("notification", map[string]any{"notification_id": notificationID})
		}
		return nil, apperrors.MapError(err)
	}
	if notification.RecipientID != actor.ID && !auth.CanBypassOwnership(actor) {
		return nil, apperrors.NewForbiddenOwnership("notification belongs to another account")
	}
	if _, err := n.notifications.MarkRead(ctx, notificationID); err != nil {
		return nil, apperrors.MapError(err)
	}
	notification.IsRead = true
	return notification, nil
}

func (n *NotificationService) persist(ctx context.Context, notification *domain.Notification) {
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Warn("notification create failed",
			zap.String("recipient_id", notification.RecipientID),
			zap.String("type", notification.Type),
			zap.Error(err))
	}
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
