package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

func newNotifierFixture() (*NotificationService, *memNotificationRepo, events.Dispatcher) {
	repo := &memNotificationRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	notifier := NewNotificationService(dispatcher, repo, zap.NewNop(), config.NotificationConfig{})
	notifier.RegisterHandlers()
	return notifier, repo, dispatcher
}

func TestLeadAssignedNotifiesDesigner(t *testing.T) {
	_, repo, dispatcher := newNotifierFixture()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventLeadAssigned,
		Payload: events.LeadAssignedPayload{
			LeadID:       "lead-1",
			ProjectID:    "project-1",
			ProjectTitle: "Kitchen refresh",
			DesignerID:   "designer-1",
			AssignedByID: "admin-1",
		},
	})
	require.NoError(t, err)

	list, err := repo.ListForRecipient(context.Background(), "designer-1", false, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.NotificationTypeProjectAssigned, list[0].Type)
	assert.Contains(t, list[0].Message, "Kitchen refresh")
	assert.False(t, list[0].IsRead)
}

func TestLeadRespondedNotifiesAssigner(t *testing.T) {
	_, repo, dispatcher := newNotifierFixture()

	adminID := "admin-1"
	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventLeadResponded,
		Payload: events.LeadRespondedPayload{
			LeadID:       "lead-1",
			ProjectID:    "project-1",
			ProjectTitle: "Kitchen refresh",
			DesignerID:   "designer-1",
			AssignedByID: &adminID,
			Decision:     domain.LeadStatusDeclined,
		},
	})
	require.NoError(t, err)

	list, err := repo.ListForRecipient(context.Background(), adminID, false, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.NotificationTypeLeadResponse, list[0].Type)
	assert.Contains(t, list[0].Message, "declined")
}

func TestNotificationFailureIsSwallowed(t *testing.T) {
	_, repo, dispatcher := newNotifierFixture()
	repo.failCreate = true

	// a failed persist must not bubble up to the publisher
	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventAccountApprovalChanged,
		Payload: events.AccountApprovalChangedPayload{
			AccountID: "account-1",
			Approved:  true,
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, repo.count())
}

func TestMarkReadOwnership(t *testing.T) {
	notifier, repo, _ := newNotifierFixture()
	ctx := context.Background()

	notification := &domain.Notification{
		RecipientID: "designer-1",
		Title:       "New Project Assigned",
		Message:     "msg",
		Type:        domain.NotificationTypeProjectAssigned,
	}
	require.NoError(t, repo.Create(ctx, notification))

	recipient := &domain.Account{ID: "designer-1", Role: domain.RoleDesigner, IsApproved: true}
	stranger := &domain.Account{ID: "designer-2", Role: domain.RoleDesigner, IsApproved: true}
	admin := &domain.Account{ID: "admin-1", Role: domain.RoleAdmin, IsApproved: true}

	_, err := notifier.MarkRead(ctx, stranger, notification.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbiddenOwnership, apperrors.CodeOf(err))

	read, err := notifier.MarkRead(ctx, recipient, notification.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	// marking twice is a no-op, and elevated roles may act on any row
	_, err = notifier.MarkRead(ctx, admin, notification.ID)
	assert.NoError(t, err)

	_, err = notifier.MarkRead(ctx, recipient, "missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestListForAccountScopesToRecipient(t *testing.T) {
	notifier, repo, _ := newNotifierFixture()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Notification{RecipientID: "a", Title: "t", Message: "m", Type: domain.NotificationTypeSystemAlert}))
	require.NoError(t, repo.Create(ctx, &domain.Notification{RecipientID: "b", Title: "t", Message: "m", Type: domain.NotificationTypeSystemAlert}))

	list, err := notifier.ListForAccount(ctx, &domain.Account{ID: "a"}, false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = notifier.ListForAccount(ctx, nil, false, 0, 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
}
