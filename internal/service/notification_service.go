package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/civitas-dev/remote-visit-service/internal/events"
)

// NotificationService logs queue lifecycle events for operator visibility.
// Delivery targets beyond the log are stubs until the city decides on a
// channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventVisitorJoined, n.handleVisitorJoined)
	n.dispatcher.Subscribe(events.EventConsultationStarted, n.handleConsultationStarted)
	n.dispatcher.Subscribe(events.EventConsultationCompleted, n.handleConsultationCompleted)
}

func (n *NotificationService) handleVisitorJoined(_ context.Context, event events.Event) error {
	n.logger.Info("VisitorJoined", zap.String("entry_id", event.EntryID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleConsultationStarted(_ context.Context, event events.Event) error {
	n.logger.Info("ConsultationStarted", zap.String("entry_id", event.EntryID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleConsultationCompleted(_ context.Context, event events.Event) error {
	n.logger.Info("ConsultationCompleted", zap.String("entry_id", event.EntryID), zap.Any("payload", event.Payload))
	return nil
}
