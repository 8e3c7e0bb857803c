package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-intake/internal/events"
)

// NotificationService surfaces decisioning events to reviewers. The
// downstream channels stay declarative (log lines) in this core; real
// delivery belongs to back-office systems.
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
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketDecided, n.handleTicketDecided)
	n.dispatcher.Subscribe(events.EventTurnEscalated, n.handleTurnEscalated)
	n.dispatcher.Subscribe(events.EventConversationClosed, n.handleConversationClosed)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketDecided(_ context.Context, event events.Event) error {
	n.logger.Info("TicketDecided", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTurnEscalated(_ context.Context, event events.Event) error {
	// Escalations are what HR planners triage first.
	n.logger.Warn("TurnEscalated", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleConversationClosed(_ context.Context, event events.Event) error {
	n.logger.Info("ConversationClosed", zap.Any("payload", event.Payload))
	return nil
}
