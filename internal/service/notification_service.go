package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/events"
	"github.com/spec-kit/litreview/internal/observability"
)

// NotificationService reacts to domain events: it logs them, counts them and
// forwards them to the broker when one is configured.
type NotificationService struct {
	dispatcher events.Dispatcher
	forwarder  events.Forwarder
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewNotificationService creates the service. forwarder may be nil.
func NewNotificationService(dispatcher events.Dispatcher, forwarder events.Forwarder, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		forwarder:  forwarder,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every event type.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.SubscribeAll(n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("domain event",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
		zap.Int64("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	n.metrics.RecordEvent(string(event.Type))

	if n.forwarder == nil {
		return nil
	}
	if err := n.forwarder.Forward(ctx, event); err != nil {
		n.logger.Warn("event forwarding failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
		return err
	}
	return nil
}
