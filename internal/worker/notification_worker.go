package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/service"
)

// Closer releases an outbound connection, such as the AMQP publisher.
type Closer interface {
	Close()
}

// StartNotificationWorker subscribes the notification service to domain events. When
// ctx ends, the given closers are released in order and done is closed.
func StartNotificationWorker(ctx context.Context, notifications *service.NotificationService, logger *zap.Logger, closers ...Closer) (done <-chan struct{}) {
	finished := make(chan struct{})
	if notifications == nil {
		close(finished)
		return finished
	}
	notifications.RegisterHandlers()
	logger.Info("notification worker started", zap.Int("outbound", len(closers)))

	go func() {
		defer close(finished)
		<-ctx.Done()
		for _, c := range closers {
			c.Close()
		}
		logger.Info("notification worker stopped")
	}()
	return finished
}
