package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/events"
	"github.com/spec-kit/litreview/internal/repository"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

// ImageStore persists ticket images.
type ImageStore interface {
	Save(r io.Reader) (string, error)
	Delete(key string) error
}

type eventPublisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// publish runs after the write is committed; handler failures are only logged.
func (p eventPublisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

func notFound(resource string, id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}

func validationError(message string, errs domain.FieldErrors) error {
	return apperrors.NewValidationError(message, errs.Details())
}

func removeImage(images ImageStore, logger *zap.Logger, key *string) {
	if images == nil || key == nil || *key == "" {
		return
	}
	if err := images.Delete(*key); err != nil {
		logger.Warn("failed to remove ticket image", zap.String("key", *key), zap.Error(err))
	}
}
