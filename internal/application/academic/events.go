package academic

import (
	"context"

	"go.uber.org/zap"

	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/acadtrack/backend/internal/infrastructure/logger"
)

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publish drains the aggregate's events after a committed write. Publish
// failures are logged; the write already happened.
func publish(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, source eventSource) {
	events := source.GetDomainEvents()
	source.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Ctx(ctx, log).Error("Failed to publish record events", zap.Error(err))
	}
}
