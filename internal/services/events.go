package services

import (
	"context"
	"time"

	"github.com/yungbote/bexps-backend/internal/observability"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/realtime/bus"
)

// publishModelEvent never fails the caller; a lost event is logged and counted.
func publishModelEvent(ctx context.Context, b bus.Bus, metrics *observability.Metrics, log *logger.Logger, ev bus.ModelEvent) {
	if b == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := b.Publish(ctx, ev); err != nil {
		metrics.IncBusPublishFailed(ev.Type)
		log.Warn("model event publish failed", "type", ev.Type, "model_id", ev.ModelID, "error", err)
	}
}
