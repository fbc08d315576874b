package async

import (
	"context"

	"go.uber.org/zap"

	"activityboard/internal/domain"
)

// AsyncEventBus logs board events off the request path.
type AsyncEventBus struct {
	pool *WorkerPool
	log  *zap.Logger
}

func NewAsyncEventBus(ctx context.Context, poolSize int, log *zap.Logger) *AsyncEventBus {
	return &AsyncEventBus{
		pool: NewWorkerPool(ctx, poolSize, log),
		log:  log,
	}
}

func (b *AsyncEventBus) Publish(_ context.Context, e domain.Event) {
	fields := make([]zap.Field, 0, len(e.Payload)+1)
	fields = append(fields, zap.String("type", e.Type))
	for k, v := range e.Payload {
		fields = append(fields, zap.Any(k, v))
	}

	if !b.pool.Submit(func(_ context.Context) {
		b.log.Info("board_event", fields...)
	}) {
		b.log.Debug("board_event dropped after shutdown", zap.String("type", e.Type))
	}
}

func (b *AsyncEventBus) Close() {
	b.pool.Shutdown()
}
