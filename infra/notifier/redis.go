package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/notifier"
	"github.com/redis/go-redis/v9"
)

// RedisStream appends notifications to a Redis stream.
type RedisStream struct {
	client redis.UniversalClient
	stream string
	maxLen int64
	logger *slog.Logger
}

var _ notifier.Sender = (*RedisStream)(nil)

func NewRedisStream(client redis.UniversalClient, stream string, maxLen int64, logger *slog.Logger) *RedisStream {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStream{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logger.With("notifier", "redis", "stream", stream),
	}
}

func (r *RedisStream) Name() string { return "redis" }

func (r *RedisStream) Send(ctx context.Context, n *notification.Notification) error {
	data, err := marshalEnvelope(n)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", notification.ErrDeliveryFailed, err)
	}
	args := &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{"type": string(n.Type), "notification": string(data)},
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}
	id, err := r.client.XAdd(ctx, args).Result()
	if err != nil {
		r.logger.Error("Failed to publish notification", "type", n.Type, "error", err)
		return fmt.Errorf("%w: %v", notification.ErrDeliveryFailed, err)
	}
	r.logger.Debug("Notification published", "type", n.Type, "entry", id)
	return nil
}
