package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/notifier"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes notifications to a topic keyed by recipient, so a
// user's notifications stay ordered within a partition.
type Kafka struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	logger  *slog.Logger
}

var _ notifier.Sender = (*Kafka)(nil)

// NewKafka builds a publisher from config.
func NewKafka(cfg *config.Kafka, logger *slog.Logger) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka notifier: brokers are required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}
	return newKafka(w, cfg.Topic, cfg.WriteTimeout, logger), nil
}

func newKafka(w messageWriter, topic string, timeout time.Duration, logger *slog.Logger) *Kafka {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{
		writer:  w,
		topic:   topic,
		timeout: timeout,
		logger:  logger.With("notifier", "kafka", "topic", topic),
	}
}

func (k *Kafka) Name() string { return "kafka" }

func (k *Kafka) Send(ctx context.Context, n *notification.Notification) error {
	data, err := marshalEnvelope(n)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", notification.ErrDeliveryFailed, err)
	}
	if k.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}
	msg := kafka.Message{
		Topic: k.topic,
		Key:   []byte(n.UserID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(n.Type)},
		},
		Time: n.CreatedAt,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		k.logger.Error("Failed to publish notification", "type", n.Type, "error", err)
		return fmt.Errorf("%w: %v", notification.ErrDeliveryFailed, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
