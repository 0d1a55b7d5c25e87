package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"goflare.io/ticketpal/models"
)

const topicPrefix = "reminders."

// Topic returns the stream a reminder is published on, e.g. "reminders.email".
func Topic(reminder models.ReminderDue) string {
	return topicPrefix + strings.ToLower(string(reminder.NotificationType))
}

// Publisher hands due reminders to the delivery services.
type Publisher struct {
	publisher message.Publisher
	logger    *zap.Logger
}

// NewRedisPublisher publishes to Redis streams on rdb.
func NewRedisPublisher(rdb *redis.Client, logger *zap.Logger) (*Publisher, error) {
	pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: rdb,
	}, NewZapLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create redis stream publisher: %w", err)
	}
	return NewPublisher(pub, logger), nil
}

// NewPublisher wraps any watermill publisher.
func NewPublisher(pub message.Publisher, logger *zap.Logger) *Publisher {
	return &Publisher{
		publisher: pub,
		logger:    logger,
	}
}

func (p *Publisher) PublishReminder(ctx context.Context, reminder models.ReminderDue) error {
	payload, err := json.Marshal(reminder)
	if err != nil {
		return fmt.Errorf("failed to encode reminder: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	middleware.SetCorrelationID(reminder.ReminderID, msg)
	msg.Metadata.Set("ticket_id", reminder.TicketID)
	msg.Metadata.Set("type", string(reminder.Type))

	topic := Topic(reminder)
	if err = p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish reminder %s: %w", reminder.ReminderID, err)
	}

	p.logger.Debug("reminder published",
		zap.String("topic", topic),
		zap.String("reminder_id", reminder.ReminderID),
		zap.String("message_uuid", msg.UUID))

	return nil
}

func (p *Publisher) Close() error {
	return p.publisher.Close()
}
