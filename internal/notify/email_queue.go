package notify

import (
	"context"
	"fmt"
)

// RoutingKeyEmail is the AMQP routing key outbound emails are published under.
const RoutingKeyEmail = "notification.email"

// Publisher publishes a JSON payload under a routing key.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// QueueSender hands emails to an out-of-process mail worker through a
// message broker. Success means the broker accepted the message.
type QueueSender struct {
	pub Publisher
}

func NewQueueSender(pub Publisher) *QueueSender {
	return &QueueSender{pub: pub}
}

func (s *QueueSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.pub == nil {
		return fmt.Errorf("notify: queue publisher not configured")
	}
	if err := s.pub.PublishJSON(ctx, RoutingKeyEmail, msg); err != nil {
		return fmt.Errorf("notify: publish email: %w", err)
	}
	return nil
}

var _ EmailSender = (*QueueSender)(nil)
