package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"tableside/internal/logger"
)

// ChangeNotice tells subscribers that the events collection changed.
// It carries no document data; subscribers re-query the full result
// set on every notice.
type ChangeNotice struct {
	EventType string `json:"event_type"`
	EventID   string `json:"event_id"`
}

// Publisher handles message publishing to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishChange broadcasts a change notice on the fanout exchange.
func (p *Publisher) PublishChange(ctx context.Context, notice ChangeNotice) error {
	// Check if connection is alive
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal change notice: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: 1, // transient; a missed notice is superseded by the next one
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		ChangeExchange, // exchange
		"",             // routing key (ignored for fanout)
		false,          // mandatory
		false,          // immediate
		publishing,
	)

	if err != nil {
		p.logger.Error("change_publish_failed",
			"", "Failed to publish change notice", err, map[string]interface{}{
				"event_type": notice.EventType,
				"event_id":   notice.EventID,
			})
		return fmt.Errorf("failed to publish change notice: %w", err)
	}

	p.logger.Debug("change_published",
		"", "Published change notice", map[string]interface{}{
			"event_type": notice.EventType,
			"event_id":   notice.EventID,
		})

	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.conn.Close()
}
