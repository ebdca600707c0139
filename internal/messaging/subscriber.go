package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"tableside/internal/logger"
)

// Subscriber receives change notices from the fanout exchange on its
// own exclusive queue. Each live subscription gets its own Subscriber.
type Subscriber struct {
	conn      *Connection
	logger    *logger.Logger
	queueName string
	tag       string
}

// NewSubscriber declares an exclusive auto-delete queue bound to the
// change exchange and starts consuming from it. Notices are auto-acked:
// each one only triggers a re-query, so a lost notice is made good by
// the next one.
func NewSubscriber(conn *Connection, log *logger.Logger) (*Subscriber, <-chan amqp091.Delivery, error) {
	ch := conn.Channel()

	queue, err := ch.QueueDeclare(
		"",    // name (server generated)
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to declare subscription queue: %w", err)
	}

	err = ch.QueueBind(
		queue.Name,     // queue name
		"",             // routing key (ignored for fanout)
		ChangeExchange, // exchange
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bind subscription queue: %w", err)
	}

	tag := "sub-" + uuid.NewString()
	deliveries, err := ch.Consume(
		queue.Name, // queue
		tag,        // consumer
		true,       // auto-ack
		true,       // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register subscription consumer: %w", err)
	}

	log.Debug("subscription_started", "", "Started change notice consumer", map[string]interface{}{
		"queue":    queue.Name,
		"consumer": tag,
	})

	return &Subscriber{
		conn:      conn,
		logger:    log,
		queueName: queue.Name,
		tag:       tag,
	}, deliveries, nil
}

// ParseNotice parses a change notice body.
func ParseNotice(body []byte) (ChangeNotice, error) {
	var notice ChangeNotice
	err := json.Unmarshal(body, &notice)
	return notice, err
}

// Close cancels the consumer; the exclusive queue is deleted by the
// broker once its consumer is gone.
func (s *Subscriber) Close() error {
	if s.conn == nil || s.conn.IsClosed() {
		return nil
	}
	if err := s.conn.Channel().Cancel(s.tag, false); err != nil {
		s.logger.Error("subscription_cancel_failed", "", "Failed to cancel change notice consumer", err, map[string]interface{}{
			"queue":    s.queueName,
			"consumer": s.tag,
		})
		return err
	}
	return nil
}
