package eventstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableside/internal/database"
	"tableside/internal/logger"
	"tableside/internal/messaging"
	"tableside/internal/models"
)

// PostgresStore persists events in PostgreSQL and broadcasts change
// notices over a RabbitMQ fanout exchange. Subscribers re-query the
// full matching result set on every notice, so deliveries always carry
// the complete current state.
type PostgresStore struct {
	db        *database.DB
	conn      *messaging.Connection
	publisher *messaging.Publisher
	logger    *logger.Logger
}

func NewPostgresStore(db *database.DB, conn *messaging.Connection, log *logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:        db,
		conn:      conn,
		publisher: messaging.NewPublisher(conn, log),
		logger:    log,
	}
}

// Append writes one event document and notifies subscribers. The write
// is acknowledged before the notice goes out; a failed notice is only
// logged, since the event is durable and the next change re-delivers
// the full result set anyway.
func (s *PostgresStore) Append(ctx context.Context, ev models.Event) (string, error) {
	payload, err := models.EncodeEvent(ev)
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}

	id := uuid.NewString()
	var createdAt time.Time
	err = s.db.QueryRow(ctx, database.InsertEventSQL, id, string(ev.EventType()), payload).Scan(&createdAt)
	if err != nil {
		return "", fmt.Errorf("failed to append event: %w", err)
	}

	notice := messaging.ChangeNotice{
		EventType: string(ev.EventType()),
		EventID:   id,
	}
	if err := s.publisher.PublishChange(ctx, notice); err != nil {
		s.logger.Error("change_notify_failed", "", "Event appended but change notice failed", err, map[string]interface{}{
			"event_id":   id,
			"event_type": string(ev.EventType()),
		})
	}

	return id, nil
}

// Subscribe registers a change notice consumer and delivers the full
// matching result set immediately and again after every notice.
func (s *PostgresStore) Subscribe(ctx context.Context, eventType models.EventType, fn SnapshotFunc) (Unsubscribe, error) {
	sub, deliveries, err := messaging.NewSubscriber(s.conn, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start subscription: %w", err)
	}

	done := make(chan struct{})

	go func() {
		s.deliverSnapshot(ctx, eventType, fn)

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				sub.Close()
				return
			case _, ok := <-deliveries:
				if !ok {
					s.logger.Error("subscription_channel_closed", "", "Change notice channel closed", nil, map[string]interface{}{
						"event_type": string(eventType),
					})
					return
				}
				s.deliverSnapshot(ctx, eventType, fn)
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			sub.Close()
		})
	}
	return unsubscribe, nil
}

// deliverSnapshot queries the current result set and hands it to the
// subscriber. Query failures leave the previous mirror in place.
func (s *PostgresStore) deliverSnapshot(ctx context.Context, eventType models.EventType, fn SnapshotFunc) {
	snapshot, err := s.queryByType(ctx, eventType)
	if err != nil {
		s.logger.Error("snapshot_query_failed", "", "Failed to query result set for subscription", err, map[string]interface{}{
			"event_type": string(eventType),
		})
		return
	}
	fn(snapshot)
}

func (s *PostgresStore) queryByType(ctx context.Context, eventType models.EventType) ([]StoredEvent, error) {
	rows, err := s.db.Query(ctx, database.SelectEventsByTypeSQL, string(eventType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var (
			id        string
			payload   []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &payload, &createdAt); err != nil {
			return nil, err
		}

		ev, err := models.DecodeEvent(payload)
		if err != nil {
			s.logger.Error("event_decode_failed", "", "Skipping undecodable event document", err, map[string]interface{}{
				"event_id": id,
			})
			continue
		}

		out = append(out, StoredEvent{ID: id, Event: ev, CreatedAt: createdAt})
	}

	return out, rows.Err()
}
