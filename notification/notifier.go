// Package notification is the engine's boundary to the external fan-out
// collaborator. Events are published to a Kafka topic; delivery transport
// (email, push) happens downstream and is out of the engine's hands.
// Publishing is best-effort: failures are logged and never surfaced to the
// operation that triggered them.
package notification

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"sevasetu-backend/models"
	"sevasetu-backend/utils/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// EventType keys a notification event by what happened to the task
type EventType string

const (
	EventTaskCreated   EventType = "task.created"
	EventTaskAccepted  EventType = "task.accepted"
	EventTaskPicked    EventType = "task.picked"
	EventTaskDelivered EventType = "task.delivered"
)

// TaskEvent is the wire payload handed to the collaborator
type TaskEvent struct {
	Type        EventType         `json:"type"`
	TaskID      string            `json:"taskId"`
	TaskKind    models.TaskKind   `json:"taskKind"`
	Initiative  models.Initiative `json:"initiative"`
	Location    string            `json:"location"`
	Status      models.TaskStatus `json:"status"`
	VolunteerID string            `json:"volunteerId,omitempty"` // recipient for created, actor otherwise
	OccurredAt  time.Time         `json:"occurredAt"`
}

// EventForStatus maps a task status to its notification event type.
func EventForStatus(status models.TaskStatus) EventType {
	switch status {
	case models.TaskStatusAccepted:
		return EventTaskAccepted
	case models.TaskStatusPicked:
		return EventTaskPicked
	case models.TaskStatusDelivered:
		return EventTaskDelivered
	}
	return EventTaskCreated
}

// Notifier is the engine-facing contract. Implementations must be safe for
// concurrent use and must never block a state transition on delivery.
type Notifier interface {
	// TaskCreated fans out one created event per target volunteer.
	TaskCreated(ctx context.Context, task *models.Task, volunteerIDs []string)
	// TaskTransitioned publishes a single event for a status change.
	TaskTransitioned(ctx context.Context, task *models.Task, actorID string)
	Close() error
}

// KafkaNotifier publishes events to a Kafka topic
type KafkaNotifier struct {
	writer  *kafka.Writer
	logger  logger.Logger
	timeout time.Duration
}

// NewKafkaNotifier creates a notifier. An empty broker yields a notifier
// that logs and skips every publish, so a missing collaborator never fails
// the engine.
func NewKafkaNotifier(cfg *models.Config, log logger.Logger) *KafkaNotifier {
	n := &KafkaNotifier{
		logger:  log,
		timeout: 5 * time.Second,
	}

	if cfg.KafkaBroker == "" {
		log.Warn("Kafka broker not configured, notification events will be skipped")
		return n
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBroker),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}

	if cfg.KafkaUsername != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{
				Username: cfg.KafkaUsername,
				Password: cfg.KafkaPassword,
			},
			TLS: &tls.Config{},
		}
	}

	n.writer = writer
	return n
}

// TaskCreated publishes one event per matched volunteer. Runs in the
// caller's goroutine only to build messages; the write itself is dispatched
// asynchronously so creation latency and broker latency stay decoupled.
func (n *KafkaNotifier) TaskCreated(ctx context.Context, task *models.Task, volunteerIDs []string) {
	msgs := make([]kafka.Message, 0, len(volunteerIDs))
	now := time.Now()
	for _, volID := range volunteerIDs {
		event := TaskEvent{
			Type:        EventTaskCreated,
			TaskID:      task.ID,
			TaskKind:    task.Kind,
			Initiative:  task.Initiative,
			Location:    task.Location,
			Status:      task.Status,
			VolunteerID: volID,
			OccurredAt:  now,
		}
		msg, err := n.buildMessage(task.ID, event)
		if err != nil {
			n.logger.Errorf("Failed to encode created event for task %s: %v", task.ID, err)
			continue
		}
		msgs = append(msgs, msg)
	}
	n.dispatch(msgs)
}

// TaskTransitioned publishes a single event keyed by the task's new status.
func (n *KafkaNotifier) TaskTransitioned(ctx context.Context, task *models.Task, actorID string) {
	event := TaskEvent{
		Type:        EventForStatus(task.Status),
		TaskID:      task.ID,
		TaskKind:    task.Kind,
		Initiative:  task.Initiative,
		Location:    task.Location,
		Status:      task.Status,
		VolunteerID: actorID,
		OccurredAt:  time.Now(),
	}
	msg, err := n.buildMessage(task.ID, event)
	if err != nil {
		n.logger.Errorf("Failed to encode %s event for task %s: %v", event.Type, task.ID, err)
		return
	}
	n.dispatch([]kafka.Message{msg})
}

func (n *KafkaNotifier) buildMessage(key string, event TaskEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  event.OccurredAt,
	}, nil
}

// dispatch fires the write on its own goroutine with its own deadline. The
// triggering state mutation is already durable by the time we get here, so
// a publish failure is logged and dropped.
func (n *KafkaNotifier) dispatch(msgs []kafka.Message) {
	if n.writer == nil || len(msgs) == 0 {
		if n.writer == nil && len(msgs) > 0 {
			n.logger.Debugf("Notifier disabled - skipping %d event(s)", len(msgs))
		}
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.writer.WriteMessages(ctx, msgs...); err != nil {
			n.logger.Errorf("Failed to publish %d notification event(s): %v", len(msgs), err)
		}
	}()
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	if n.writer == nil {
		return nil
	}
	return n.writer.Close()
}
