package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event adalah kejadian audit portal: registrasi selesai, login sukses/gagal,
// session kedaluwarsa. Best-effort; kegagalan publish tidak pernah sampai
// ke user.
type Event struct {
	Type      string         `json:"type"`
	SessionID string         `json:"sessionId"`
	Detail    map[string]any `json:"detail,omitempty"`
	At        time.Time      `json:"at"`
}

// AuditTopic dipakai publisher di sini dan consumer audit log.
const AuditTopic = "portal.audit"

const (
	EventRegistrationCompleted = "registration.completed"
	EventLoginSucceeded        = "login.succeeded"
	EventLoginFailed           = "login.failed"
	EventSessionExpired        = "session.expired"
)

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) {}

func publishEvent(ctx context.Context, writer *kafka.Writer, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}

type kafkaPublisher struct {
	writer *kafka.Writer
	queue  chan Event
	done   chan struct{}
	logger *zap.Logger
}

// NewKafkaPublisher menjalankan satu worker yang menguras queue di belakang;
// Publish tidak pernah block di jalur request.
func NewKafkaPublisher(writer *kafka.Writer, logger ...*zap.Logger) *kafkaPublisher {
	l := zap.L().Named("audit.publisher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.publisher")
	}

	p := &kafkaPublisher{
		writer: writer,
		queue:  make(chan Event, 256),
		done:   make(chan struct{}),
		logger: l,
	}
	go p.run()
	return p
}

func (p *kafkaPublisher) Publish(_ context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	select {
	case p.queue <- event:
	default:
		p.logger.Warn("audit queue full, dropping event", zap.String("type", event.Type))
	}
}

func (p *kafkaPublisher) run() {
	defer close(p.done)

	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := publishEvent(ctx, p.writer, event); err != nil {
			p.logger.Error("failed to publish audit event",
				zap.String("type", event.Type),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Close menguras sisa queue lalu menutup writer.
func (p *kafkaPublisher) Close() error {
	close(p.queue)
	<-p.done
	return p.writer.Close()
}
