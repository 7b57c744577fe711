package consumer

import (
	"context"
	"encoding/json"

	"github.com/hzqula/portal-gateway/internal/messaging/kafka/producer"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEvents membaca audit event portal dan menuliskannya ke structured
// log sebagai audit trail. Blocking sampai context dibatalkan.
func ConsumeEvents(ctx context.Context, reader *kafka.Reader, logger ...*zap.Logger) {
	l := zap.L().Named("audit.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.consumer")
	}

	l.Info("started consuming audit events")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.Warn("failed to fetch message", zap.Error(err))
			continue
		}

		eventType := getHeader(msg.Headers, "event_type")

		switch eventType {
		case producer.EventRegistrationCompleted,
			producer.EventLoginSucceeded,
			producer.EventLoginFailed,
			producer.EventSessionExpired:
			logEvent(l, msg.Value)
		default:
			l.Debug("skipping unknown event type", zap.String("event_type", eventType))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			l.Warn("failed to commit message", zap.Error(err))
		}
	}
}

func logEvent(l *zap.Logger, payload []byte) {
	var event producer.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		l.Warn("malformed audit event payload", zap.Error(err))
		return
	}

	l.Info("audit event",
		zap.String("type", event.Type),
		zap.String("session_id", event.SessionID),
		zap.Time("at", event.At),
		zap.Any("detail", event.Detail),
	)
}

func getHeader(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
