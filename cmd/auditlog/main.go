package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/hzqula/portal-gateway/internal/config"
	"github.com/hzqula/portal-gateway/internal/messaging/kafka/consumer"
	"github.com/hzqula/portal-gateway/internal/messaging/kafka/producer"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Audit log tailer: berjalan terpisah dari gateway, menguras topic audit
// supaya jejak registrasi/login tersimpan di log terstruktur.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.KafkaBroker == "" {
		log.Fatal("KAFKA_BROKER is not configured")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		GroupID: "portal-audit-log",
		Topic:   producer.AuditTopic,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeEvents(ctx, reader, logger)
	logger.Info("audit consumer stopped")
}
