package app

import (
	"github.com/hzqula/portal-gateway/internal/config"
	"github.com/hzqula/portal-gateway/internal/messaging/kafka/producer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp merakit dependency dan route. Fungsi cleanup yang dikembalikan
// dipanggil saat shutdown untuk menguras audit queue.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) (func(), error) {
	// 1. Infrastructure
	rdb, err := connectRedisWithRetry(cfg.RedisAddr, 5, logger)
	if err != nil {
		return nil, err
	}

	// Kafka opsional: tanpa broker, audit event cuma masuk log.
	var audit producer.Publisher = producer.NewNoopPublisher()
	cleanup := func() {}
	if cfg.KafkaBroker != "" {
		writer, err := connectKafkaWithRetry(cfg.KafkaBroker, producer.AuditTopic, 5, logger)
		if err != nil {
			return nil, err
		}
		kp := producer.NewKafkaPublisher(writer, logger)
		audit = kp
		cleanup = func() {
			if err := kp.Close(); err != nil {
				logger.Error("failed to close audit publisher", zap.Error(err))
			}
		}
	}

	// 2. Modules & routes
	registerModules(router, cfg, rdb, audit, logger)

	return cleanup, nil
}
