package main

import (
	"log"
	"time"

	"github.com/hzqula/portal-gateway/internal/app"
	"github.com/hzqula/portal-gateway/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// build dependency + routes
	cleanup, err := app.BuildApp(r, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}
	defer cleanup()

	err = app.StartHTTPServer(r, app.ServerConfig{
		Port:        cfg.Port,
		ReadTimeout: 5 * time.Second,
		// Verifikasi OTP menahan response minimal 2 detik, jadi write
		// timeout harus longgar.
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("http server error", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
