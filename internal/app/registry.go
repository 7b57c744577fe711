package app

import (
	"context"

	"github.com/hzqula/portal-gateway/internal/backend"
	"github.com/hzqula/portal-gateway/internal/config"
	"github.com/hzqula/portal-gateway/internal/login"
	"github.com/hzqula/portal-gateway/internal/messaging/kafka/producer"
	"github.com/hzqula/portal-gateway/internal/middleware"
	"github.com/hzqula/portal-gateway/internal/notify"
	"github.com/hzqula/portal-gateway/internal/pkg/request"
	"github.com/hzqula/portal-gateway/internal/session"
	"github.com/hzqula/portal-gateway/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func registerModules(router *gin.Engine, cfg config.Config, rdb *redis.Client, audit producer.Publisher, logger *zap.Logger) {
	// --- Stores ---
	feed := notify.NewFeed(logger)
	tokenStorage := session.NewRedisTokenStorage(rdb)
	sessionStore := session.NewStore(tokenStorage, cfg.SessionTTL, logger)

	// 401 dari backend: bersihkan credential satu kali dan kabari user;
	// frontend pindah ke halaman login saat /auth/session jadi unauthenticated.
	authExpired := func(ctx context.Context) {
		sid, ok := request.SessionID(ctx)
		if !ok {
			return
		}
		if err := sessionStore.Logout(ctx, sid); err != nil {
			logger.Error("failed to purge expired session", zap.Error(err))
		}
		feed.Error(ctx, "Sesi Anda sudah berakhir. Silakan login kembali.")
		audit.Publish(ctx, producer.Event{
			Type:      producer.EventSessionExpired,
			SessionID: sid,
		})
	}

	backendClient := backend.NewClient(cfg.BackendBaseURL, sessionStore, authExpired, logger)

	// --- Services ---
	wizardService := wizard.NewService(wizard.Deps{
		Backend:  backendClient,
		Sessions: sessionStore,
		Sink:     feed,
		Audit:    audit,
		Logger:   logger,
	})
	loginService := login.NewService(login.Deps{
		Backend:  backendClient,
		Sessions: sessionStore,
		Sink:     feed,
		Audit:    audit,
		Logger:   logger,
	})

	// --- Handlers ---
	wizardHandler := wizard.NewHandler(wizardService, logger)
	loginHandler := login.NewHandler(loginService, logger)
	sessionHandler := session.NewHandler(sessionStore, logger)
	notifyHandler := notify.NewHandler(feed)

	// --- Routes ---
	api := router.Group("/api/v1")
	api.Use(middleware.PortalSession(cfg.SessionSecret, cfg.IsProduction()))
	{
		wizard.RegisterRoutes(api, wizardHandler)
		login.RegisterRoutes(api, loginHandler)
		session.RegisterRoutes(api, sessionHandler)
		notify.RegisterRoutes(api, notifyHandler)
	}
}
