package session

import (
	"github.com/hzqula/portal-gateway/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.GET("/session",
			middleware.RateLimitByIP(5, 10),
			handler.Current,
		)

		auth.POST("/logout",
			middleware.RateLimitByIP(1, 2),
			handler.Logout,
		)
	}
}
