package login

import (
	"github.com/hzqula/portal-gateway/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		// Mencegah brute force password: 1 request per 10 detik per IP.
		auth.POST("/login",
			middleware.RateLimitByIP(0.1, 3),
			handler.Login,
		)
	}
}
