package wizard

import (
	"github.com/hzqula/portal-gateway/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	register := r.Group("/register")
	{
		// Submit email memicu pengiriman OTP, jadi dibatasi ketat.
		register.POST("/email",
			middleware.RateLimitBySession(0.2, 2),
			handler.SubmitEmail,
		)

		register.POST("/verify-otp",
			middleware.RateLimitBySession(0.5, 3),
			handler.VerifyOTP,
		)

		// Resend sudah dijaga cooldown 60 detik; rate limit di sini cuma
		// lapisan kedua.
		register.POST("/resend",
			middleware.RateLimitBySession(0.05, 1),
			handler.ResendCode,
		)

		register.POST("/back", handler.Back)

		register.POST("/picture", handler.AttachPicture)
		register.DELETE("/picture", handler.ClearPicture)

		register.POST("/details",
			middleware.RateLimitBySession(0.2, 2),
			handler.SubmitDetails,
		)

		register.GET("/state", handler.State)
		register.GET("/role", handler.Role)
	}
}
