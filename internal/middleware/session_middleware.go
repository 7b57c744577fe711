package middleware

import (
	"net/http"
	"time"

	"github.com/hzqula/portal-gateway/internal/pkg/request"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionCookieName = "portal_session"

// PortalSession memastikan setiap browser punya session ID yang ditandatangani.
// Cookie berisi JWT HS256 dengan claim "sid"; kalau tidak ada atau tidak valid,
// SID baru dibuat. SID dipasang di gin context dan request context.
func PortalSession(secret string, isProd bool) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		sid := ""
		if cookie, err := c.Cookie(sessionCookieName); err == nil {
			sid = parseSessionID(cookie, key)
		}

		if sid == "" {
			sid = uuid.NewString()

			signed, err := signSessionID(sid, key)
			if err == nil {
				http.SetCookie(c.Writer, &http.Cookie{
					Name:     sessionCookieName,
					Value:    signed,
					Path:     "/",
					MaxAge:   86400, // 1 hari
					HttpOnly: true,
					Secure:   isProd,
					SameSite: http.SameSiteLaxMode,
				})
			}
		}

		c.Set(request.GinSessionIDKey, sid)
		c.Request = c.Request.WithContext(request.WithSessionID(c.Request.Context(), sid))

		c.Next()
	}
}

func signSessionID(sid string, key []byte) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

func parseSessionID(cookie string, key []byte) string {
	token, err := jwt.Parse(cookie, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	sid, _ := claims["sid"].(string)
	return sid
}
