package session

import (
	"net/http"

	"github.com/hzqula/portal-gateway/internal/pkg/request"
	"github.com/hzqula/portal-gateway/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	store  *Store
	logger *zap.Logger
}

func NewHandler(store *Store, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("session.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.handler")
	}
	return &Handler{store: store, logger: l}
}

type sessionResponse struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user"`
}

func (h *Handler) Current(c *gin.Context) {
	sid := c.GetString(request.GinSessionIDKey)

	sess, ok := h.store.Get(c.Request.Context(), sid)
	if !ok {
		response.Success(c, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}

	// Token tidak pernah ikut keluar ke browser; cukup statusnya saja.
	response.Success(c, http.StatusOK, sessionResponse{
		Authenticated: sess.Token != "" || sess.User != nil,
		User:          sess.User,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	sid := c.GetString(request.GinSessionIDKey)

	if err := h.store.Logout(c.Request.Context(), sid); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Gagal logout, coba lagi.", nil)
		return
	}

	response.Success(c, http.StatusOK, "Logout success.")
}
