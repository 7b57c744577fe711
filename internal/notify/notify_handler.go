package notify

import (
	"net/http"

	"github.com/hzqula/portal-gateway/internal/pkg/request"
	"github.com/hzqula/portal-gateway/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	feed *Feed
}

func NewHandler(feed *Feed) *Handler {
	return &Handler{feed: feed}
}

func (h *Handler) Pending(c *gin.Context) {
	sid := c.GetString(request.GinSessionIDKey)

	pending := h.feed.Drain(sid)
	if pending == nil {
		pending = []Notification{}
	}

	response.Success(c, http.StatusOK, pending)
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/notifications", handler.Pending)
}
