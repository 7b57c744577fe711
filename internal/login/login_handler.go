package login

import (
	"errors"
	"net/http"

	"github.com/hzqula/portal-gateway/internal/backend"
	"github.com/hzqula/portal-gateway/internal/pkg/apperror"
	"github.com/hzqula/portal-gateway/internal/pkg/request"
	"github.com/hzqula/portal-gateway/internal/pkg/response"
	"github.com/hzqula/portal-gateway/internal/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("login.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("login.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	sid := c.GetString(request.GinSessionIDKey)
	res, err := h.service.Login(c.Request.Context(), sid, req)
	if err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", fieldErrs)
			return
		}

		var berr *backend.Error
		if errors.As(err, &berr) {
			status := http.StatusBadGateway
			if berr.Kind == backend.KindServer && berr.Status > 0 {
				status = berr.Status
			}
			response.Error(c, status, apperror.CodeUpstreamError, berr.UserMessage(), nil)
			return
		}

		h.logger.Error("login request failed", zap.Error(err))
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, res)
}
