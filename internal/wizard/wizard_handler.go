package wizard

import (
	"errors"
	"io"
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
	l := zap.L().Named("wizard.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("wizard.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) SubmitEmail(c *gin.Context) {
	var req SubmitEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	sid := c.GetString(request.GinSessionIDKey)
	state, err := h.service.SubmitEmail(c.Request.Context(), sid, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	sid := c.GetString(request.GinSessionIDKey)
	state, err := h.service.VerifyCode(c.Request.Context(), sid, req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

func (h *Handler) ResendCode(c *gin.Context) {
	sid := c.GetString(request.GinSessionIDKey)
	state, err := h.service.ResendCode(c.Request.Context(), sid)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

func (h *Handler) Back(c *gin.Context) {
	sid := c.GetString(request.GinSessionIDKey)
	state, err := h.service.Back(c.Request.Context(), sid)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// AttachPicture menerima file lewat multipart field "profilePicture".
// Validasi ukuran/tipe dilakukan di sini (saat dipilih), bukan saat submit.
func (h *Handler) AttachPicture(c *gin.Context) {
	fileHeader, err := c.FormFile("profilePicture")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "File profilePicture wajib diisi", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "File tidak bisa dibaca", nil)
		return
	}
	defer file.Close()

	// Batasi baca sampai limit+1 supaya file kelewat besar tetap terdeteksi
	// tanpa menelan seluruh isinya ke memori.
	data, err := io.ReadAll(io.LimitReader(file, maxPictureBytes+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "File tidak bisa dibaca", nil)
		return
	}

	sid := c.GetString(request.GinSessionIDKey)
	state, err := h.service.AttachPicture(
		c.Request.Context(),
		sid,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

func (h *Handler) ClearPicture(c *gin.Context) {
	sid := c.GetString(request.GinSessionIDKey)
	state, err := h.service.ClearPicture(c.Request.Context(), sid)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

func (h *Handler) SubmitDetails(c *gin.Context) {
	var req DetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	sid := c.GetString(request.GinSessionIDKey)
	state, err := h.service.SubmitDetails(c.Request.Context(), sid, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

func (h *Handler) State(c *gin.Context) {
	sid := c.GetString(request.GinSessionIDKey)
	response.Success(c, http.StatusOK, h.service.State(c.Request.Context(), sid))
}

// Role dihitung murni dari suffix domain, tidak pernah memanggil backend.
// Dipanggil frontend setiap input email berubah.
func (h *Handler) Role(c *gin.Context) {
	email := c.Query("email")
	response.Success(c, http.StatusOK, RoleResponse{
		Email:        email,
		InferredRole: RoleForEmail(email),
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
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

	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("wizard request failed", zap.Error(err))
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}
