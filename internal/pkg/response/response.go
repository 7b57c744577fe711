package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Message   string       `json:"message,omitempty"`
	RequestID string       `json:"requestId,omitempty"`
	Timestamp string       `json:"timestamp"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success untuk response berhasil
func Success(c *gin.Context, status int, data interface{}) {
	requestId := c.GetString("X-Request-ID")
	c.JSON(status, APIResponse{
		Success:   true,
		Data:      data,
		RequestID: requestId,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Error untuk response gagal. Details dipakai untuk field-level errors
// (map nama field -> pesan), nil kalau tidak ada.
func Error(c *gin.Context, status int, errCode string, message string, details interface{}) {
	requestId := c.GetString("X-Request-ID")
	c.JSON(status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &ErrorDetail{
			Code:    errCode,
			Message: message,
			Details: details,
		},
		Message:   message,
		RequestID: requestId,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
