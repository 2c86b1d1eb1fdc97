package handlers

import (
	"errors"
	"net/http"

	"github.com/bookit/bookit-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response is the envelope every endpoint returns. Callers branch on Success.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondFailure(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
		Error:   code,
	})
}

// statusForKind maps service error kinds to HTTP status codes.
// A taken slot is reported as 400, not 409, matching the existing clients.
func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindInvalidRequest, services.KindConflict:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders a service error. Internal causes are logged and never
// sent to the caller.
func respondError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	var appErr *services.AppError
	if !errors.As(err, &appErr) {
		appErr = services.NewInternal(fallback, err)
	}

	if appErr.Kind == services.KindInternal {
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error(appErr.Message)
		_ = c.Error(err)
	}

	respondFailure(c, statusForKind(appErr.Kind), string(appErr.Kind), appErr.Message)
}
