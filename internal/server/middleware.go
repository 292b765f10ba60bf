package server

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-vault/internal/errors"
)

// requestLogger logs one line per request once it has been handled
func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request handled")
	}
}

// statusForError maps an application error code to an HTTP status
func statusForError(err error) int {
	switch errors.CodeOf(err) {
	case errors.CodeInvalidArg, errors.CodeConfiguration:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"detail": message}
func respondError(c *gin.Context, err error) {
	msg := "internal server error"
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		msg = appErr.Message
	}
	c.JSON(statusForError(err), gin.H{"detail": msg})
}

func respondDetail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"detail": msg})
}
