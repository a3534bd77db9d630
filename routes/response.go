package routes

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"medmind-server/middleware"
	"medmind-server/services"
	"medmind-server/validation"
)

// responder shapes error bodies. Internal details are only exposed outside
// production.
type responder struct {
	production bool
	logger     *slog.Logger
}

func (r responder) fail(c *gin.Context, err error, fallback string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": verr.Message,
			"errors":  verr.Fields,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		r.message(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrInvalidToken):
		r.message(c, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, services.ErrUserNotFound):
		r.message(c, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrEmailTaken):
		r.message(c, http.StatusConflict, "User already exists with this email")
	default:
		c.Error(err)
		r.logger.Error(fallback, "request_id", c.GetString(middleware.ContextRequestID), "error", err)
		body := gin.H{"success": false, "message": fallback}
		if !r.production {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

func (r responder) message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// bindJSON decodes the body into dst. An empty or non-JSON body leaves dst
// untouched so that the required-field checks produce the usual message. It
// reports false after writing the error response.
func (r responder) bindJSON(c *gin.Context, dst interface{}) bool {
	if c.ContentType() != gin.MIMEJSON {
		return true
	}
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		r.message(c, http.StatusRequestEntityTooLarge, "Request body exceeds maximum size limit")
		return false
	}
	r.message(c, http.StatusBadRequest, "Invalid request body")
	return false
}
