package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/response"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, internal.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, internal.ErrNotFound), errors.Is(err, internal.ErrTokenNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(msg + ": " + err.Error())
	case http.StatusNotFound:
		resp = response.NotFound(msg + ": " + err.Error())
	case http.StatusInternalServerError:
		// internal details stay in the log
		resp = response.InternalError(msg)
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

// HandleDomainError picks the status from the error itself.
func HandleDomainError(c *gin.Context, logger internal.Logger, err error, msg string) {
	HandleError(c, logger, err, statusFor(err), msg)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, response.Success(data, meta))
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Created", requestID)
	c.JSON(http.StatusCreated, response.Success(data, meta))
}
