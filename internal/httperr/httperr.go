package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code      string     `json:"error_code"`
	Message   string     `json:"message"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Respond maps a use case error onto the HTTP response.
func Respond(c *gin.Context, err error) {
	var (
		ve ValidationError
		ce ConflictError
		ae AuthorizationError
		ne NotFoundError
		be BusinessError
	)

	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Code, ve.Message)

	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, HTTPError{
			Code:      "time_conflict",
			Message:   "The room is already booked for the requested time.",
			Conflicts: ce.Conflicts,
		})

	case IsExclusionConflict(err):
		Write(c, http.StatusConflict, "time_conflict", "The room is already booked for the requested time.")

	case errors.As(err, &ae):
		Forbidden(c, ae.Code, "You are not allowed to change this booking.")

	case errors.As(err, &ne):
		NotFound(c, ne.Code, "Not found.")

	case errors.As(err, &be):
		Write(c, http.StatusConflict, be.Code, "The booking cannot change from its current state.")

	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		Internal(c, "internal_error", "Something went wrong. Please try again.")
	}
}
