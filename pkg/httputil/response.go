package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicops/clinic-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents an API error with its stable kind tag.
type Error struct {
	Kind    errors.Kind `json:"kind"`
	Message string      `json:"message"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response, mapping the error kind to an
// HTTP status.
func RespondWithError(c *gin.Context, err error) {
	kind := errors.KindOf(err)

	message := "internal server error"
	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
	}

	c.JSON(statusForKind(kind), Response{
		Success: false,
		Error: &Error{
			Kind:    kind,
			Message: message,
		},
	})
}

func statusForKind(kind errors.Kind) int {
	switch kind {
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindConflict:
		return http.StatusConflict
	case errors.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case errors.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
