package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gdugdh24/buddyfit-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to an HTTP status and a client-safe message.
func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCannotBuddySelf),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrBuddyNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrNotDiscoverable),
		errors.Is(err, domain.ErrNotReceiver),
		errors.Is(err, domain.ErrNotParticipant):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrBuddyAlreadyExists),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, domain.ErrServiceUnavailable.Error()
	default:
		return http.StatusInternalServerError, fallback
	}
}

func respondError(c *gin.Context, err error, fallback string) {
	status, message := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{Error: message})
}

// validationMessage turns binding errors into a readable message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

func currentUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int)
	return id, ok
}
