package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/middleware"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, apperr.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error for err. Internal failures are logged
// and their details are not sent to the client.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	if apperr.Retryable(err) {
		body["retryable"] = true
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		h.Log.Error("handler", middleware.RequestID(c), "request failed", err)
		if status == http.StatusInternalServerError {
			body["error"] = "Internal server error"
		} else {
			body["error"] = "Could not save your order, please try again"
		}
	}
	c.JSON(status, body)
}
