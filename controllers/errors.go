package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grandstay-backend/services"
	"grandstay-backend/utils"
)

// respondServiceError translates the service error taxonomy to HTTP. Every
// rejected operation reports why; store errors are the only 500s.
func respondServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.JSONFieldError(c, http.StatusBadRequest, vErr.Field, vErr.Message)
	case errors.Is(err, services.ErrInvalidDateRange):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrRoomUnavailable):
		utils.JSONError(c, http.StatusConflict, "room not available")
	case errors.Is(err, services.ErrDateConflict):
		utils.JSONError(c, http.StatusConflict, "room already booked for these dates")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "booking status transition not allowed")
	case errors.Is(err, services.ErrRoomHasBookings):
		utils.JSONError(c, http.StatusConflict, "room still has confirmed bookings")
	case errors.Is(err, services.ErrEmailTaken):
		utils.JSONError(c, http.StatusConflict, "email already in use")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
	}
}
