package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"grandstay-backend/middleware"
	"grandstay-backend/models"
	"grandstay-backend/services"
	"grandstay-backend/utils"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{Bookings: bookings}
}

type createBookingPayload struct {
	RoomID          uint   `json:"roomId"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	Guests          int    `json:"guests"`
	PaymentMethod   string `json:"paymentMethod"`
	SpecialRequests string `json:"specialRequests"`
}

// parseStayDate accepts plain dates and RFC3339 timestamps.
func parseStayDate(raw string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// CreateBooking books a room for the authenticated user.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	checkIn, ok := parseStayDate(payload.CheckIn)
	if !ok {
		utils.JSONFieldError(c, http.StatusBadRequest, "checkIn", "invalid date format")
		return
	}
	checkOut, ok := parseStayDate(payload.CheckOut)
	if !ok {
		utils.JSONFieldError(c, http.StatusBadRequest, "checkOut", "invalid date format")
		return
	}

	booking, err := bc.Bookings.Create(services.CreateBookingInput{
		UserID:          middleware.CurrentUserID(c),
		RoomID:          payload.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          payload.Guests,
		PaymentMethod:   payload.PaymentMethod,
		SpecialRequests: payload.SpecialRequests,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GetBookings lists the caller's bookings. Admins see all bookings and may
// filter by status, payment status, room and user.
func (bc *BookingController) GetBookings(c *gin.Context) {
	filter := services.BookingFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
	}
	if raw := c.Query("roomId"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.RoomID = uint(v)
		}
	}

	if middleware.CurrentRole(c) == models.RoleAdmin {
		if raw := c.Query("userId"); raw != "" {
			if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
				filter.UserID = uint(v)
			}
		}
	} else {
		filter.UserID = middleware.CurrentUserID(c)
	}

	list, err := bc.Bookings.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GetBooking returns one booking; only its owner or an admin may read it.
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := bc.Bookings.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if middleware.CurrentRole(c) != models.RoleAdmin && booking.UserID != middleware.CurrentUserID(c) {
		utils.JSONError(c, http.StatusForbidden, "insufficient permissions")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}
