package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"grandstay-backend/services"
	"grandstay-backend/utils"
)

// AdminController groups the admin-panel operations: booking oversight,
// dashboard numbers and exports. All routes behind the admin role gate.
type AdminController struct {
	Bookings *services.BookingService
}

func NewAdminController(bookings *services.BookingService) *AdminController {
	return &AdminController{Bookings: bookings}
}

type updateBookingPayload struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateBooking transitions a booking (cancel/complete) and/or updates its
// payment status.
func (ad *AdminController) UpdateBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload updateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	booking, err := ad.Bookings.UpdateStatus(id, payload.Status, payload.PaymentStatus)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ad *AdminController) DeleteBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ad.Bookings.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "booking deleted"})
}

func (ad *AdminController) Stats(c *gin.Context) {
	stats, err := ad.Bookings.Stats()
	if err != nil {
		log.Printf("failed to compute stats: %v", err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ad *AdminController) RecentBookings(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	list, err := ad.Bookings.Recent(limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// ReconcileRoom recomputes a room's status from its confirmed bookings.
func (ad *AdminController) ReconcileRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ad.Bookings.ReconcileRoomStatus(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room status reconciled"})
}

// ExportBookings streams the booking ledger as an XLSX workbook.
func (ad *AdminController) ExportBookings(c *gin.Context) {
	list, err := ad.Bookings.List(services.BookingFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bookings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Reference", "Guest", "Email", "Room", "Check-In", "Check-Out",
		"Nights", "Guests", "Total Price", "Status", "Payment Status", "Created",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, b := range list {
		nights, _ := services.Nights(b.CheckIn, b.CheckOut)
		values := []interface{}{
			b.ReferenceCode,
			fmt.Sprintf("%s %s", b.User.FirstName, b.User.LastName),
			b.User.Email,
			b.Room.Name,
			b.CheckIn.Format("2006-01-02"),
			b.CheckOut.Format("2006-01-02"),
			nights,
			b.Guests,
			b.TotalPrice,
			b.Status,
			b.PaymentStatus,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		log.Printf("failed to write bookings export: %v", err)
	}
}
