package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Booking statuses. Confirmed is the only active state; cancelled and
// completed are terminal.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusFailed   = "failed"
)

// AllowedPaymentMethods mirrors the payment options the frontend offers.
var AllowedPaymentMethods = []string{"credit_card", "paypal", "bank_transfer", "cash"}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"index;column:user_id" json:"userId"`
	RoomID uint `gorm:"index;column:room_id" json:"roomId"`

	ReferenceCode string    `gorm:"column:reference_code;size:64;uniqueIndex" json:"reference_code"`
	CheckIn       time.Time `gorm:"column:check_in;index" json:"checkIn"`
	CheckOut      time.Time `gorm:"column:check_out;index" json:"checkOut"`
	Guests        int       `gorm:"column:guests;default:1" json:"guests"`
	TotalPrice    float64   `gorm:"column:total_price" json:"totalPrice"`
	Status        string    `gorm:"column:status;size:32;index" json:"status"`
	PaymentStatus string    `gorm:"column:payment_status;size:32;default:pending;index" json:"paymentStatus"`
	PaymentMethod string    `gorm:"column:payment_method;size:32" json:"paymentMethod,omitempty"`

	SpecialRequests string `gorm:"column:special_requests;size:500" json:"specialRequests,omitempty"`

	// ConflictKey is set only while the booking is confirmed and is covered by
	// a unique index. Identical confirmed (room, checkIn, checkOut) inserts
	// fail at the store even if the application-level checks race; the unique
	// index skips NULLs, so cancelled and completed bookings never collide.
	ConflictKey *string `gorm:"column:conflict_key;size:100;uniqueIndex" json:"-"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}

// BookingConflictKey builds the value stored in conflict_key for a confirmed
// stay.
func BookingConflictKey(roomID uint, checkIn, checkOut time.Time) string {
	return fmt.Sprintf("%d:%s:%s", roomID, checkIn.UTC().Format("2006-01-02"), checkOut.UTC().Format("2006-01-02"))
}
