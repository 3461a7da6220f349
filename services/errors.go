package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrRoomNotFound       = errors.New("room_not_found")
	ErrBookingNotFound    = errors.New("booking_not_found")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrRoomUnavailable    = errors.New("room_unavailable")
	ErrDateConflict       = errors.New("room already booked for these dates")
	ErrInvalidTransition  = errors.New("invalid_status_transition")
	ErrRoomHasBookings    = errors.New("room has confirmed bookings")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// isDuplicateKeyErr reports whether a store error is a unique-constraint
// violation. GORM translates the driver error when TranslateError is on;
// the substring check covers drivers that don't.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") || strings.Contains(lc, "constraint")
}
