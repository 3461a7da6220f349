// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grandstay-backend/models"
)

// BookingService wraps *gorm.DB and owns the booking lifecycle: conflict
// checking, price calculation, status transitions and room-status upkeep.
type BookingService struct {
	DB    *gorm.DB
	locks *roomLocks
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db, locks: newRoomLocks()}
}

type CreateBookingInput struct {
	UserID          uint
	RoomID          uint
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	PaymentMethod   string
	SpecialRequests string
}

type BookingFilter struct {
	Status        string
	PaymentStatus string
	RoomID        uint
	UserID        uint
}

type BookingStats struct {
	TotalBookings int64   `json:"totalBookings"`
	TotalGuests   int64   `json:"totalGuests"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// HasConflict reports whether a confirmed booking for the room overlaps the
// candidate [checkIn, checkOut) range. Half-open interval semantics: an
// existing check-out on the candidate's check-in day is not a conflict.
// Cancelled and completed bookings never conflict. No side effects.
func (s *BookingService) HasConflict(roomID uint, checkIn, checkOut time.Time) (bool, error) {
	return hasConflictTx(s.DB, roomID, TruncateToDay(checkIn), TruncateToDay(checkOut))
}

func hasConflictTx(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	var count int64
	err := tx.Model(&models.Booking{}).
		Where("room_id = ? AND status = ?", roomID, models.BookingStatusConfirmed).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check booking conflicts: %w", err)
	}
	return count > 0, nil
}

func validatePaymentMethod(method string) error {
	if method == "" {
		return nil
	}
	for _, m := range models.AllowedPaymentMethods {
		if m == method {
			return nil
		}
	}
	return validationErr("paymentMethod", "unknown payment method")
}

func validatePaymentStatus(status string) error {
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusRefunded, models.PaymentStatusFailed:
		return nil
	}
	return validationErr("paymentStatus", "unknown payment status")
}

// Create validates the request, serializes on the room's lock and inserts a
// confirmed booking inside a transaction. The room must be available and the
// dates must not overlap an existing confirmed booking; the unique
// conflict-key index backs the in-transaction check, and a duplicate-key
// failure is reported as a date conflict, not a store error.
func (s *BookingService) Create(input CreateBookingInput) (*models.Booking, error) {
	if input.UserID == 0 {
		return nil, validationErr("userId", "user is required")
	}
	if input.RoomID == 0 {
		return nil, validationErr("roomId", "room is required")
	}
	if input.Guests < 1 {
		return nil, validationErr("guests", "minimum 1 guest required")
	}
	if len(input.SpecialRequests) > 500 {
		return nil, validationErr("specialRequests", "cannot exceed 500 characters")
	}
	if err := validatePaymentMethod(input.PaymentMethod); err != nil {
		return nil, err
	}

	checkIn := TruncateToDay(input.CheckIn)
	checkOut := TruncateToDay(input.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	if checkIn.Before(TruncateToDay(time.Now())) {
		return nil, validationErr("checkIn", "check-in date must not be in the past")
	}

	// Serialize creation per room: the conflict check and the insert are two
	// store operations, and the unique index alone cannot reject
	// overlapping-but-not-identical ranges.
	lock := s.locks.forRoom(input.RoomID)
	lock.Lock()
	defer lock.Unlock()

	var created models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, input.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("db error checking room %d: %w", input.RoomID, err)
		}
		if room.Status != models.RoomStatusAvailable {
			return ErrRoomUnavailable
		}
		if room.Capacity > 0 && input.Guests > room.Capacity {
			return validationErr("guests", fmt.Sprintf("room sleeps at most %d guests", room.Capacity))
		}

		var user models.User
		if err := tx.First(&user, input.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("db error checking user %d: %w", input.UserID, err)
		}

		conflict, err := hasConflictTx(tx, input.RoomID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if conflict {
			return ErrDateConflict
		}

		total, err := ComputeTotal(room.Price, checkIn, checkOut)
		if err != nil {
			return err
		}

		key := models.BookingConflictKey(input.RoomID, checkIn, checkOut)
		booking := models.Booking{
			UserID:          input.UserID,
			RoomID:          input.RoomID,
			ReferenceCode:   uuid.NewString(),
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			Guests:          input.Guests,
			TotalPrice:      total,
			Status:          models.BookingStatusConfirmed,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   input.PaymentMethod,
			SpecialRequests: input.SpecialRequests,
			ConflictKey:     &key,
		}
		if err := tx.Create(&booking).Error; err != nil {
			if isDuplicateKeyErr(err) {
				return ErrDateConflict
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// Explicit lifecycle step, not a save hook: the room status is
		// recomputed together with the insert. A stay starting today flips
		// the room to occupied; a future stay leaves it available so
		// back-to-back bookings stay possible.
		if err := reconcileRoomStatusTx(tx, room.ID, time.Now().UTC()); err != nil {
			return err
		}

		created = booking
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.DB.Preload("Room").Preload("User").First(&created, created.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}
	return &created, nil
}

// UpdateStatus applies a lifecycle transition and/or payment-status
// bookkeeping. Confirmed is the only state transitions may leave from;
// cancelled and completed are terminal except for payment updates. The
// room's status is recomputed from the confirmed bookings covering now.
func (s *BookingService) UpdateStatus(bookingID uint, newStatus, paymentStatus string) (*models.Booking, error) {
	if newStatus == "" && paymentStatus == "" {
		return nil, validationErr("status", "nothing to update")
	}
	if newStatus != "" {
		switch newStatus {
		case models.BookingStatusConfirmed, models.BookingStatusCancelled, models.BookingStatusCompleted:
		default:
			return nil, validationErr("status", "unknown booking status")
		}
	}
	if paymentStatus != "" {
		if err := validatePaymentStatus(paymentStatus); err != nil {
			return nil, err
		}
	}

	var booking models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to find booking: %w", err)
		}

		updates := map[string]interface{}{}

		if newStatus != "" && newStatus != booking.Status {
			if booking.Status != models.BookingStatusConfirmed {
				return ErrInvalidTransition
			}
			if newStatus == models.BookingStatusConfirmed {
				return ErrInvalidTransition
			}
			updates["status"] = newStatus
			updates["conflict_key"] = nil
		}
		if paymentStatus != "" {
			updates["payment_status"] = paymentStatus
		}

		if len(updates) > 0 {
			if err := tx.Model(&booking).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update booking: %w", err)
			}
		}

		if _, ok := updates["status"]; ok {
			if err := reconcileRoomStatusTx(tx, booking.RoomID, time.Now().UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.DB.Preload("Room").Preload("User").First(&booking, booking.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}
	return &booking, nil
}

// List returns bookings matching the filter, newest first.
func (s *BookingService) List(filter BookingFilter) ([]models.Booking, error) {
	q := s.DB.Preload("Room").Preload("User").Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.RoomID != 0 {
		q = q.Where("room_id = ?", filter.RoomID)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}

	var list []models.Booking
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

func (s *BookingService) GetByID(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Room").Preload("User").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

// Delete removes a booking and recomputes the room status. The conflict key
// is cleared first so the soft-deleted row cannot block a future rebooking
// of the same range.
func (s *BookingService) Delete(bookingID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to find booking: %w", err)
		}
		if err := tx.Model(&booking).Update("conflict_key", nil).Error; err != nil {
			return fmt.Errorf("failed to clear conflict key: %w", err)
		}
		if err := tx.Delete(&booking).Error; err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		return reconcileRoomStatusTx(tx, booking.RoomID, time.Now().UTC())
	})
}

// Recent returns the latest bookings for the admin dashboard.
func (s *BookingService) Recent(limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 5
	}
	var list []models.Booking
	err := s.DB.Preload("Room").Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent bookings: %w", err)
	}
	return list, nil
}

// Stats aggregates the admin dashboard numbers: booking count, registered
// guests, and revenue over paid bookings.
func (s *BookingService) Stats() (BookingStats, error) {
	var stats BookingStats

	if err := s.DB.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return stats, fmt.Errorf("failed to count bookings: %w", err)
	}
	if err := s.DB.Model(&models.User{}).
		Where("role = ?", models.RoleUser).
		Count(&stats.TotalGuests).Error; err != nil {
		return stats, fmt.Errorf("failed to count guests: %w", err)
	}
	if err := s.DB.Model(&models.Booking{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return stats, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return stats, nil
}

// ReconcileRoomStatus recomputes a room's status from the confirmed bookings
// covering now. Room status is a lazily-reconciled cache: a crash between
// the booking write and the room write can leave it stale, and this is the
// recovery path. Maintenance rooms are left alone.
func (s *BookingService) ReconcileRoomStatus(roomID uint) error {
	return reconcileRoomStatusTx(s.DB, roomID, time.Now().UTC())
}

// ReconcileAllRooms sweeps every room through ReconcileRoomStatus.
func (s *BookingService) ReconcileAllRooms() error {
	var ids []uint
	if err := s.DB.Model(&models.Room{}).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}
	now := time.Now().UTC()
	for _, id := range ids {
		if err := reconcileRoomStatusTx(s.DB, id, now); err != nil {
			return err
		}
	}
	return nil
}

func reconcileRoomStatusTx(tx *gorm.DB, roomID uint, now time.Time) error {
	var room models.Room
	if err := tx.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to find room: %w", err)
	}
	if room.Status == models.RoomStatusMaintenance {
		return nil
	}

	var active int64
	err := tx.Model(&models.Booking{}).
		Where("room_id = ? AND status = ?", roomID, models.BookingStatusConfirmed).
		Where("check_in <= ? AND check_out > ?", now, now).
		Count(&active).Error
	if err != nil {
		return fmt.Errorf("failed to count active bookings: %w", err)
	}

	status := models.RoomStatusAvailable
	if active > 0 {
		status = models.RoomStatusOccupied
	}
	if status == room.Status {
		return nil
	}
	return tx.Model(&models.Room{}).Where("id = ?", roomID).Update("status", status).Error
}
