package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"grandstay-backend/models"
)

// RoomService wraps *gorm.DB for room management.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

type RoomFilter struct {
	Status   string
	MinPrice *float64
	MaxPrice *float64
}

func validateAmenities(raw []byte) error {
	if len(raw) == 0 {
		return validationErr("amenities", "at least one amenity is required")
	}
	var amenities []string
	if err := json.Unmarshal(raw, &amenities); err != nil {
		return validationErr("amenities", "must be a list of amenity names")
	}
	if len(amenities) == 0 {
		return validationErr("amenities", "at least one amenity is required")
	}
	allowed := make(map[string]bool, len(models.AllowedAmenities))
	for _, a := range models.AllowedAmenities {
		allowed[a] = true
	}
	for _, a := range amenities {
		if !allowed[a] {
			return validationErr("amenities", fmt.Sprintf("unknown amenity %q", a))
		}
	}
	return nil
}

func validateRoom(room *models.Room) error {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return validationErr("name", "room name is required")
	}
	if len(room.Name) > 100 {
		return validationErr("name", "cannot exceed 100 characters")
	}
	if len(room.Description) > 500 {
		return validationErr("description", "cannot exceed 500 characters")
	}
	if room.Price < 0 {
		return validationErr("price", "cannot be negative")
	}
	if room.Capacity < 1 {
		return validationErr("capacity", "must be at least 1")
	}
	if room.Beds < 1 {
		return validationErr("beds", "must have at least 1 bed")
	}
	if room.Discount < 0 || room.Discount > 100 {
		return validationErr("discount", "must be between 0 and 100")
	}
	if room.Rating != nil && (*room.Rating < 1 || *room.Rating > 5) {
		return validationErr("rating", "must be between 1 and 5")
	}
	if err := validateAmenities(room.Amenities); err != nil {
		return err
	}
	var images []string
	if len(room.Images) == 0 {
		return validationErr("images", "at least one image is required")
	}
	if err := json.Unmarshal(room.Images, &images); err != nil || len(images) == 0 {
		return validationErr("images", "at least one image is required")
	}
	switch room.Status {
	case "", models.RoomStatusAvailable, models.RoomStatusOccupied, models.RoomStatusMaintenance:
	default:
		return validationErr("status", "unknown room status")
	}
	return nil
}

func (s *RoomService) Create(room *models.Room) error {
	if err := validateRoom(room); err != nil {
		return err
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	if err := s.DB.Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (s *RoomService) List(filter RoomFilter) ([]models.Room, error) {
	q := s.DB.Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(roomID uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to retrieve room: %w", err)
	}
	return &room, nil
}

// roomUpdateColumns maps the editable JSON fields to their columns. Anything
// not listed (ids, timestamps, unknown keys) is dropped from updates.
var roomUpdateColumns = map[string]string{
	"name":        "name",
	"description": "description",
	"price":       "price",
	"capacity":    "capacity",
	"beds":        "beds",
	"amenities":   "amenities",
	"roomSize":    "room_size",
	"images":      "images",
	"status":      "status",
	"isFeatured":  "is_featured",
	"discount":    "discount",
	"rating":      "rating",
}

// Update applies administrative edits. Status is derived state: setting it
// to maintenance (or back) is honored as-is, any other status value is
// recomputed from the confirmed bookings covering now instead of trusted.
func (s *RoomService) Update(roomID uint, edits map[string]interface{}) (*models.Room, error) {
	updates := map[string]interface{}{}
	for field, value := range edits {
		if column, ok := roomUpdateColumns[field]; ok {
			updates[column] = value
		}
	}

	// amenities/images arrive as decoded JSON arrays; store them as JSON bytes
	for _, column := range []string{"amenities", "images"} {
		v, ok := updates[column]
		if !ok {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, validationErr(column, "must be a list")
		}
		updates[column] = datatypes.JSON(raw)
	}
	if v, ok := updates["amenities"]; ok {
		if err := validateAmenities(v.(datatypes.JSON)); err != nil {
			return nil, err
		}
	}

	if v, ok := updates["price"]; ok {
		if price, ok2 := v.(float64); ok2 && price < 0 {
			return nil, validationErr("price", "cannot be negative")
		}
	}
	if v, ok := updates["discount"]; ok {
		if discount, ok2 := v.(float64); ok2 && (discount < 0 || discount > 100) {
			return nil, validationErr("discount", "must be between 0 and 100")
		}
	}

	requestedStatus := ""
	if v, ok := updates["status"]; ok {
		st, _ := v.(string)
		switch st {
		case models.RoomStatusAvailable, models.RoomStatusOccupied, models.RoomStatusMaintenance:
			requestedStatus = st
		default:
			return nil, validationErr("status", "unknown room status")
		}
		if st != models.RoomStatusMaintenance {
			delete(updates, "status")
		}
	}

	var room models.Room
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("failed to find room: %w", err)
		}

		if requestedStatus != "" && requestedStatus != models.RoomStatusMaintenance &&
			room.Status == models.RoomStatusMaintenance {
			// leaving maintenance: drop the flag, reconciliation below
			// decides between available and occupied
			if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
				Update("status", models.RoomStatusAvailable).Error; err != nil {
				return fmt.Errorf("failed to update room status: %w", err)
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Room{}).Where("id = ?", roomID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update room: %w", err)
			}
		}

		if requestedStatus != models.RoomStatusMaintenance {
			if err := reconcileRoomStatusTx(tx, roomID, time.Now().UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.DB.First(&room, roomID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload room: %w", err)
	}
	return &room, nil
}

// Delete refuses to remove a room that still has confirmed bookings; an
// orphaned confirmed booking would break status reconciliation.
func (s *RoomService) Delete(roomID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("failed to find room: %w", err)
		}

		var confirmed int64
		if err := tx.Model(&models.Booking{}).
			Where("room_id = ? AND status = ?", roomID, models.BookingStatusConfirmed).
			Count(&confirmed).Error; err != nil {
			return fmt.Errorf("failed to count bookings: %w", err)
		}
		if confirmed > 0 {
			return ErrRoomHasBookings
		}

		if err := tx.Delete(&models.Room{}, roomID).Error; err != nil {
			return fmt.Errorf("failed to delete room: %w", err)
		}
		return nil
	})
}
