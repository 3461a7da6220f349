package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"grandstay-backend/models"
)

func validRoom() *models.Room {
	return &models.Room{
		Name:        "Garden Twin",
		Description: "Twin room by the garden",
		Price:       120,
		Capacity:    2,
		Beds:        2,
		Amenities:   datatypes.JSON([]byte(`["WiFi","Breakfast"]`)),
		RoomSize:    "28 sqm",
		Images:      datatypes.JSON([]byte(`["https://example.com/garden.jpg"]`)),
	}
}

func TestRoomCreateDefaultsToAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)

	room := validRoom()
	require.NoError(t, svc.Create(room))
	assert.Equal(t, models.RoomStatusAvailable, room.Status)
	assert.NotZero(t, room.ID)
}

func TestRoomCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)

	cases := []struct {
		name   string
		mutate func(*models.Room)
		field  string
	}{
		{"empty name", func(r *models.Room) { r.Name = "  " }, "name"},
		{"negative price", func(r *models.Room) { r.Price = -1 }, "price"},
		{"zero capacity", func(r *models.Room) { r.Capacity = 0 }, "capacity"},
		{"zero beds", func(r *models.Room) { r.Beds = 0 }, "beds"},
		{"discount above 100", func(r *models.Room) { r.Discount = 150 }, "discount"},
		{"rating out of range", func(r *models.Room) { v := 6.0; r.Rating = &v }, "rating"},
		{"unknown amenity", func(r *models.Room) { r.Amenities = datatypes.JSON([]byte(`["Helipad"]`)) }, "amenities"},
		{"empty amenities", func(r *models.Room) { r.Amenities = datatypes.JSON([]byte(`[]`)) }, "amenities"},
		{"no images", func(r *models.Room) { r.Images = datatypes.JSON([]byte(`[]`)) }, "images"},
		{"bad status", func(r *models.Room) { r.Status = "haunted" }, "status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			room := validRoom()
			tc.mutate(room)

			err := svc.Create(room)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestRoomListFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)

	cheap := validRoom()
	cheap.Price = 80
	require.NoError(t, svc.Create(cheap))

	mid := validRoom()
	mid.Price = 150
	require.NoError(t, svc.Create(mid))

	pricey := validRoom()
	pricey.Price = 300
	pricey.Status = models.RoomStatusMaintenance
	require.NoError(t, svc.Create(pricey))

	all, err := svc.List(RoomFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	min, max := 100.0, 200.0
	ranged, err := svc.List(RoomFilter{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, 150.0, ranged[0].Price)

	maint, err := svc.List(RoomFilter{Status: models.RoomStatusMaintenance})
	require.NoError(t, err)
	assert.Len(t, maint, 1)
}

func TestRoomUpdateStatusIsDerived(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)

	room := validRoom()
	require.NoError(t, svc.Create(room))

	// an admin writing "occupied" with no active stay is overruled by
	// reconciliation
	updated, err := svc.Update(room.ID, map[string]interface{}{"status": models.RoomStatusOccupied})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, updated.Status)

	// maintenance is honored as-is
	updated, err = svc.Update(room.ID, map[string]interface{}{"status": models.RoomStatusMaintenance})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusMaintenance, updated.Status)

	// leaving maintenance recomputes from bookings
	updated, err = svc.Update(room.ID, map[string]interface{}{"status": models.RoomStatusAvailable})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, updated.Status)

	_, err = svc.Update(room.ID, map[string]interface{}{"status": "haunted"})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestRoomUpdateProtectsIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)

	room := validRoom()
	require.NoError(t, svc.Create(room))

	updated, err := svc.Update(room.ID, map[string]interface{}{
		"id":    9999,
		"price": 175.0,
	})
	require.NoError(t, err)
	assert.Equal(t, room.ID, updated.ID)
	assert.Equal(t, 175.0, updated.Price)
}

func TestRoomDeleteBlockedByConfirmedBookings(t *testing.T) {
	db := newTestDB(t)
	rooms := NewRoomService(db)
	bookings := NewBookingService(db)
	user := seedUser(t, db, models.RoleUser)

	room := validRoom()
	require.NoError(t, rooms.Create(room))

	booking, err := bookings.Create(CreateBookingInput{
		UserID: user.ID, RoomID: room.ID,
		CheckIn: futureDay(10), CheckOut: futureDay(12), Guests: 1,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, rooms.Delete(room.ID), ErrRoomHasBookings)

	_, err = bookings.UpdateStatus(booking.ID, models.BookingStatusCancelled, "")
	require.NoError(t, err)
	require.NoError(t, rooms.Delete(room.ID))

	_, err = rooms.GetByID(room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
