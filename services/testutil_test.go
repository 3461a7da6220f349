package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"grandstay-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Room{}, &models.Booking{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	user := models.User{
		FirstName: "Test",
		LastName:  "Guest",
		Email:     fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Password:  "$2a$10$notarealhashnotarealhashnotarealhash",
		Role:      role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRoom(t *testing.T, db *gorm.DB, price float64, capacity int) models.Room {
	t.Helper()
	room := models.Room{
		Name:        "Seaview Double",
		Description: "Double room facing the sea",
		Price:       price,
		Capacity:    capacity,
		Beds:        1,
		Amenities:   datatypes.JSON([]byte(`["WiFi","TV"]`)),
		RoomSize:    "25 sqm",
		Images:      datatypes.JSON([]byte(`["https://example.com/room.jpg"]`)),
		Status:      models.RoomStatusAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

// futureDay returns midnight UTC n days from now.
func futureDay(n int) time.Time {
	return TruncateToDay(time.Now().UTC().AddDate(0, 0, n))
}
