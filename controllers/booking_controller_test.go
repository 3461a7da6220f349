package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"grandstay-backend/controllers"
	"grandstay-backend/middleware"
	"grandstay-backend/models"
	"grandstay-backend/routes"
	"grandstay-backend/services"
)

func setupApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.InitJWT("test-secret")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
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

	userService := services.NewUserService(db)
	roomService := services.NewRoomService(db)
	bookingService := services.NewBookingService(db)

	router := routes.SetupRouter(
		controllers.NewAuthController(userService),
		controllers.NewRoomController(roomService),
		controllers.NewBookingController(bookingService),
		controllers.NewAdminController(bookingService),
	)
	return router, db
}

func createAccount(t *testing.T, db *gorm.DB, role string) (models.User, string) {
	t.Helper()
	user := models.User{
		FirstName: "Test",
		LastName:  "Account",
		Email:     fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Password:  "$2a$10$notarealhashnotarealhashnotarealhash",
		Role:      role,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateToken(&user)
	require.NoError(t, err)
	return user, token
}

func createRoom(t *testing.T, db *gorm.DB, price float64) models.Room {
	t.Helper()
	room := models.Room{
		Name:      "API Test Room",
		Price:     price,
		Capacity:  2,
		Beds:      1,
		Amenities: datatypes.JSON([]byte(`["WiFi"]`)),
		Images:    datatypes.JSON([]byte(`["https://example.com/r.jpg"]`)),
		Status:    models.RoomStatusAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func stayDate(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format("2006-01-02")
}

func TestCreateBookingEndpoint(t *testing.T) {
	router, db := setupApp(t)
	_, token := createAccount(t, db, models.RoleUser)
	room := createRoom(t, db, 100)

	payload := gin.H{
		"roomId":   room.ID,
		"checkIn":  stayDate(10),
		"checkOut": stayDate(13),
		"guests":   2,
	}

	w := doJSON(router, http.MethodPost, "/api/bookings", token, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool           `json:"success"`
		Data    models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 300.0, resp.Data.TotalPrice)
	assert.Equal(t, models.BookingStatusConfirmed, resp.Data.Status)

	// same range again: conflict surfaces as 409, not a store error
	w = doJSON(router, http.MethodPost, "/api/bookings", token, payload)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// back-to-back turnover is accepted
	w = doJSON(router, http.MethodPost, "/api/bookings", token, gin.H{
		"roomId":   room.ID,
		"checkIn":  stayDate(13),
		"checkOut": stayDate(15),
		"guests":   1,
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateBookingEndpointAuth(t *testing.T) {
	router, db := setupApp(t)
	room := createRoom(t, db, 100)
	_, adminToken := createAccount(t, db, models.RoleAdmin)

	payload := gin.H{
		"roomId":   room.ID,
		"checkIn":  stayDate(10),
		"checkOut": stayDate(12),
		"guests":   1,
	}

	w := doJSON(router, http.MethodPost, "/api/bookings", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// booking creation is a guest operation; the gate turns admins away
	w = doJSON(router, http.MethodPost, "/api/bookings", adminToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingVisibility(t *testing.T) {
	router, db := setupApp(t)
	_, aliceToken := createAccount(t, db, models.RoleUser)
	bob, bobToken := createAccount(t, db, models.RoleUser)
	_, adminToken := createAccount(t, db, models.RoleAdmin)
	room := createRoom(t, db, 100)
	other := createRoom(t, db, 100)

	w := doJSON(router, http.MethodPost, "/api/bookings", aliceToken, gin.H{
		"roomId": room.ID, "checkIn": stayDate(10), "checkOut": stayDate(12), "guests": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/bookings", bobToken, gin.H{
		"roomId": other.ID, "checkIn": stayDate(10), "checkOut": stayDate(12), "guests": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var bobBooking models.Booking
	require.NoError(t, db.Where("user_id = ?", bob.ID).First(&bobBooking).Error)

	// users only see their own bookings
	w = doJSON(router, http.MethodGet, "/api/bookings", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data []models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)
	assert.NotEqual(t, bob.ID, listResp.Data[0].UserID)

	// and cannot read someone else's booking
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/bookings/%d", bobBooking.ID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// admins see everything
	w = doJSON(router, http.MethodGet, "/api/bookings", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 2)
}

func TestAdminBookingStatusUpdate(t *testing.T) {
	router, db := setupApp(t)
	_, userToken := createAccount(t, db, models.RoleUser)
	_, adminToken := createAccount(t, db, models.RoleAdmin)
	room := createRoom(t, db, 100)

	w := doJSON(router, http.MethodPost, "/api/bookings", userToken, gin.H{
		"roomId": room.ID, "checkIn": stayDate(10), "checkOut": stayDate(12), "guests": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var booking models.Booking
	require.NoError(t, db.First(&booking).Error)
	path := fmt.Sprintf("/api/admin/bookings/%d", booking.ID)

	// regular users can't reach the admin surface
	w = doJSON(router, http.MethodPut, path, userToken, gin.H{"status": models.BookingStatusCancelled})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodPut, path, adminToken, gin.H{"status": models.BookingStatusCancelled})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// terminal bookings refuse further transitions
	w = doJSON(router, http.MethodPut, path, adminToken, gin.H{"status": models.BookingStatusCompleted})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthEndpoints(t *testing.T) {
	router, _ := setupApp(t)

	w := doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"password":  "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reg struct {
		Token string `json:"token"`
		Data  struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "ada@example.com", reg.Data.Email)
	assert.NotContains(t, w.Body.String(), "correct-horse")

	w = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/auth/me", reg.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
}
