package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"grandstay-backend/models"
)

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "grandstay_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// ConnectDatabase opens the MySQL connection, migrates the schema and seeds
// baseline data. The returned handle is injected into the services; nothing
// reads a package-level connection.
func ConnectDatabase() (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: newLogger,
		// duplicate-key errors must surface as gorm.ErrDuplicatedKey so the
		// booking service can translate the conflict-key backstop
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
	); err != nil {
		return nil, err
	}

	SeedDatabase(db)
	return db, nil
}

// SeedDatabase ensures a default admin account and, on an empty database, a
// handful of sample rooms.
func SeedDatabase(db *gorm.DB) {
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
	if adminCount == 0 {
		email := envOrDefault("ADMIN_EMAIL", "admin@grandstay.local")
		password := envOrDefault("ADMIN_PASSWORD", "admin123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.User{
				FirstName: "Admin",
				LastName:  "User",
				Email:     email,
				Password:  string(hash),
				Role:      models.RoleAdmin,
			}
			if err := db.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := []models.Room{
			{
				Name:        "Deluxe King",
				Description: "Spacious king room with city view",
				Price:       180,
				Capacity:    2,
				Beds:        1,
				Amenities:   datatypes.JSON([]byte(`["WiFi","TV","Air Conditioning","Breakfast"]`)),
				RoomSize:    "32 sqm",
				Images:      datatypes.JSON([]byte(`["https://images.grandstay.local/deluxe-king.jpg"]`)),
				Status:      models.RoomStatusAvailable,
				IsFeatured:  true,
			},
			{
				Name:        "Twin Garden",
				Description: "Twin beds overlooking the garden",
				Price:       140,
				Capacity:    3,
				Beds:        2,
				Amenities:   datatypes.JSON([]byte(`["WiFi","TV","Balcony"]`)),
				RoomSize:    "28 sqm",
				Images:      datatypes.JSON([]byte(`["https://images.grandstay.local/twin-garden.jpg"]`)),
				Status:      models.RoomStatusAvailable,
			},
			{
				Name:        "Family Suite",
				Description: "Two-room suite with kitchenette",
				Price:       260,
				Capacity:    5,
				Beds:        3,
				Amenities:   datatypes.JSON([]byte(`["WiFi","TV","Kitchen","Parking","Pool"]`)),
				RoomSize:    "55 sqm",
				Images:      datatypes.JSON([]byte(`["https://images.grandstay.local/family-suite.jpg"]`)),
				Status:      models.RoomStatusAvailable,
			},
		}
		if err := db.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Println("Sample rooms seeded")
		}
	}
}
