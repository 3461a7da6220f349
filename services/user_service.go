package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"grandstay-backend/models"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UserService wraps *gorm.DB for account management.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Password  string
}

// Register creates a user with a bcrypt-hashed password. Email uniqueness is
// checked up front and enforced again by the store's unique index.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.FirstName == "" {
		return nil, validationErr("firstName", "first name is required")
	}
	if input.LastName == "" {
		return nil, validationErr("lastName", "last name is required")
	}
	if input.Email == "" {
		return nil, validationErr("email", "email is required")
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, validationErr("email", "not a valid email address")
	}
	if len(input.Password) < 8 {
		return nil, validationErr("password", "must be at least 8 characters")
	}

	var existing models.User
	err := s.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("db error checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Email:     input.Email,
		Password:  string(hash),
		Role:      models.RoleUser,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Authenticate verifies credentials. Lookup and compare failures both map to
// the same error so callers can't probe for registered emails.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("db error finding user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) GetByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &user, nil
}
