package controllers

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"grandstay-backend/middleware"
	"grandstay-backend/services"
	"grandstay-backend/utils"
)

type AuthController struct {
	Users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{Users: users}
}

type registerPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func setTokenCookie(c *gin.Context, token string) {
	secure := os.Getenv("GIN_MODE") == "release"
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token", token, int(middleware.TokenTTL.Seconds()), "/", "", secure, true)
}

func (ac *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := ac.Users.Register(services.RegisterInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Email:     payload.Email,
		Password:  payload.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		log.Printf("failed to sign token for user %d: %v", user.ID, err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}
	setTokenCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": user, "token": token})
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := ac.Users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		log.Printf("failed to sign token for user %d: %v", user.ID, err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}
	setTokenCookie(c, token)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user, "token": token})
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated principal's account.
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.Users.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
