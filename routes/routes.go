package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"grandstay-backend/controllers"
	"grandstay-backend/middleware"
	"grandstay-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controllers into the route tree. Role requirements
// are declared here per group via the middleware gate, nowhere else.
func SetupRouter(
	ac *controllers.AuthController,
	rc *controllers.RoomController,
	bc *controllers.BookingController,
	ad *controllers.AdminController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
			auth.POST("/logout", ac.Logout)
			auth.GET("/me", middleware.AuthRequired(), ac.Me)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.GET("/:id", rc.GetRoom)

			adminOnly := rooms.Group("", middleware.AuthRequired(), middleware.RequireRoles(models.RoleAdmin))
			{
				adminOnly.POST("", rc.CreateRoom)
				adminOnly.PUT("/:id", rc.UpdateRoom)
				adminOnly.PATCH("/:id", rc.UpdateRoom)
				adminOnly.DELETE("/:id", rc.DeleteRoom)
			}
		}

		bookings := api.Group("/bookings", middleware.AuthRequired())
		{
			bookings.POST("", middleware.RequireRoles(models.RoleUser), bc.CreateBooking)
			bookings.GET("", bc.GetBookings)
			bookings.GET("/:id", bc.GetBooking)
		}

		admin := api.Group("/admin", middleware.AuthRequired(), middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/stats", ad.Stats)
			admin.GET("/recent-bookings", ad.RecentBookings)
			admin.GET("/bookings/export", ad.ExportBookings)
			admin.PUT("/bookings/:id", ad.UpdateBooking)
			admin.DELETE("/bookings/:id", ad.DeleteBooking)
			admin.POST("/rooms/:id/reconcile", ad.ReconcileRoom)
		}
	}

	return r
}
