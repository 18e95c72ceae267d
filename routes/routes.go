package routes

import (
	"net/http"
	"time"

	userRepo "booked/database/repository/user"
	"booked/handlers"
	"booked/middleware"
	"booked/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers identity endpoints.
func RegisterUserRoutes(r *gin.Engine, users userRepo.UserRepository) {
	api := r.Group("/api/users")
	{
		api.POST("/register", handlers.RegisterUser)

		// Protected routes (require authentication)
		api.Use(middleware.JWTAuthMiddleware(users))
		api.GET("/:userID", handlers.GetUser)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, users userRepo.UserRepository) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthMiddleware(users))
		bookingGroup.POST("", handlers.CreateBooking)
		bookingGroup.POST("/range", handlers.CreateRangeBooking)
		bookingGroup.DELETE("/:appointmentID", handlers.CancelBooking)

		// Lifecycle transitions belong to the professional side.
		pro := bookingGroup.Group("")
		pro.Use(middleware.RequireRole(models.RoleProfessional))
		pro.PUT("/:appointmentID/confirm", handlers.ConfirmAppointment)
		pro.PUT("/:appointmentID/complete", handlers.CompleteAppointment)
	}
}

// RegisterAvailabilityRoutes sets up slot-calendar endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, users userRepo.UserRepository) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.JWTAuthMiddleware(users))
		api.GET("/:professionalID", handlers.GetAvailability)
		api.GET("/:professionalID/appointments", handlers.ListAppointments)
		api.POST("/provision", handlers.ProvisionUnavailability)
	}
}

// RegisterServiceRoutes sets up catalog endpoints.
func RegisterServiceRoutes(r *gin.Engine, users userRepo.UserRepository) {
	api := r.Group("/api/services")
	{
		api.Use(middleware.JWTAuthMiddleware(users))
		api.GET("", handlers.ListServices)
		api.GET("/:serviceID", handlers.GetService)

		admin := api.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.POST("", handlers.CreateService)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Booked"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, users userRepo.UserRepository) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterUserRoutes(r, users)
	RegisterBookingRoutes(r, users)
	RegisterAvailabilityRoutes(r, users)
	RegisterServiceRoutes(r, users)
}
