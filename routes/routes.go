package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-booking/config"
	"hotel-booking/controllers"
	"hotel-booking/middleware"
)

// Handlers groups the controllers the router dispatches to.
type Handlers struct {
	Health    *controllers.HealthController
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Rooms     *controllers.RoomController
	Reviews   *controllers.ReviewController
	Bookings  *controllers.BookingController
	Inquiries *controllers.InquiryController
	Stats     *controllers.StatsController
}

// SetupRouter wires middleware and every route of the API.
func SetupRouter(cfg *config.Config, tokens middleware.TokenParser, h Handlers) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		r.Static("/uploads", cfg.Storage.UploadDir)
	}

	allowCredentials := true
	for _, origin := range cfg.CORSOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.Health.Health)

	requireAuth := middleware.RequireAuth(tokens)
	requireAdmin := middleware.RequireAdmin()

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/password/forgot", h.Auth.ForgotPassword)
			auth.POST("/password/reset", h.Auth.ResetPassword)
			auth.GET("/me", requireAuth, h.Auth.Me)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.Rooms.GetRooms)
			rooms.GET("/:id", h.Rooms.GetRoom)
			rooms.GET("/:id/reviews", h.Reviews.ListRoomReviews)
			rooms.POST("/:id/reviews", requireAuth, h.Reviews.CreateReview)

			rooms.POST("", requireAuth, requireAdmin, h.Rooms.CreateRoom)
			rooms.PATCH("/:id", requireAuth, requireAdmin, h.Rooms.UpdateRoom)
			rooms.DELETE("/:id", requireAuth, requireAdmin, h.Rooms.DeleteRoom)
			rooms.POST("/:id/images", requireAuth, requireAdmin, h.Rooms.UploadImages)
		}

		bookings := api.Group("/bookings", requireAuth)
		{
			bookings.POST("", h.Bookings.CreateBooking)
			bookings.GET("", h.Bookings.ListBookings)
			bookings.GET("/:id", h.Bookings.GetBooking)
			bookings.PATCH("/:id", h.Bookings.UpdateBooking)
			bookings.POST("/:id/cancel", h.Bookings.CancelBooking)
			bookings.DELETE("/:id", requireAdmin, h.Bookings.DeleteBooking)
		}

		api.DELETE("/reviews/:id", requireAuth, h.Reviews.DeleteReview)

		users := api.Group("/users", requireAuth)
		{
			users.POST("/me/avatar", h.Users.UploadAvatar)

			users.GET("", requireAdmin, h.Users.ListUsers)
			users.GET("/:id", requireAdmin, h.Users.GetUser)
			users.PATCH("/:id", requireAdmin, h.Users.UpdateUser)
			users.DELETE("/:id", requireAdmin, h.Users.DeleteUser)
		}

		inquiries := api.Group("/inquiries")
		{
			inquiries.POST("", middleware.OptionalAuth(tokens), h.Inquiries.CreateInquiry)
			inquiries.GET("", requireAuth, requireAdmin, h.Inquiries.ListInquiries)
			inquiries.PATCH("/:id", requireAuth, requireAdmin, h.Inquiries.UpdateInquiry)
			inquiries.DELETE("/:id", requireAuth, requireAdmin, h.Inquiries.DeleteInquiry)
		}

		api.GET("/admin/stats", requireAuth, requireAdmin, h.Stats.Dashboard)
	}

	return r
}
