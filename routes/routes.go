package routes

import (
	"net/http"
	"time"

	"fixly/handlers"
	"fixly/middleware"
	"fixly/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the domain handlers so route registration stays in
// one place.
type HandlerBundle struct {
	Users     *handlers.UserHandler
	Providers *handlers.ProviderHandler
	Bookings  *handlers.BookingHandler
	Reviews   *handlers.ReviewHandler
}

// RegisterUserRoutes registers customer account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.Users.Register)
		api.POST("/login", hb.Users.Login)

		// Protected routes (Require Authentication)
		api.Use(middleware.ActorAuth())
		api.POST("/logout", handlers.Logout)
		api.GET("/:id", hb.Users.GetUser)
		api.PATCH("/:id", hb.Users.UpdateUser)
		api.DELETE("/:id", hb.Users.DeleteUser)
	}
}

// RegisterProviderRoutes registers provider account endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.POST("/register", hb.Providers.Register)
		api.POST("/login", hb.Providers.Login)

		// Public provider profile and its reviews. GetProvider upgrades to the
		// full record when a valid token identifies the owner or an admin.
		api.GET("/:id", middleware.OptionalActorAuth(), hb.Providers.GetProvider)
		api.GET("/:id/reviews", hb.Reviews.ListProviderReviews)

		protected := api.Group("")
		protected.Use(middleware.ActorAuth())
		protected.POST("/logout", handlers.Logout)
		protected.PATCH("/:id", hb.Providers.UpdateProvider)
		protected.DELETE("/:id", hb.Providers.DeleteProvider)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.ActorAuth())
		api.POST("", hb.Bookings.CreateBooking)
		api.GET("", hb.Bookings.ListBookings)
		api.GET("/:id", hb.Bookings.GetBooking)
		api.PATCH("/:id", hb.Bookings.UpdateBooking)
		api.DELETE("/:id", hb.Bookings.DeleteBooking)
		api.POST("/:id/payment-intent", hb.Bookings.CreatePaymentIntent)
	}
}

// RegisterReviewRoutes registers review endpoints. Reads are public, writes
// require a customer token.
func RegisterReviewRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.GET("/:id", hb.Reviews.GetReview)

		protected := api.Group("")
		protected.Use(middleware.ActorAuth())
		protected.POST("", hb.Reviews.CreateReview)
		protected.PATCH("/:id", hb.Reviews.UpdateReview)
		protected.DELETE("/:id", hb.Reviews.DeleteReview)
	}
}

// RegisterAdminRoutes registers admin-only endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.ActorAuth(), middleware.RequireRole(models.ActorAdmin))
		api.GET("/bookings/:id", hb.Bookings.GetBooking)
		api.PATCH("/bookings/:id", hb.Bookings.UpdateBooking)
		api.DELETE("/reviews/:id", hb.Reviews.DeleteReview)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Fixly"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
