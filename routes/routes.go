package routes

import (
	"net/http"
	"time"

	"github.com/tech282/ecosystem-platform-api/handlers"
	"github.com/tech282/ecosystem-platform-api/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterProviderRoutes registers provider profile, availability, and
// dashboard endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		// Public discovery endpoints.
		api.GET("/id/:id", hb.Provider.GetProviderByIDHandler)
		api.GET("/id/:id/availability", hb.Provider.AvailabilityHandler)
		api.GET("/id/:id/rules", hb.Provider.ListRulesHandler)

		// Endpoints that modify provider data require authentication.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("/register", hb.Provider.RegisterProviderHandler)
		protected.PATCH("/update/:id", hb.Provider.UpdateProviderHandler)
		protected.DELETE("/delete/:id", hb.Provider.DeleteProviderHandler)

		protected.POST("/id/:id/rules", hb.Provider.AddRuleHandler)
		protected.DELETE("/id/:id/rules/:ruleId", hb.Provider.DeleteRuleHandler)
		protected.POST("/id/:id/blocked-slots", hb.Provider.AddBlockedSlotHandler)
		protected.DELETE("/id/:id/blocked-slots/:slotId", hb.Provider.DeleteBlockedSlotHandler)
		protected.GET("/id/:id/dashboard", hb.Provider.DashboardHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		// Public: guest booking and confirmation-code status lookup.
		api.POST("/guest", hb.Booking.CreateGuestBookingHandler)
		api.GET("/status/:code", hb.Booking.BookingStatusHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", hb.Booking.CreateBookingHandler)
		protected.GET("/mine", hb.Booking.MyBookingsHandler)
		protected.GET("/provider", hb.Booking.ProviderBookingsHandler)
		protected.POST("/:id/confirm", hb.Booking.ConfirmBookingHandler)
		protected.POST("/:id/cancel", hb.Booking.CancelBookingHandler)
		protected.POST("/:id/complete", hb.Booking.CompleteBookingHandler)
		protected.POST("/:id/no-show", hb.Booking.NoShowBookingHandler)
	}
}

// RegisterWebhookRoutes registers payment gateway callbacks. These are
// unauthenticated but idempotent.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/webhooks/stripe", hb.Webhook.StripeWebhookHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterHealthRoute(r)
}
