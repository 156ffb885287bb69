package booking

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
	mw "github.com/teamup-app/teamup/internal/middleware"
)

// BookingRoutes sets up booking routes. Listing is public (occupancy display
// on the booking calendar); mutations require authentication.
func BookingRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	bookingRepo := NewBookingRepository(db)
	bookingController := NewBookingController(bookingRepo, appConfig)

	router.GET("/bookings", bookingController.ListBookings)
	router.GET("/bookings/:booking_id", bookingController.GetBookingByID)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authRoutes.POST("/bookings", bookingController.CreateBooking)
		authRoutes.PUT("/bookings/:booking_id", bookingController.UpdateBooking)
		authRoutes.POST("/bookings/:booking_id/cancel", bookingController.CancelBooking)
		authRoutes.DELETE("/bookings/:booking_id", bookingController.DeleteBooking)
	}
}
