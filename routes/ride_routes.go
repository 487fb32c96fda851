package routes

import (
	"carpool/internal/handlers"
	"carpool/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRideRoutes wires catalog and booking endpoints.
func SetupRideRoutes(r *gin.RouterGroup, rideHandler *handlers.RideHandler, jwtSecret string) {
	rides := r.Group("/rides")
	rides.Use(middleware.AuthRequired(jwtSecret))
	{
		rides.GET("", rideHandler.ListRides)
		rides.POST("", middleware.CaptainRequired(), rideHandler.PublishRide)
		rides.POST("/:id/join", middleware.PassengerRequired(), rideHandler.JoinRide)
	}
}

// SetupHistoryRoutes wires the per-role history projections.
func SetupHistoryRoutes(r *gin.RouterGroup, historyHandler *handlers.HistoryHandler, jwtSecret string) {
	history := r.Group("/history")
	history.Use(middleware.AuthRequired(jwtSecret))
	{
		history.GET("/captain", middleware.CaptainRequired(), historyHandler.CaptainHistory)
		history.DELETE("/captain", middleware.CaptainRequired(), historyHandler.DeleteCaptainHistory)
		history.GET("/passenger", middleware.PassengerRequired(), historyHandler.PassengerHistory)
		history.DELETE("/passenger", middleware.PassengerRequired(), historyHandler.DeletePassengerHistory)
	}
}

// SetupAuthRoutes wires the development token endpoint.
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/token", authHandler.IssueToken)
	}
}
