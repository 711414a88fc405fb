package routes

import (
	"roombook/handlers"
	"roombook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoomRoutes registers day views, calendars, sessions and bookings.
func RegisterRoomRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("/presets", hb.ListPresetsHandler)
		api.GET("/rooms/:roomID/days/:date", hb.GetDayHandler)
		api.GET("/rooms/:roomID/calendar", hb.GetCalendarHandler)
		api.POST("/rooms/:roomID/days/:date/periods/:periodID/book", hb.BookPeriodHandler)

		api.POST("/rooms/:roomID/sessions", hb.FocusSessionHandler)
		api.GET("/sessions/:sessionID", hb.GetSessionHandler)
		api.POST("/sessions/:sessionID/tap", hb.TapHandler)
		api.POST("/sessions/:sessionID/preset", hb.PresetHandler)
		api.DELETE("/sessions/:sessionID/selection", hb.ClearSelectionHandler)
		api.POST("/sessions/:sessionID/confirm", hb.ConfirmHandler)

		api.DELETE("/bookings/:bookingID", hb.CancelBookingHandler)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminOnlyMiddleware())
	{
		admin.POST("/rooms/:roomID/closures", hb.CreateClosureHandler)
		admin.DELETE("/rooms/:roomID/closures/:closureID", hb.DeleteClosureHandler)
	}
}
