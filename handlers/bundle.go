// File: roombook/handlers/bundle.go
package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Room endpoints
	GetDayHandler      gin.HandlerFunc
	GetCalendarHandler gin.HandlerFunc
	BookPeriodHandler  gin.HandlerFunc

	// Session endpoints
	FocusSessionHandler   gin.HandlerFunc
	GetSessionHandler     gin.HandlerFunc
	TapHandler            gin.HandlerFunc
	PresetHandler         gin.HandlerFunc
	ClearSelectionHandler gin.HandlerFunc
	ConfirmHandler        gin.HandlerFunc

	// Booking endpoints
	CancelBookingHandler gin.HandlerFunc

	// Admin endpoints
	CreateClosureHandler gin.HandlerFunc
	DeleteClosureHandler gin.HandlerFunc

	ListPresetsHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires every BookingHandler method into a bundle.
func NewHandlerBundle(h *BookingHandler) *HandlerBundle {
	return &HandlerBundle{
		GetDayHandler:         h.GetDayHandler,
		GetCalendarHandler:    h.GetCalendarHandler,
		BookPeriodHandler:     h.BookPeriodHandler,
		FocusSessionHandler:   h.FocusSessionHandler,
		GetSessionHandler:     h.GetSessionHandler,
		TapHandler:            h.TapHandler,
		PresetHandler:         h.PresetHandler,
		ClearSelectionHandler: h.ClearSelectionHandler,
		ConfirmHandler:        h.ConfirmHandler,
		CancelBookingHandler:  h.CancelBookingHandler,
		DeleteClosureHandler:  h.DeleteClosureHandler,
		ListPresetsHandler:    h.ListPresetsHandler,
		CreateClosureHandler:  h.CreateClosureHandler,
		HealthHandler:         HealthHandler,
	}
}
