package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"roombook/models"
	"roombook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves day views, sessions, bookings and month calendars.
type BookingHandler struct {
	Rooms    RoomAPI
	Sessions SessionAPI
	Calendar CalendarAPI
	Now      func() time.Time
}

func NewBookingHandler(rooms RoomAPI, sessions SessionAPI, calendar CalendarAPI) *BookingHandler {
	return &BookingHandler{Rooms: rooms, Sessions: sessions, Calendar: calendar, Now: time.Now}
}

type focusRequest struct {
	Date string `json:"date" binding:"required"`
}

type tapRequest struct {
	Index *int `json:"index" binding:"required"`
}

type presetRequest struct {
	Preset string `json:"preset" binding:"required"`
}

type titleRequest struct {
	Title string `json:"title"`
}

// GetDayHandler returns the grid, slot lookup and periods of one room/date.
func (h *BookingHandler) GetDayHandler(c *gin.Context) {
	view, err := h.Rooms.GetDayView(c.Request.Context(), c.Param("roomID"), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetCalendarHandler returns the reconciled month. Year and month default to
// the current month.
func (h *BookingHandler) GetCalendarHandler(c *gin.Context) {
	now := h.Now()
	year, month := now.Year(), int(now.Month())
	var err error
	if v := c.Query("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year", "details": err.Error()})
			return
		}
	}
	if v := c.Query("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month", "details": err.Error()})
			return
		}
	}

	cal, err := h.Calendar.Month(c.Request.Context(), c.Param("roomID"), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// FocusSessionHandler opens or refocuses the caller's session on a room/date.
func (h *BookingHandler) FocusSessionHandler(c *gin.Context) {
	var req focusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	view, err := h.Sessions.Focus(c.Request.Context(), c.GetString("userID"), c.Param("roomID"), req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetSessionHandler returns the session against a freshly built grid.
func (h *BookingHandler) GetSessionHandler(c *gin.Context) {
	view, err := h.Sessions.Get(c.Request.Context(), c.GetString("userID"), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// respondView writes a session transition. A rejected selection still
// returns the unchanged view so clients can redraw.
func respondView(c *gin.Context, view *models.SessionView, err error) {
	var selErr *booking.SelectionError
	if errors.As(err, &selErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": selErr.Message,
			"code":  selErr.Code,
			"view":  view,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// TapHandler applies a tap on one grid point.
func (h *BookingHandler) TapHandler(c *gin.Context) {
	var req tapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	view, err := h.Sessions.Tap(c.Request.Context(), c.GetString("userID"), c.Param("sessionID"), *req.Index)
	respondView(c, view, err)
}

// PresetHandler replaces the selection with a named quick pick.
func (h *BookingHandler) PresetHandler(c *gin.Context) {
	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	view, err := h.Sessions.ApplyPreset(c.Request.Context(), c.GetString("userID"), c.Param("sessionID"), req.Preset)
	respondView(c, view, err)
}

func (h *BookingHandler) ClearSelectionHandler(c *gin.Context) {
	view, err := h.Sessions.Clear(c.Request.Context(), c.GetString("userID"), c.Param("sessionID"))
	respondView(c, view, err)
}

// ConfirmHandler books the session's completed selection.
func (h *BookingHandler) ConfirmHandler(c *gin.Context) {
	var req titleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}
	b, err := h.Sessions.Confirm(c.Request.Context(), c.GetString("userID"), c.Param("sessionID"), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Booking confirmed", zap.String("bookingID", b.ID))
	c.JSON(http.StatusCreated, b)
}

// BookPeriodHandler books a whole period. On failure the recomputed periods
// are returned so the client can redraw.
func (h *BookingHandler) BookPeriodHandler(c *gin.Context) {
	var req titleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}
	res, err := h.Rooms.BookWholePeriod(c.Request.Context(), c.GetString("userID"),
		c.Param("roomID"), c.Param("date"), c.Param("periodID"), req.Title)

	var pErr *booking.PeriodBookingError
	if errors.As(err, &pErr) {
		status := statusFor(pErr.Err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": pErr.Error(), "periods": pErr.Periods})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// CancelBookingHandler cancels one of the caller's bookings. Admins may
// cancel any booking.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	b, err := h.Rooms.CancelBooking(c.Request.Context(), c.GetString("userID"), c.Param("bookingID"), c.GetBool("isAdmin"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CreateClosureHandler blocks a room for a window or a whole day.
func (h *BookingHandler) CreateClosureHandler(c *gin.Context) {
	var req models.ClosureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	closure, err := h.Rooms.AddClosure(c.Request.Context(), c.Param("roomID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, closure)
}

// DeleteClosureHandler reopens the window a closure blocked.
func (h *BookingHandler) DeleteClosureHandler(c *gin.Context) {
	closure, err := h.Rooms.RemoveClosure(c.Request.Context(), c.Param("roomID"), c.Param("closureID"))
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Closure removed", zap.String("closureID", closure.ID))
	c.JSON(http.StatusOK, closure)
}

// ListPresetsHandler returns the configured quick picks ordered by start time.
func (h *BookingHandler) ListPresetsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.Sessions.ListPresets()})
}
