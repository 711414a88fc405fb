package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roombook/database/repository"
	"roombook/models"
	"roombook/services/availability"
	"roombook/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRooms struct {
	view      *booking.DayView
	period    *booking.PeriodBooking
	cancelled *models.Booking
	closure   *models.Closure
	err       error
	asAdmin   bool
}

func (s *stubRooms) GetDayView(context.Context, string, string) (*booking.DayView, error) {
	return s.view, s.err
}

func (s *stubRooms) BookWholePeriod(context.Context, string, string, string, string, string) (*booking.PeriodBooking, error) {
	return s.period, s.err
}

func (s *stubRooms) CancelBooking(_ context.Context, _, _ string, isAdmin bool) (*models.Booking, error) {
	s.asAdmin = isAdmin
	return s.cancelled, s.err
}

func (s *stubRooms) AddClosure(context.Context, string, models.ClosureRequest) (*models.Closure, error) {
	return s.closure, s.err
}

func (s *stubRooms) RemoveClosure(context.Context, string, string) (*models.Closure, error) {
	return s.closure, s.err
}

type stubSessions struct {
	view   *models.SessionView
	booked *models.Booking
	err    error
	userID string
	index  int
	preset string
	title  string
}

func (s *stubSessions) Focus(_ context.Context, userID, _, _ string) (*models.SessionView, error) {
	s.userID = userID
	return s.view, s.err
}

func (s *stubSessions) Get(_ context.Context, userID, _ string) (*models.SessionView, error) {
	s.userID = userID
	return s.view, s.err
}

func (s *stubSessions) Tap(_ context.Context, _, _ string, index int) (*models.SessionView, error) {
	s.index = index
	return s.view, s.err
}

func (s *stubSessions) ApplyPreset(_ context.Context, _, _, name string) (*models.SessionView, error) {
	s.preset = name
	return s.view, s.err
}

func (s *stubSessions) Clear(context.Context, string, string) (*models.SessionView, error) {
	return s.view, s.err
}

func (s *stubSessions) Confirm(_ context.Context, _, _, title string) (*models.Booking, error) {
	s.title = title
	return s.booked, s.err
}

func (s *stubSessions) ListPresets() []availability.Preset {
	return availability.DefaultPresets().List()
}

type stubCalendar struct {
	cal         *models.MonthCalendar
	err         error
	year, month int
}

func (s *stubCalendar) Month(_ context.Context, _ string, year, month int) (*models.MonthCalendar, error) {
	s.year, s.month = year, month
	return s.cal, s.err
}

func newTestRouter(h *BookingHandler, admin bool) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Set("isAdmin", admin)
		c.Next()
	})
	r.GET("/rooms/:roomID/days/:date", h.GetDayHandler)
	r.GET("/rooms/:roomID/calendar", h.GetCalendarHandler)
	r.POST("/rooms/:roomID/days/:date/periods/:periodID/book", h.BookPeriodHandler)
	r.POST("/rooms/:roomID/sessions", h.FocusSessionHandler)
	r.GET("/sessions/:sessionID", h.GetSessionHandler)
	r.POST("/sessions/:sessionID/tap", h.TapHandler)
	r.POST("/sessions/:sessionID/preset", h.PresetHandler)
	r.DELETE("/sessions/:sessionID/selection", h.ClearSelectionHandler)
	r.POST("/sessions/:sessionID/confirm", h.ConfirmHandler)
	r.DELETE("/bookings/:bookingID", h.CancelBookingHandler)
	r.POST("/rooms/:roomID/closures", h.CreateClosureHandler)
	r.DELETE("/rooms/:roomID/closures/:closureID", h.DeleteClosureHandler)
	r.GET("/presets", h.ListPresetsHandler)
	return r
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGetDayHandler(t *testing.T) {
	rooms := &stubRooms{view: &booking.DayView{Date: "2025-03-10"}}
	r := newTestRouter(NewBookingHandler(rooms, &stubSessions{}, &stubCalendar{}), false)

	w := perform(r, http.MethodGet, "/rooms/a/days/2025-03-10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-03-10", decode(t, w)["date"])

	rooms.err = fmt.Errorf("%w: timeout", booking.ErrUpstream)
	assert.Equal(t, http.StatusBadGateway, perform(r, http.MethodGet, "/rooms/a/days/2025-03-10", "").Code)

	rooms.err = fmt.Errorf("%w: \"tomorrow\"", availability.ErrInvalidDate)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodGet, "/rooms/a/days/tomorrow", "").Code)
}

func TestGetCalendarHandler(t *testing.T) {
	cal := &stubCalendar{cal: &models.MonthCalendar{RoomID: "a", Year: 2025, Month: 3}}
	h := NewBookingHandler(&stubRooms{}, &stubSessions{}, cal)
	h.Now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	r := newTestRouter(h, false)

	w := perform(r, http.MethodGet, "/rooms/a/calendar", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2025, cal.year)
	assert.Equal(t, 3, cal.month)

	perform(r, http.MethodGet, "/rooms/a/calendar?year=2026&month=1", "")
	assert.Equal(t, 2026, cal.year)
	assert.Equal(t, 1, cal.month)

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodGet, "/rooms/a/calendar?month=may", "").Code)

	cal.err = fmt.Errorf("%w: 2025-13", availability.ErrInvalidDate)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodGet, "/rooms/a/calendar?month=13", "").Code)
}

func TestFocusSessionHandler(t *testing.T) {
	sessions := &stubSessions{view: &models.SessionView{Session: models.SelectionSession{SessionID: "s1"}}}
	r := newTestRouter(NewBookingHandler(&stubRooms{}, sessions, &stubCalendar{}), false)

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/rooms/a/sessions", `{}`).Code)

	w := perform(r, http.MethodPost, "/rooms/a/sessions", `{"date":"2025-03-10"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", sessions.userID)

	sessions.err = booking.ErrSessionNotFound
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodGet, "/sessions/s1", "").Code)
}

func TestTapHandler(t *testing.T) {
	sessions := &stubSessions{view: &models.SessionView{}}
	r := newTestRouter(NewBookingHandler(&stubRooms{}, sessions, &stubCalendar{}), false)

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/sessions/s1/tap", `{}`).Code)

	w := perform(r, http.MethodPost, "/sessions/s1/tap", `{"index":0}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, sessions.index)

	sessions.err = &booking.SelectionError{
		Code:    "rangeUnavailable",
		Message: availability.ErrRangeUnavailable.Error(),
		Err:     availability.ErrRangeUnavailable,
	}
	w = perform(r, http.MethodPost, "/sessions/s1/tap", `{"index":5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, "所选时间段包含不可用时段", body["error"])
	assert.Equal(t, "rangeUnavailable", body["code"])
	assert.NotNil(t, body["view"])
	assert.Equal(t, 5, sessions.index)
}

func TestPresetAndClearHandlers(t *testing.T) {
	sessions := &stubSessions{view: &models.SessionView{SelectedRange: "08:30 - 12:00"}}
	r := newTestRouter(NewBookingHandler(&stubRooms{}, sessions, &stubCalendar{}), false)

	w := perform(r, http.MethodPost, "/sessions/s1/preset", `{"preset":"morningHalf"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "morningHalf", sessions.preset)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodDelete, "/sessions/s1/selection", "").Code)
}

func TestConfirmHandler(t *testing.T) {
	sessions := &stubSessions{booked: &models.Booking{ID: "bk-1"}}
	r := newTestRouter(NewBookingHandler(&stubRooms{}, sessions, &stubCalendar{}), false)

	w := perform(r, http.MethodPost, "/sessions/s1/confirm", `{"title":"Retro"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Retro", sessions.title)

	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/sessions/s1/confirm", "").Code)

	sessions.err = fmt.Errorf("%w: %v", booking.ErrSlotTaken, availability.ErrRangeUnavailable)
	assert.Equal(t, http.StatusConflict, perform(r, http.MethodPost, "/sessions/s1/confirm", "").Code)

	sessions.err = booking.ErrSelectionIncomplete
	assert.Equal(t, http.StatusUnprocessableEntity, perform(r, http.MethodPost, "/sessions/s1/confirm", "").Code)

	sessions.err = errors.New("boom")
	w = perform(r, http.MethodPost, "/sessions/s1/confirm", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestBookPeriodHandler(t *testing.T) {
	rooms := &stubRooms{period: &booking.PeriodBooking{Booking: &models.Booking{ID: "bk-1"}}}
	r := newTestRouter(NewBookingHandler(rooms, &stubSessions{}, &stubCalendar{}), false)
	path := "/rooms/a/days/2025-03-10/periods/morning/book"

	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, path, "").Code)

	rooms.err = &booking.PeriodBookingError{
		PeriodID: "morning",
		Periods:  []models.Period{{ID: "morning", Status: models.PeriodPartial}},
		Err:      booking.ErrSlotTaken,
	}
	w := perform(r, http.MethodPost, path, `{"title":"Offsite"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	periods, ok := decode(t, w)["periods"].([]any)
	require.True(t, ok)
	assert.Len(t, periods, 1)

	rooms.err = &booking.PeriodBookingError{PeriodID: "morning", Err: errors.Join(errors.New("write"), booking.ErrUpstream)}
	assert.Equal(t, http.StatusBadGateway, perform(r, http.MethodPost, path, "").Code)

	rooms.err = &booking.PeriodBookingError{PeriodID: "morning", Err: errors.New("write timeout")}
	assert.Equal(t, http.StatusBadGateway, perform(r, http.MethodPost, path, "").Code)

	rooms.err = fmt.Errorf("%w: \"evening\"", availability.ErrUnknownPeriod)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, path, "").Code)
}

func TestCancelBookingHandler(t *testing.T) {
	rooms := &stubRooms{cancelled: &models.Booking{ID: "bk-1", Status: models.BookingStatusCancelled}}

	r := newTestRouter(NewBookingHandler(rooms, &stubSessions{}, &stubCalendar{}), true)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodDelete, "/bookings/bk-1", "").Code)
	assert.True(t, rooms.asAdmin)

	rooms.err = booking.ErrNotOwner
	r = newTestRouter(NewBookingHandler(rooms, &stubSessions{}, &stubCalendar{}), false)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodDelete, "/bookings/bk-1", "").Code)
	assert.False(t, rooms.asAdmin)
}

func TestCreateClosureHandler(t *testing.T) {
	rooms := &stubRooms{closure: &models.Closure{ID: "cl-1"}}
	r := newTestRouter(NewBookingHandler(rooms, &stubSessions{}, &stubCalendar{}), true)

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/rooms/a/closures", `{"isAllDay":true}`).Code)
	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/rooms/a/closures", `{"date":"2025-03-10","isAllDay":true}`).Code)

	rooms.err = fmt.Errorf("%w: window", booking.ErrInvalidClosure)
	assert.Equal(t, http.StatusBadRequest,
		perform(r, http.MethodPost, "/rooms/a/closures", `{"date":"2025-03-10","startTime":"12:00","endTime":"11:00"}`).Code)
}

func TestDeleteClosureHandler(t *testing.T) {
	rooms := &stubRooms{closure: &models.Closure{ID: "cl-1", Date: "2025-03-10"}}
	r := newTestRouter(NewBookingHandler(rooms, &stubSessions{}, &stubCalendar{}), true)

	w := perform(r, http.MethodDelete, "/rooms/a/closures/cl-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cl-1", decode(t, w)["id"])

	rooms.err = repository.ErrClosureNotFound
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodDelete, "/rooms/a/closures/cl-9", "").Code)
}

func TestListPresetsHandler(t *testing.T) {
	r := newTestRouter(NewBookingHandler(&stubRooms{}, &stubSessions{}, &stubCalendar{}), false)

	w := perform(r, http.MethodGet, "/presets", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Presets []availability.Preset `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Presets, 3)
	assert.Equal(t, availability.PresetMorningHalf, body.Presets[0].Name)
	assert.Equal(t, "08:30", body.Presets[0].StartTime)
}
