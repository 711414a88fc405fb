package booking

import (
	"context"
	"errors"
	"fmt"

	"roombook/models"
	"roombook/services/availability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService drives one user's range selection on one room and date.
// The grid is never stored: every call rebuilds it from fresh day detail so
// the selection is always judged against current bookings.
type SessionService struct {
	Rooms   *RoomService
	Store   SessionStore
	Presets availability.PresetSet
	Logger  *zap.Logger
}

func NewSessionService(rooms *RoomService, store SessionStore, presets availability.PresetSet, logger *zap.Logger) *SessionService {
	if presets == nil {
		presets = availability.DefaultPresets()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{Rooms: rooms, Store: store, Presets: presets, Logger: logger}
}

func (s *SessionService) view(session *models.SelectionSession, grid availability.DayGrid) *models.SessionView {
	points := availability.ApplySelection(grid.Points, session.Selection)
	v := &models.SessionView{
		Session: *session,
		Points:  points,
		Periods: availability.AggregatePeriodsWith(s.Rooms.Periods, grid.Points),
	}
	sel := session.Selection
	if sel.Phase == models.PhaseComplete && sel.EndIndex < len(points) {
		v.SelectedRange = availability.RangeText(points, sel.StartIndex, sel.EndIndex)
	}
	return v
}

func (s *SessionService) load(ctx context.Context, userID, sessionID string) (*models.SelectionSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) save(ctx context.Context, session *models.SelectionSession) error {
	session.UpdatedAt = s.Rooms.now()
	return s.Store.Save(ctx, session)
}

// Focus points the user's session at roomID/date. Moving to another room or
// date discards the previous selection; refocusing the same pair keeps it.
func (s *SessionService) Focus(ctx context.Context, userID, roomID, date string) (*models.SessionView, error) {
	grid, err := s.Rooms.Grid(ctx, roomID, date)
	if err != nil {
		return nil, err
	}

	session, err := s.Store.ForUser(ctx, userID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		session = &models.SelectionSession{
			SessionID: uuid.New().String(),
			UserID:    userID,
			Selection: models.EmptySelection(),
		}
	case err != nil:
		return nil, err
	}

	if session.RoomID != roomID || session.Date != date {
		session.RoomID = roomID
		session.Date = date
		session.Selection = models.EmptySelection()
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(session, grid), nil
}

// ListPresets returns the configured quick picks ordered by start time.
func (s *SessionService) ListPresets() []availability.Preset {
	return s.Presets.List()
}

// Get returns the session with a freshly built grid.
func (s *SessionService) Get(ctx context.Context, userID, sessionID string) (*models.SessionView, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	grid, err := s.Rooms.Grid(ctx, session.RoomID, session.Date)
	if err != nil {
		return nil, err
	}
	return s.view(session, grid), nil
}

// transition loads the session, rebuilds its grid and applies step. A
// rejected step leaves the stored selection untouched and returns the
// current view alongside a SelectionError.
func (s *SessionService) transition(
	ctx context.Context,
	userID, sessionID string,
	step func(sel models.Selection, grid availability.DayGrid) availability.SelectionResult,
) (*models.SessionView, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	grid, err := s.Rooms.Grid(ctx, session.RoomID, session.Date)
	if err != nil {
		return nil, err
	}

	res := step(session.Selection, grid)
	if !res.Success {
		return s.view(session, grid), newSelectionError(res)
	}
	session.Selection = res.State
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(session, grid), nil
}

// Tap applies a tap on the grid point at index.
func (s *SessionService) Tap(ctx context.Context, userID, sessionID string, index int) (*models.SessionView, error) {
	return s.transition(ctx, userID, sessionID, func(sel models.Selection, grid availability.DayGrid) availability.SelectionResult {
		return availability.SelectPoint(sel, index, grid.Points, grid.Lookup)
	})
}

// ApplyPreset replaces the selection with the named quick pick.
func (s *SessionService) ApplyPreset(ctx context.Context, userID, sessionID, name string) (*models.SessionView, error) {
	return s.transition(ctx, userID, sessionID, func(sel models.Selection, grid availability.DayGrid) availability.SelectionResult {
		preset, err := s.Presets.Get(name)
		if err != nil {
			return availability.SelectionResult{State: sel, Err: err}
		}
		res := availability.ApplyPreset(preset, grid.Points, grid.Lookup)
		if !res.Success {
			res.State = sel
		}
		return res
	})
}

// Clear resets the selection to empty.
func (s *SessionService) Clear(ctx context.Context, userID, sessionID string) (*models.SessionView, error) {
	return s.transition(ctx, userID, sessionID, func(_ models.Selection, grid availability.DayGrid) availability.SelectionResult {
		return availability.ClearSelection(grid.Points)
	})
}

// Confirm books the completed selection after re-validating it against a
// fresh grid. The session is dropped once the booking exists.
func (s *SessionService) Confirm(ctx context.Context, userID, sessionID, title string) (*models.Booking, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	sel := session.Selection
	if sel.Phase != models.PhaseComplete {
		return nil, ErrSelectionIncomplete
	}
	grid, err := s.Rooms.Grid(ctx, session.RoomID, session.Date)
	if err != nil {
		return nil, err
	}
	if err := availability.ValidateRange(grid.Points, grid.Lookup, sel.StartIndex, sel.EndIndex); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSlotTaken, err)
	}

	booking := &models.Booking{
		RoomID:      session.RoomID,
		UserID:      userID,
		BookingDate: session.Date,
		StartTime:   grid.Points[sel.StartIndex].Time,
		EndTime:     grid.Points[sel.EndIndex].Time,
		Status:      models.BookingStatusBooked,
		Title:       title,
		CreatedAt:   s.Rooms.now(),
	}
	if err := s.Rooms.Data.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.Store.Delete(ctx, session); err != nil {
		s.Logger.Warn("Failed to drop confirmed session", zap.String("sessionID", sessionID), zap.Error(err))
	}
	s.Logger.Info("Booking confirmed",
		zap.String("bookingID", booking.ID), zap.String("roomID", booking.RoomID),
		zap.String("date", booking.BookingDate),
		zap.String("start", booking.StartTime), zap.String("end", booking.EndTime))
	s.Rooms.invalidate(ctx, booking.RoomID, booking.BookingDate)
	return booking, nil
}
