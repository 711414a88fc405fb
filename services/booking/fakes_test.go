package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"roombook/database/repository"
	"roombook/models"
	"roombook/services/availability"
)

const (
	testRoom = "room-a"
	testDate = "2025-03-10"
	testUser = "user-1"
)

var testNow = time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

func dayKey(roomID, date string) string { return roomID + "|" + date }

type fakeRoomData struct {
	mu        sync.Mutex
	days      map[string]models.DayDetail
	monthly   map[string]models.DayStatus
	bookings  map[string]*models.Booking
	closures  []models.Closure
	fetchErr  error
	monthErr  error
	createErr error
	// beforeCreateFails runs when createErr is about to be returned.
	beforeCreateFails func()
	// afterMonth runs once the monthly aggregate has been read.
	afterMonth func()
	fetchCalls        int
	monthCalls        int
	seq               int
}

func newFakeRoomData() *fakeRoomData {
	return &fakeRoomData{
		days:     make(map[string]models.DayDetail),
		bookings: make(map[string]*models.Booking),
	}
}

func (f *fakeRoomData) addBooking(roomID, date, start, end, userID string) *models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	b := models.Booking{
		ID:          fmt.Sprintf("bk-%d", f.seq),
		RoomID:      roomID,
		UserID:      userID,
		BookingDate: date,
		StartTime:   start,
		EndTime:     end,
		Status:      models.BookingStatusBooked,
	}
	detail := f.days[dayKey(roomID, date)]
	detail.Bookings = append(detail.Bookings, b)
	f.days[dayKey(roomID, date)] = detail
	f.bookings[b.ID] = &b
	return &b
}

func (f *fakeRoomData) FetchDayDetail(_ context.Context, roomID, date string) (models.DayDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return models.DayDetail{}, f.fetchErr
	}
	detail := f.days[dayKey(roomID, date)]
	var active []models.Booking
	for _, b := range detail.Bookings {
		if current, ok := f.bookings[b.ID]; ok && !current.IsActive() {
			continue
		}
		active = append(active, b)
	}
	detail.Bookings = active
	return detail, nil
}

func (f *fakeRoomData) FetchMonthlyAggregate(_ context.Context, _ string, _, _ int) (map[string]models.DayStatus, error) {
	f.mu.Lock()
	f.monthCalls++
	monthly, err := f.monthly, f.monthErr
	hook := f.afterMonth
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return monthly, nil
}

func (f *fakeRoomData) GetBooking(_ context.Context, bookingID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRoomData) CreateBooking(_ context.Context, booking *models.Booking) error {
	if f.createErr != nil {
		if f.beforeCreateFails != nil {
			f.beforeCreateFails()
		}
		return f.createErr
	}
	created := f.addBooking(booking.RoomID, booking.BookingDate, booking.StartTime, booking.EndTime, booking.UserID)
	booking.ID = created.ID
	return nil
}

func (f *fakeRoomData) CancelBooking(_ context.Context, bookingID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	b.Status = models.BookingStatusCancelled
	cp := *b
	return &cp, nil
}

func (f *fakeRoomData) CreateClosure(_ context.Context, closure *models.Closure) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	closure.ID = fmt.Sprintf("cl-%d", len(f.closures)+1)
	f.closures = append(f.closures, *closure)
	detail := f.days[dayKey(closure.RoomID, closure.Date)]
	detail.Closures = append(detail.Closures, *closure)
	f.days[dayKey(closure.RoomID, closure.Date)] = detail
	return nil
}

func (f *fakeRoomData) DeleteClosure(_ context.Context, roomID, closureID string) (*models.Closure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.closures {
		if c.ID != closureID || c.RoomID != roomID {
			continue
		}
		f.closures = append(f.closures[:i], f.closures[i+1:]...)
		detail := f.days[dayKey(roomID, c.Date)]
		var kept []models.Closure
		for _, dc := range detail.Closures {
			if dc.ID != closureID {
				kept = append(kept, dc)
			}
		}
		detail.Closures = kept
		f.days[dayKey(roomID, c.Date)] = detail
		return &c, nil
	}
	return nil, repository.ErrClosureNotFound
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.SelectionSession
	byUser   map[string]string
	saves    int
	// beforeSave runs ahead of every save, outside the lock.
	beforeSave func()
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]models.SelectionSession),
		byUser:   make(map[string]string),
	}
}

func (f *fakeSessionStore) Get(_ context.Context, sessionID string) (*models.SelectionSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (f *fakeSessionStore) ForUser(ctx context.Context, userID string) (*models.SelectionSession, error) {
	f.mu.Lock()
	id, ok := f.byUser[userID]
	f.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return f.Get(ctx, id)
}

func (f *fakeSessionStore) Save(_ context.Context, session *models.SelectionSession) error {
	if hook := f.beforeSave; hook != nil {
		f.beforeSave = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.sessions[session.SessionID]
	switch {
	case !ok && session.Version != 0:
		return ErrSessionNotFound
	case ok && current.Version != session.Version:
		return ErrSessionConflict
	}
	f.saves++
	session.Version++
	f.sessions[session.SessionID] = *session
	f.byUser[session.UserID] = session.SessionID
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, session *models.SelectionSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, session.SessionID)
	delete(f.byUser, session.UserID)
	return nil
}

type fakeInvalidator struct {
	days []string
}

func (f *fakeInvalidator) InvalidateDay(_ context.Context, roomID, date string) error {
	f.days = append(f.days, dayKey(roomID, date))
	return nil
}

type fakeCache struct {
	entries     map[string]models.MonthCalendar
	gens        map[string]int64
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string]models.MonthCalendar),
		gens:    make(map[string]int64),
	}
}

func (f *fakeCache) Get(_ context.Context, key string) (*models.MonthCalendar, error) {
	cal, ok := f.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return &cal, nil
}

func (f *fakeCache) Generation(_ context.Context, key string) (int64, error) {
	return f.gens[key], nil
}

func (f *fakeCache) SetIfGeneration(_ context.Context, key string, gen int64, cal *models.MonthCalendar) (bool, error) {
	if f.gens[key] != gen {
		return false, nil
	}
	f.entries[key] = *cal
	return true, nil
}

func (f *fakeCache) Invalidate(_ context.Context, key string) error {
	f.invalidated = append(f.invalidated, key)
	f.gens[key]++
	delete(f.entries, key)
	return nil
}

type fakeQueue struct {
	payloads []models.CalendarRefreshPayload
}

func (f *fakeQueue) EnqueueCalendarRefresh(p models.CalendarRefreshPayload) error {
	f.payloads = append(f.payloads, p)
	return nil
}

func newTestRoomService(data *fakeRoomData, inv CalendarInvalidator) *RoomService {
	svc := NewRoomService(data, availability.DefaultWindow(), inv, nil)
	svc.Now = func() time.Time { return testNow }
	return svc
}

func newTestSessionService(data *fakeRoomData) (*SessionService, *fakeSessionStore, *fakeInvalidator) {
	inv := &fakeInvalidator{}
	store := newFakeSessionStore()
	rooms := newTestRoomService(data, inv)
	return NewSessionService(rooms, store, nil, nil), store, inv
}

// idx returns the grid index of an "HH:MM" on the default window.
func idx(clock string) int {
	m, err := availability.ParseClock(clock)
	if err != nil {
		panic(err)
	}
	return (m - availability.DefaultWindow().Start) / availability.SlotMinutes
}
