package repository

import (
	bookingRepo "roombook/database/repository/booking"
	closureRepo "roombook/database/repository/closure"
)

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo

var (
	ErrBookingConflict = bookingRepo.ErrBookingConflict
	ErrBookingNotFound = bookingRepo.ErrBookingNotFound
)

// Re-export the ClosureRepository interface and constructor.
type ClosureRepository = closureRepo.ClosureRepository

var NewMongoClosureRepo = closureRepo.NewMongoClosureRepo

var ErrClosureNotFound = closureRepo.ErrClosureNotFound
