package handlers

import (
	"errors"
	"net/http"

	"roombook/database/repository"
	"roombook/services/availability"
	"roombook/services/booking"
	"roombook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var selErr *booking.SelectionError
	switch {
	case errors.As(err, &selErr),
		errors.Is(err, booking.ErrSelectionIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrSessionNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrClosureNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrSlotTaken),
		errors.Is(err, booking.ErrSessionConflict),
		errors.Is(err, booking.ErrPeriodUnavailable):
		return http.StatusConflict
	case errors.Is(err, booking.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, availability.ErrInvalidDate),
		errors.Is(err, availability.ErrInvalidClock),
		errors.Is(err, availability.ErrUnknownPeriod),
		errors.Is(err, booking.ErrInvalidClosure):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Selection rejections carry
// their user-facing message; internal errors are not echoed back.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	var selErr *booking.SelectionError
	if errors.As(err, &selErr) {
		c.JSON(status, gin.H{"error": selErr.Message, "code": selErr.Code})
		return
	}
	if status == http.StatusInternalServerError {
		getLogger(c).Error("Unhandled service error", zap.Error(err), zap.String("path", c.FullPath()))
		utils.JSONError(c, status, "Internal Server Error", "")
		return
	}
	utils.JSONError(c, status, http.StatusText(status), err.Error())
}
