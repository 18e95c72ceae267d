package handlers

import (
	"errors"
	"net/http"

	"booked/models"
	"booked/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingSvc is wired in main before the router starts serving.
var BookingSvc booking.BookingService

// writeBookingError maps the core's typed errors onto HTTP statuses. Transient
// and compensation failures surface as a retryable 503; the claim itself never
// leaks partial state to the client.
func writeBookingError(c *gin.Context, err error) {
	var (
		validationErr   *booking.ValidationError
		notFoundErr     *booking.NotFoundError
		conflictErr     *booking.ConflictError
		transientErr    *booking.TransientError
		compensationErr *booking.CompensationError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	case errors.As(err, &compensationErr), errors.As(err, &transientErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporary storage problem, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// CreateBooking books a single canonical slot for the authenticated client.
func CreateBooking(c *gin.Context) {
	clientID := c.GetString("userID")

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := BookingSvc.CreateBooking(c.Request.Context(), clientID, req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// CreateRangeBooking books an arbitrary [start, end) range.
func CreateRangeBooking(c *gin.Context) {
	clientID := c.GetString("userID")

	var req models.RangeBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := BookingSvc.CreateRangeBooking(c.Request.Context(), clientID, req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// CancelBooking cancels the appointment and frees its slot.
func CancelBooking(c *gin.Context) {
	appt, err := BookingSvc.CancelBooking(c.Request.Context(), c.Param("appointmentID"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ConfirmAppointment moves a pending appointment to confirmed.
func ConfirmAppointment(c *gin.Context) {
	appt, err := BookingSvc.ConfirmAppointment(c.Request.Context(), c.Param("appointmentID"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// CompleteAppointment moves a confirmed appointment to completed.
func CompleteAppointment(c *gin.Context) {
	appt, err := BookingSvc.CompleteAppointment(c.Request.Context(), c.Param("appointmentID"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ListAppointments returns a professional's appointments for one date.
func ListAppointments(c *gin.Context) {
	professionalID := c.Param("professionalID")
	date := c.Query("date")

	appts, err := BookingSvc.ListAppointments(c.Request.Context(), professionalID, date)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}
