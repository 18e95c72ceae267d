package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appointmentRepo "booked/database/repository/appointment"
	availabilityRepo "booked/database/repository/availability"
	catalogRepo "booked/database/repository/catalog"
	userRepo "booked/database/repository/user"
	"booked/models"
	"booked/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const claimAttempts = 3

// CreateBooking validates the request, claims the slot, and persists the
// appointment as one logical unit. The claim is the atomic step; if the
// appointment write fails afterwards the claim is released before the error
// is returned.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, clientID string, req models.BookingRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	if err := validateSlotRequest(clientID, req.ProfessionalID, req.Date, req.Time); err != nil {
		return nil, err
	}
	startMinute, err := MinutesFromMidnight(req.Time)
	if err != nil {
		return nil, NewValidationError("time", err.Error())
	}

	if err := s.resolveProfessional(ctx, req.ProfessionalID); err != nil {
		return nil, err
	}
	duration, err := s.resolveDuration(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// Claim before create: the conditional write on the slot record is the
	// only point two concurrent requests for the same slot can be told apart.
	if _, err := s.claimWithRetry(ctx, req.ProfessionalID, req.Date, req.Time); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		ID:             uuid.New().String(),
		ClientID:       clientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.Time,
		StartMinute:    startMinute,
		EndMinute:      startMinute + duration,
		Duration:       duration,
		Status:         models.StatusPending,
		Notes:          req.Notes,
		CreatedAt:      time.Now(),
	}

	if err := s.Appointments.Create(ctx, appt); err != nil {
		// Compensate: the claim must not outlive the failed booking. The
		// release has to finish before we hand the error to the caller.
		if relErr := s.Availability.ReleaseSlot(ctx, req.ProfessionalID, req.Date, req.Time); relErr != nil {
			compErr := &CompensationError{
				ProfessionalID: req.ProfessionalID,
				Date:           req.Date,
				Time:           req.Time,
				Err:            relErr,
			}
			logger.Error("slot claim compensation failed, awaiting reconciliation sweep",
				zap.String("professionalId", req.ProfessionalID),
				zap.String("date", req.Date),
				zap.String("time", req.Time),
				zap.Error(relErr))
			return nil, compErr
		}
		return nil, &TransientError{Op: "create appointment", Err: err}
	}

	s.invalidateDay(ctx, req.ProfessionalID, req.Date)
	if s.Notifier != nil {
		s.Notifier.BookingCreated(ctx, appt)
	}

	logger.Info("booking created",
		zap.String("appointmentId", appt.ID),
		zap.String("professionalId", appt.ProfessionalID),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time))
	return appt, nil
}

// CreateRangeBooking reserves an arbitrary [startTime, endTime) range. The
// start slot is claimed first so identical ranges serialize on the slot
// record; differently-shaped overlaps are caught by an insert-then-verify
// pass against the appointment collection.
func (s *DefaultBookingService) CreateRangeBooking(ctx context.Context, clientID string, req models.RangeBookingRequest) (*models.Appointment, error) {
	if err := validateSlotRequest(clientID, req.ProfessionalID, req.Date, req.StartTime); err != nil {
		return nil, err
	}
	startMinute, err := MinutesFromMidnight(req.StartTime)
	if err != nil {
		return nil, NewValidationError("startTime", err.Error())
	}
	endMinute, err := MinutesFromMidnight(req.EndTime)
	if err != nil {
		return nil, NewValidationError("endTime", err.Error())
	}
	if endMinute <= startMinute {
		return nil, NewValidationError("endTime", "must be after startTime")
	}

	if err := s.resolveProfessional(ctx, req.ProfessionalID); err != nil {
		return nil, err
	}
	if req.ServiceID != "" {
		if _, err := s.resolveDuration(ctx, req.ServiceID); err != nil {
			return nil, err
		}
	}

	if _, err := s.claimWithRetry(ctx, req.ProfessionalID, req.Date, req.StartTime); err != nil {
		return nil, err
	}
	release := func() {
		if relErr := s.Availability.ReleaseSlot(ctx, req.ProfessionalID, req.Date, req.StartTime); relErr != nil {
			utils.GetLogger().Error("failed to release range-claim",
				zap.String("professionalId", req.ProfessionalID),
				zap.String("date", req.Date),
				zap.String("time", req.StartTime),
				zap.Error(relErr))
		}
	}

	// Fast pre-check before writing anything else.
	count, err := s.Appointments.CountOverlapping(ctx, req.ProfessionalID, req.Date, startMinute, endMinute)
	if err != nil {
		release()
		return nil, &TransientError{Op: "count overlapping appointments", Err: err}
	}
	if count > 0 {
		release()
		return nil, &ConflictError{ProfessionalID: req.ProfessionalID, Date: req.Date, Time: req.StartTime}
	}

	appt := &models.Appointment{
		ID:             uuid.New().String(),
		ClientID:       clientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.StartTime,
		StartMinute:    startMinute,
		EndMinute:      endMinute,
		Duration:       endMinute - startMinute,
		Status:         models.StatusPending,
		Notes:          req.Notes,
		CreatedAt:      time.Now(),
	}
	if err := s.Appointments.Create(ctx, appt); err != nil {
		release()
		return nil, &TransientError{Op: "create appointment", Err: err}
	}

	// Verify after insert: a racing overlapping writer is visible now. The
	// count includes our own row, so anything above one is a conflict. A
	// failed verification must not stand as success, so the insert is undone
	// and the error surfaces as retryable.
	count, err = s.Appointments.CountOverlapping(ctx, req.ProfessionalID, req.Date, startMinute, endMinute)
	if err != nil {
		_ = s.Appointments.DeleteByID(ctx, appt.ID)
		release()
		return nil, &TransientError{Op: "verify overlapping appointments", Err: err}
	}
	if count > 1 {
		_ = s.Appointments.DeleteByID(ctx, appt.ID)
		release()
		return nil, &ConflictError{ProfessionalID: req.ProfessionalID, Date: req.Date, Time: req.StartTime}
	}

	s.invalidateDay(ctx, req.ProfessionalID, req.Date)
	if s.Notifier != nil {
		s.Notifier.BookingCreated(ctx, appt)
	}
	return appt, nil
}

// CancelBooking marks the appointment cancelled and releases its slot so the
// time becomes bookable again. Cancelling an already-cancelled appointment is
// a no-op.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	if appointmentID == "" {
		return nil, NewValidationError("appointmentId", "must not be empty")
	}

	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, s.mapAppointmentError(err, appointmentID)
	}
	if appt.Status == models.StatusCancelled {
		return appt, nil
	}
	if !appt.Status.CanTransitionTo(models.StatusCancelled) {
		return nil, NewValidationError("status", fmt.Sprintf("cannot cancel a %s appointment", appt.Status))
	}

	updated, err := s.Appointments.UpdateStatus(ctx, appointmentID, appt.Status, models.StatusCancelled)
	if err != nil {
		return nil, s.mapAppointmentError(err, appointmentID)
	}

	// Release is idempotent; if it fails the sweep will free the orphan since
	// no live appointment holds the slot anymore.
	if err := s.Availability.ReleaseSlot(ctx, updated.ProfessionalID, updated.Date, updated.Time); err != nil {
		utils.GetLogger().Warn("failed to release slot on cancellation",
			zap.String("appointmentId", updated.ID),
			zap.Error(err))
	}

	s.invalidateDay(ctx, updated.ProfessionalID, updated.Date)
	if s.Notifier != nil {
		s.Notifier.BookingCancelled(ctx, updated)
	}
	return updated, nil
}

// ConfirmAppointment transitions a pending appointment to confirmed.
func (s *DefaultBookingService) ConfirmAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return s.transition(ctx, appointmentID, models.StatusPending, models.StatusConfirmed)
}

// CompleteAppointment transitions a confirmed appointment to completed.
func (s *DefaultBookingService) CompleteAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return s.transition(ctx, appointmentID, models.StatusConfirmed, models.StatusCompleted)
}

func (s *DefaultBookingService) transition(ctx context.Context, appointmentID string, from, to models.AppointmentStatus) (*models.Appointment, error) {
	if appointmentID == "" {
		return nil, NewValidationError("appointmentId", "must not be empty")
	}
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, s.mapAppointmentError(err, appointmentID)
	}
	if appt.Status != from {
		return nil, NewValidationError("status", fmt.Sprintf("cannot move a %s appointment to %s", appt.Status, to))
	}
	updated, err := s.Appointments.UpdateStatus(ctx, appointmentID, from, to)
	if err != nil {
		return nil, s.mapAppointmentError(err, appointmentID)
	}
	return updated, nil
}

// QueryAvailability returns the full slot list for a professional and date so
// a client can render bookable times. Day views are cached briefly and busted
// on every mutation of that day.
func (s *DefaultBookingService) QueryAvailability(ctx context.Context, professionalID, date string) (*models.DayAvailability, error) {
	if professionalID == "" {
		return nil, NewValidationError("professionalId", "must not be empty")
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	cacheKey := utils.AvailabilityCachePrefix + professionalID + ":" + date
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var day models.DayAvailability
			if err := json.Unmarshal([]byte(cached), &day); err == nil {
				return &day, nil
			}
		}
	}

	grid, err := GenerateSlots(s.Grid.DayStart, s.Grid.DayEnd, s.Grid.IntervalMinutes)
	if err != nil {
		return nil, fmt.Errorf("bad booking grid configuration: %w", err)
	}
	day, err := s.Availability.GetOrCreate(ctx, professionalID, date, grid)
	if err != nil {
		return nil, &TransientError{Op: "load day availability", Err: err}
	}

	if s.Cache != nil {
		if data, err := json.Marshal(day); err == nil {
			s.Cache.Set(ctx, cacheKey, data, s.cacheTTL())
		}
	}
	return day, nil
}

// ProvisionUnavailability blocks every generated slot for every date in the
// requested range. Safe to re-run with the same arguments.
func (s *DefaultBookingService) ProvisionUnavailability(ctx context.Context, req models.ProvisionRequest) (int64, error) {
	if req.ProfessionalID == "" {
		return 0, NewValidationError("professionalId", "must not be empty")
	}
	dates, err := datesBetween(req.StartDate, req.EndDate)
	if err != nil {
		return 0, err
	}

	interval := req.IntervalMinutes
	if interval == 0 {
		interval = s.Grid.IntervalMinutes
	}
	times, err := GenerateSlots(req.StartTime, req.EndTime, interval)
	if err != nil {
		var rangeErr *InvalidRangeError
		if errors.As(err, &rangeErr) {
			return 0, NewValidationError("timeRange", rangeErr.Error())
		}
		return 0, NewValidationError("time", err.Error())
	}

	count, err := s.Availability.BulkMarkUnavailable(ctx, req.ProfessionalID, dates, times)
	if err != nil {
		return 0, &TransientError{Op: "bulk mark unavailable", Err: err}
	}

	for _, date := range dates {
		s.invalidateDay(ctx, req.ProfessionalID, date)
	}
	return count, nil
}

// ListAppointments returns the professional's appointments for one date.
func (s *DefaultBookingService) ListAppointments(ctx context.Context, professionalID, date string) ([]models.Appointment, error) {
	if professionalID == "" {
		return nil, NewValidationError("professionalId", "must not be empty")
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	appts, err := s.Appointments.ListByProfessionalAndDate(ctx, professionalID, date)
	if err != nil {
		return nil, &TransientError{Op: "list appointments", Err: err}
	}
	return appts, nil
}

// claimWithRetry performs the atomic claim, retrying transient storage
// failures a bounded number of times. A conflict is final and never retried.
func (s *DefaultBookingService) claimWithRetry(ctx context.Context, professionalID, date, slotTime string) (*models.Slot, error) {
	var lastErr error
	for attempt := 1; attempt <= claimAttempts; attempt++ {
		slot, err := s.Availability.ClaimSlot(ctx, professionalID, date, slotTime)
		if err == nil {
			return slot, nil
		}
		if errors.Is(err, availabilityRepo.ErrSlotUnavailable) {
			return nil, &ConflictError{ProfessionalID: professionalID, Date: date, Time: slotTime}
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < claimAttempts {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
	}
	return nil, &TransientError{Op: "claim slot", Err: lastErr}
}

func (s *DefaultBookingService) resolveProfessional(ctx context.Context, professionalID string) error {
	if s.Users == nil {
		return nil
	}
	user, err := s.Users.GetByID(ctx, professionalID)
	if errors.Is(err, userRepo.ErrNotFound) {
		return &NotFoundError{Resource: "professional", ID: professionalID}
	}
	if err != nil {
		return &TransientError{Op: "resolve professional", Err: err}
	}
	if user.Role != models.RoleProfessional {
		return &NotFoundError{Resource: "professional", ID: professionalID}
	}
	return nil
}

func (s *DefaultBookingService) resolveDuration(ctx context.Context, serviceID string) (int, error) {
	duration := s.Grid.DefaultDuration
	if duration <= 0 {
		duration = 30
	}
	if serviceID == "" || s.Catalog == nil {
		return duration, nil
	}
	svc, err := s.Catalog.GetByID(ctx, serviceID)
	if errors.Is(err, catalogRepo.ErrNotFound) {
		return 0, &NotFoundError{Resource: "service", ID: serviceID}
	}
	if err != nil {
		return 0, &TransientError{Op: "resolve service", Err: err}
	}
	if svc.DurationMinutes > 0 {
		duration = svc.DurationMinutes
	}
	return duration, nil
}

func (s *DefaultBookingService) mapAppointmentError(err error, id string) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrNotFound):
		return &NotFoundError{Resource: "appointment", ID: id}
	case errors.Is(err, appointmentRepo.ErrStatusConflict):
		return NewValidationError("status", "appointment status changed concurrently, reload and retry")
	default:
		return &TransientError{Op: "appointment lookup", Err: err}
	}
}

func (s *DefaultBookingService) invalidateDay(ctx context.Context, professionalID, date string) {
	if s.Cache == nil {
		return
	}
	key := utils.AvailabilityCachePrefix + professionalID + ":" + date
	if err := s.Cache.Del(ctx, key).Err(); err != nil && err != redis.Nil {
		utils.GetLogger().Warn("failed to invalidate availability cache", zap.String("key", key), zap.Error(err))
	}
}

func (s *DefaultBookingService) cacheTTL() time.Duration {
	if s.CacheTTL > 0 {
		return s.CacheTTL
	}
	return time.Minute
}

func validateSlotRequest(clientID, professionalID, date, slotTime string) error {
	if clientID == "" {
		return NewValidationError("clientId", "must not be empty")
	}
	if professionalID == "" {
		return NewValidationError("professionalId", "must not be empty")
	}
	if err := validateDate(date); err != nil {
		return err
	}
	if slotTime == "" {
		return NewValidationError("time", "must not be empty")
	}
	return nil
}

func validateDate(date string) error {
	if date == "" {
		return NewValidationError("date", "must not be empty")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return NewValidationError("date", "want YYYY-MM-DD")
	}
	return nil
}

func datesBetween(startDate, endDate string) ([]string, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, NewValidationError("startDate", "want YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, NewValidationError("endDate", "want YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, NewValidationError("endDate", "must not be before startDate")
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return dates, nil
}
