package cron

import (
	"context"
	"encoding/json"
	"time"

	"booked/config"
	"booked/models"
	"booked/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer puts booking events and sweep requests on the task queue. It is the
// queue-backed implementation of the booking core's Notifier; enqueue failures
// are logged and swallowed so a queue outage never fails a booking.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer() *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(queueRedisOpt())}
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}

// BookingCreated enqueues the created-event notification.
func (e *Enqueuer) BookingCreated(ctx context.Context, appt *models.Appointment) {
	e.enqueueBookingEvent(ctx, models.BookingEventCreated, appt)
}

// BookingCancelled enqueues the cancelled-event notification.
func (e *Enqueuer) BookingCancelled(ctx context.Context, appt *models.Appointment) {
	e.enqueueBookingEvent(ctx, models.BookingEventCancelled, appt)
}

func (e *Enqueuer) enqueueBookingEvent(ctx context.Context, event string, appt *models.Appointment) {
	payload, err := json.Marshal(models.BookingEventPayload{
		Event:          event,
		AppointmentID:  appt.ID,
		ClientID:       appt.ClientID,
		ProfessionalID: appt.ProfessionalID,
		Date:           appt.Date,
		Time:           appt.Time,
	})
	if err != nil {
		utils.GetLogger().Error("failed to marshal booking event payload", zap.Error(err))
		return
	}

	task := asynq.NewTask(TypeBookingNotify, payload)
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		utils.GetLogger().Warn("failed to enqueue booking notification",
			zap.String("appointmentId", appt.ID),
			zap.String("event", event),
			zap.Error(err))
	}
}

// EnqueueSweep queues one reconciliation pass over the configured horizon
// starting today.
func (e *Enqueuer) EnqueueSweep(ctx context.Context) error {
	horizon := config.AppConfig.SweepHorizonDays
	if horizon <= 0 {
		horizon = 7
	}
	now := time.Now()

	payload, err := json.Marshal(models.SweepPayload{
		FromDate: now.Format("2006-01-02"),
		ToDate:   now.AddDate(0, 0, horizon).Format("2006-01-02"),
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeAvailabilitySweep, payload)
	_, err = e.client.EnqueueContext(ctx, task, asynq.MaxRetry(2))
	return err
}
