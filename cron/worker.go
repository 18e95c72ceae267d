package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"booked/config"
	appointmentRepo "booked/database/repository/appointment"
	availabilityRepo "booked/database/repository/availability"
	"booked/models"
	"booked/services/notification"
	"booked/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeBookingNotify     = "booking:notify"
	TypeAvailabilitySweep = "availability:sweep"
)

// Worker runs the asynq server: booking notification delivery plus the
// periodic availability reconciliation sweep.
type Worker struct {
	srv          *asynq.Server
	availability availabilityRepo.AvailabilityRepository
	appointments appointmentRepo.AppointmentRepository
	notifier     notification.NotificationService
}

func NewWorker(
	availability availabilityRepo.AvailabilityRepository,
	appointments appointmentRepo.AppointmentRepository,
	notifier notification.NotificationService,
) *Worker {
	srv := asynq.NewServer(
		queueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	return &Worker{
		srv:          srv,
		availability: availability,
		appointments: appointments,
		notifier:     notifier,
	}
}

// Start runs the async worker in the background, retrying startup failures
// with backoff before giving up.
func (w *Worker) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingNotify, w.handleBookingNotify)
	mux.HandleFunc(TypeAvailabilitySweep, w.handleAvailabilitySweep)

	go func() {
		log.Println("[BookingWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := w.srv.Run(mux); err != nil {
				log.Printf("[BookingWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)
				if attempts == maxAttempts {
					log.Fatal("[BookingWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// Shutdown stops the worker, waiting for in-flight tasks.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func (w *Worker) handleBookingNotify(ctx context.Context, task *asynq.Task) error {
	var p models.BookingEventPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Printf("[BookingNotify] invalid payload: %v", err)
		return err
	}

	appt := &models.Appointment{
		ID:             p.AppointmentID,
		ClientID:       p.ClientID,
		ProfessionalID: p.ProfessionalID,
		Date:           p.Date,
		Time:           p.Time,
	}

	var err error
	switch p.Event {
	case models.BookingEventCreated:
		err = w.notifier.NotifyBookingCreated(ctx, appt)
	case models.BookingEventCancelled:
		err = w.notifier.NotifyBookingCancelled(ctx, appt)
	default:
		log.Printf("[BookingNotify] unknown event type: %s", p.Event)
		return nil
	}

	if err != nil {
		log.Printf("[BookingNotify] failed to send notification for appointment %s: %v", p.AppointmentID, err)
	}
	return err
}

// handleAvailabilitySweep frees claimed slots that no live appointment holds.
// Such orphans appear when a compensating release fails after a booking error
// or when the release step of a cancellation is lost.
func (w *Worker) handleAvailabilitySweep(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	var p models.SweepPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("sweep: invalid payload", zap.Error(err))
		return err
	}

	claimed, err := w.availability.ListClaimed(ctx, p.FromDate, p.ToDate)
	if err != nil {
		return err
	}

	var released int
	for _, rec := range claimed {
		live, err := w.appointments.ExistsLiveAt(ctx, rec.ProfessionalID, rec.Date, rec.Time)
		if err != nil {
			logger.Warn("sweep: failed to check appointment for claimed slot",
				zap.String("professionalId", rec.ProfessionalID),
				zap.String("date", rec.Date),
				zap.String("time", rec.Time),
				zap.Error(err))
			continue
		}
		if live {
			continue
		}
		if err := w.availability.ReleaseSlot(ctx, rec.ProfessionalID, rec.Date, rec.Time); err != nil {
			logger.Warn("sweep: failed to release orphaned slot",
				zap.String("professionalId", rec.ProfessionalID),
				zap.String("date", rec.Date),
				zap.String("time", rec.Time),
				zap.Error(err))
			continue
		}
		released++
	}

	if released > 0 {
		logger.Info("sweep: released orphaned slots",
			zap.Int("released", released),
			zap.String("fromDate", p.FromDate),
			zap.String("toDate", p.ToDate))
	}
	return nil
}

// StartSweepScheduler enqueues a reconciliation sweep on a fixed interval
// until the context is cancelled.
func StartSweepScheduler(ctx context.Context, enq *Enqueuer) {
	interval := time.Duration(config.AppConfig.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := enq.EnqueueSweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("[SweepScheduler] failed to enqueue sweep: %v", err)
				}
			}
		}
	}()
}

func queueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}
