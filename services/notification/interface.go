package notification

import (
	"context"
	"fmt"

	userRepo "booked/database/repository/user"
	"booked/models"
	"booked/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	NotifyBookingCreated(ctx context.Context, appt *models.Appointment) error
	NotifyBookingCancelled(ctx context.Context, appt *models.Appointment) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	users userRepo.UserRepository
}

func NewDefaultNotificationService(users userRepo.UserRepository) (*DefaultNotificationService, error) {
	if users == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository is nil")
	}
	return &DefaultNotificationService{users: users}, nil
}

// SendPushNotification looks up a user's FCM token and sends a push. Users
// without a registered token are skipped silently; there is no push target.
func (s *DefaultNotificationService) SendPushNotification(
	ctx context.Context,
	userID, title, body string,
	data map[string]string,
) error {
	if utils.FCMClient == nil {
		return nil
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("SendPushNotification: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		return nil
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "bookings",
				Sound:     "default",
			},
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendPushNotification: failed to send FCM message: %w", err)
	}
	return nil
}

// NotifyBookingCreated pushes the confirmation to both sides of the booking.
func (s *DefaultNotificationService) NotifyBookingCreated(ctx context.Context, appt *models.Appointment) error {
	data := map[string]string{
		"type":          "booking_created",
		"appointmentId": appt.ID,
		"date":          appt.Date,
		"time":          appt.Time,
	}

	clientErr := s.SendPushNotification(ctx, appt.ClientID,
		"Booking received",
		fmt.Sprintf("Your appointment on %s at %s is pending confirmation.", appt.Date, appt.Time),
		data)
	proErr := s.SendPushNotification(ctx, appt.ProfessionalID,
		"New booking",
		fmt.Sprintf("You have a new appointment on %s at %s.", appt.Date, appt.Time),
		data)

	if clientErr != nil {
		return clientErr
	}
	return proErr
}

// NotifyBookingCancelled pushes the cancellation to both sides of the booking.
func (s *DefaultNotificationService) NotifyBookingCancelled(ctx context.Context, appt *models.Appointment) error {
	data := map[string]string{
		"type":          "booking_cancelled",
		"appointmentId": appt.ID,
		"date":          appt.Date,
		"time":          appt.Time,
	}

	clientErr := s.SendPushNotification(ctx, appt.ClientID,
		"Booking cancelled",
		fmt.Sprintf("Your appointment on %s at %s has been cancelled.", appt.Date, appt.Time),
		data)
	proErr := s.SendPushNotification(ctx, appt.ProfessionalID,
		"Booking cancelled",
		fmt.Sprintf("The appointment on %s at %s has been cancelled. The slot is open again.", appt.Date, appt.Time),
		data)

	if clientErr != nil {
		return clientErr
	}
	return proErr
}
