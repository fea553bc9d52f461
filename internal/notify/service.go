package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-marketplace/internal/logging"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

// Service renders booking lifecycle messages and hands them to a sender.
// Failures are logged and returned; callers treat email as best effort.
type Service struct {
	sender EmailSender
	logger *zap.Logger
}

func NewService(sender EmailSender, logger *zap.Logger) *Service {
	return &Service{sender: sender, logger: logging.OrNop(logger)}
}

func (s *Service) BookingConfirmed(ctx context.Context, b *models.Booking) error {
	return s.send(ctx, b,
		"Your booking is confirmed",
		fmt.Sprintf("Your %s is confirmed for %s.", serviceLabel(b), when(b)),
	)
}

func (s *Service) BookingRescheduled(ctx context.Context, b *models.Booking) error {
	return s.send(ctx, b,
		"Your booking was rescheduled",
		fmt.Sprintf("Your %s has been moved to %s.", serviceLabel(b), when(b)),
	)
}

func (s *Service) BookingCancelled(ctx context.Context, b *models.Booking) error {
	return s.send(ctx, b,
		"Your booking was cancelled",
		fmt.Sprintf("Your %s on %s has been cancelled.", serviceLabel(b), when(b)),
	)
}

func (s *Service) BookingReminder(ctx context.Context, b *models.Booking) error {
	return s.send(ctx, b,
		"Reminder: your appointment is tomorrow",
		fmt.Sprintf("This is a reminder of your %s on %s.", serviceLabel(b), when(b)),
	)
}

func (s *Service) send(ctx context.Context, b *models.Booking, subject, line string) error {
	if s == nil || s.sender == nil {
		return nil
	}
	if strings.TrimSpace(b.CustomerEmail) == "" {
		s.logger.Debug("booking has no email, skipping", zap.String("booking_id", b.ID.String()))
		return nil
	}

	greeting := "Hello,"
	if b.CustomerName != "" {
		greeting = fmt.Sprintf("Hello %s,", b.CustomerName)
	}

	err := s.sender.Send(ctx, EmailMessage{
		To:      b.CustomerEmail,
		ToName:  b.CustomerName,
		Subject: subject,
		Body:    greeting + "\n\n" + line + "\n",
	})
	if err != nil {
		s.logger.Warn("booking email failed",
			zap.String("booking_id", b.ID.String()),
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
	return err
}

func serviceLabel(b *models.Booking) string {
	if name := b.ServiceName(); name != "" {
		return name + " appointment"
	}
	return "appointment"
}

func when(b *models.Booking) string {
	return b.AppointmentDate + " at " + b.AppointmentTime
}
