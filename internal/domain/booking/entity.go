package booking

import (
	"time"

	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(b *models.Booking) error {
	if err := CanConfirm(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusConfirmed)
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

// Transition applies an admin-requested status change.
func Transition(b *models.Booking, to Status, now time.Time) error {
	switch to {
	case StatusConfirmed:
		return Confirm(b)
	case StatusCancelled:
		return Cancel(b, now)
	case StatusCompleted:
		return Complete(b, now)
	}
	return httperr.ErrBusiness("invalid_status")
}

// Reschedule moves the booking and clears any reminder already sent for
// the previous date.
func Reschedule(b *models.Booking, date, displayTime string) error {
	if err := CanReschedule(Status(b.Status)); err != nil {
		return err
	}

	b.AppointmentDate = date
	b.AppointmentTime = displayTime
	b.ReminderSentAt = nil
	return nil
}
