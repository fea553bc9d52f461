package booking

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/logging"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
)

type RescheduleBooking struct {
	repo         domain.Repository
	availability *GetAvailability
	timeOff      *CheckTimeOff
	notifier     Notifier
	audit        *audit.Dispatcher
	logger       *zap.Logger
}

func NewRescheduleBooking(
	repo domain.Repository,
	availability *GetAvailability,
	timeOff *CheckTimeOff,
	notifier Notifier,
	audit *audit.Dispatcher,
	logger *zap.Logger,
) *RescheduleBooking {
	return &RescheduleBooking{
		repo:         repo,
		availability: availability,
		timeOff:      timeOff,
		notifier:     notifier,
		audit:        audit,
		logger:       logging.OrNop(logger),
	}
}

func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	actor Actor,
	bookingID uuid.UUID,
	date string,
	displayTime string,
) (*models.Booking, error) {

	// ---- 1️⃣ input ----
	date, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	display, err := normalizeDisplay(displayTime)
	if err != nil {
		return nil, err
	}
	start24, err := timeutil.To24Hour(display)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_time")
	}

	// ---- 2️⃣ booking ----
	b, err := loadOwned(ctx, uc.repo, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	duration, err := uc.repo.DurationMinutes(ctx, serviceKey(b.ServiceID))
	if err != nil {
		return nil, err
	}

	// ---- 3️⃣ blackout ----
	blocked, err := uc.timeOff.Execute(ctx, date, start24, duration)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, httperr.ErrBusiness("time_off_conflict")
	}

	// ---- 4️⃣ other bookings ----
	avail, err := uc.availability.Execute(ctx, domain.AvailabilityInput{
		Date:             date,
		ServiceID:        serviceKey(b.ServiceID),
		ExcludeBookingID: &b.ID,
	})
	if err != nil {
		return nil, err
	}
	if err := slotFree(avail, display); err != nil {
		return nil, err
	}

	// ---- 5️⃣ persist ----
	previous := b.AppointmentDate + " " + b.AppointmentTime
	if err := domain.Reschedule(b, date, display); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusiness("time_conflict")
		}
		return nil, err
	}

	if uc.notifier != nil {
		_ = uc.notifier.BookingRescheduled(ctx, b)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actor.UserID,
		Action:   "booking_rescheduled",
		Entity:   "booking",
		EntityID: b.ID.String(),
		Metadata: map[string]any{"from": previous, "to": date + " " + display},
	})

	return b, nil
}
