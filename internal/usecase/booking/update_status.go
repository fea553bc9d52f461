package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

// UpdateBookingStatus is the admin status change.
type UpdateBookingStatus struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		now:      time.Now,
	}
}

func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	actorID string,
	bookingID uuid.UUID,
	status string,
) (*models.Booking, error) {

	to := domain.Status(status)
	if !to.Valid() {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := b.Status
	if err := domain.Transition(b, to, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		switch to {
		case domain.StatusConfirmed:
			_ = uc.notifier.BookingConfirmed(ctx, b)
		case domain.StatusCancelled:
			_ = uc.notifier.BookingCancelled(ctx, b)
		}
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "booking_status_changed",
		Entity:   "booking",
		EntityID: b.ID.String(),
		Metadata: map[string]string{"from": from, "to": b.Status},
	})

	return b, nil
}
