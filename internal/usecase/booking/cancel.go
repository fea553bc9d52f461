package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

type CancelBooking struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		now:      time.Now,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	actor Actor,
	bookingID uuid.UUID,
) (*models.Booking, error) {

	b, err := loadOwned(ctx, uc.repo, actor, bookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(b, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		_ = uc.notifier.BookingCancelled(ctx, b)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actor.UserID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: b.ID.String(),
	})

	return b, nil
}
