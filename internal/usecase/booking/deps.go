package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

// Notifier sends best-effort customer emails.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b *models.Booking) error
	BookingRescheduled(ctx context.Context, b *models.Booking) error
	BookingCancelled(ctx context.Context, b *models.Booking) error
	BookingReminder(ctx context.Context, b *models.Booking) error
}

// Claimer dedupes work across replicas.
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Actor is the authenticated caller.
type Actor struct {
	UserID string
	Admin  bool
}

// loadOwned fetches a booking the actor may act on. Other customers'
// bookings are reported as missing.
func loadOwned(
	ctx context.Context,
	repo domain.Repository,
	actor Actor,
	id uuid.UUID,
) (*models.Booking, error) {

	b, err := repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil || (!actor.Admin && b.UserID != actor.UserID) {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	return b, nil
}

func serviceKey(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
