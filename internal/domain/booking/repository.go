package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

// AvailabilityStore is what the slot evaluator reads.
type AvailabilityStore interface {
	// ActiveBookingsForDate returns pending and confirmed bookings on date
	// (YYYY-MM-DD), in a stable order.
	ActiveBookingsForDate(
		ctx context.Context,
		date string,
	) ([]ActiveBooking, error)

	// DurationMinutes resolves a service duration, falling back to the
	// catalog default for unknown or empty ids.
	DurationMinutes(
		ctx context.Context,
		serviceID string,
	) (int, error)
}

// TimeOffStore is what the blackout checker reads.
type TimeOffStore interface {
	// CheckTimeOffConflict runs the server-side overlap predicate. Times
	// are HH:MM:SS.
	CheckTimeOffConflict(
		ctx context.Context,
		date string,
		start string,
		end string,
	) (bool, error)

	// TimeOffOverlapping returns periods whose date range includes date.
	TimeOffOverlapping(
		ctx context.Context,
		date string,
	) ([]models.TimeOff, error)
}

type Repository interface {
	AvailabilityStore
	TimeOffStore

	// -------- Service --------
	GetService(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Service, error)

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Booking, error)

	GetBookingByCheckout(
		ctx context.Context,
		provider string,
		checkoutID string,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookingsForUser(
		ctx context.Context,
		userID string,
	) ([]models.Booking, error)

	ListBookings(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Booking, error)

	ListDueReminders(
		ctx context.Context,
		date string,
	) ([]models.Booking, error)
}

type ListFilter struct {
	Date   string
	Status string
	Limit  int
	Offset int
}
