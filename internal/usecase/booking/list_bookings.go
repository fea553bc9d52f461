package booking

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// ForUser lists the caller's own bookings, newest appointment first.
func (uc *ListBookings) ForUser(
	ctx context.Context,
	userID string,
) ([]models.Booking, error) {
	return uc.repo.ListBookingsForUser(ctx, userID)
}

// All is the admin listing. Date and status are optional filters.
func (uc *ListBookings) All(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Booking, error) {

	if strings.TrimSpace(filter.Date) != "" {
		date, err := ParseDate(filter.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = date
	}

	if filter.Status != "" && !domain.Status(filter.Status).Valid() {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return uc.repo.ListBookings(ctx, filter)
}
