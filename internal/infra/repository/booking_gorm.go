package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/booking-marketplace/internal/catalog"
	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

type BookingGormRepository struct {
	db      *gorm.DB
	catalog *catalog.Catalog
}

func NewBookingGormRepository(db *gorm.DB, cat *catalog.Catalog) *BookingGormRepository {
	if cat == nil {
		cat = catalog.Default()
	}
	return &BookingGormRepository{db: db, catalog: cat}
}

var _ domain.Repository = (*BookingGormRepository)(nil)

// --------------------------------------------------
// Availability
// --------------------------------------------------

type activeRow struct {
	ID              uuid.UUID
	AppointmentTime string
	ServiceID       *uuid.UUID
	ServiceName     sql.NullString
}

func (r *BookingGormRepository) ActiveBookingsForDate(
	ctx context.Context,
	date string,
) ([]domain.ActiveBooking, error) {

	var rows []activeRow
	if err := r.db.WithContext(ctx).
		Table("bookings AS b").
		Select("b.id, b.appointment_time, b.service_id, s.name AS service_name").
		Joins("LEFT JOIN services s ON s.id = b.service_id").
		Where("b.appointment_date = ? AND b.status IN ?", date, domain.ActiveStatuses).
		Order("b.created_at ASC, b.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.ActiveBooking, 0, len(rows))
	for _, row := range rows {
		ab := domain.ActiveBooking{
			ID:              row.ID,
			AppointmentTime: row.AppointmentTime,
			ServiceName:     row.ServiceName.String,
		}
		if row.ServiceID != nil {
			ab.ServiceID = row.ServiceID.String()
		}
		out = append(out, ab)
	}
	return out, nil
}

// DurationMinutes prefers the service row, then an explicit catalog entry,
// then the catalog default.
func (r *BookingGormRepository) DurationMinutes(
	ctx context.Context,
	serviceID string,
) (int, error) {

	if serviceID == "" {
		return r.catalog.DurationMinutes(""), nil
	}

	id, err := uuid.Parse(serviceID)
	if err != nil {
		return r.catalog.DurationMinutes(serviceID), nil
	}

	var svc models.Service
	err = r.db.WithContext(ctx).
		Select("id", "duration_minutes").
		Where("id = ?", id).
		Take(&svc).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.catalog.DurationMinutes(serviceID), nil
	case err != nil:
		return 0, err
	}

	if svc.DurationMinutes > 0 {
		return svc.DurationMinutes, nil
	}
	return r.catalog.DurationMinutes(serviceID), nil
}

// --------------------------------------------------
// Time off
// --------------------------------------------------

func (r *BookingGormRepository) CheckTimeOffConflict(
	ctx context.Context,
	date string,
	start string,
	end string,
) (bool, error) {

	var conflict bool
	if err := r.db.WithContext(ctx).
		Raw("SELECT check_time_off_conflict(?, ?, ?)", date, start, end).
		Scan(&conflict).Error; err != nil {
		return false, err
	}
	return conflict, nil
}

func (r *BookingGormRepository) TimeOffOverlapping(
	ctx context.Context,
	date string,
) ([]models.TimeOff, error) {

	var periods []models.TimeOff
	if err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", date, date).
		Order("start_date ASC").
		Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uuid.UUID,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return httperr.SlotTaken(r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error)
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uuid.UUID,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ?", id).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingByCheckout(
	ctx context.Context,
	provider string,
	checkoutID string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("checkout_provider = ? AND checkout_id = ?", provider, checkoutID).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return httperr.SlotTaken(r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error)
}

func (r *BookingGormRepository) ListBookingsForUser(
	ctx context.Context,
	userID string,
) ([]models.Booking, error) {

	var out []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("user_id = ?", userID).
		Order("appointment_date DESC, created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).Preload("Service")
	if filter.Date != "" {
		q = q.Where("appointment_date = ?", filter.Date)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var out []models.Booking
	if err := q.
		Order("appointment_date ASC, created_at ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) ListDueReminders(
	ctx context.Context,
	date string,
) ([]models.Booking, error) {

	var out []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("appointment_date = ? AND status = ? AND reminder_sent_at IS NULL",
			date, string(domain.StatusConfirmed)).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
