package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

type BookingListDTO struct {
	ID            uuid.UUID `json:"id"`
	Date          string    `json:"appointment_date"`
	Time          string    `json:"appointment_time"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	ServiceName   string    `json:"service_name"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewBookingList(bookings []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		out = append(out, BookingListDTO{
			ID:            b.ID,
			Date:          b.AppointmentDate,
			Time:          b.AppointmentTime,
			Status:        b.Status,
			PaymentStatus: b.PaymentStatus,
			CustomerName:  b.CustomerName,
			CustomerEmail: b.CustomerEmail,
			ServiceName:   b.ServiceName(),
			CreatedAt:     b.CreatedAt,
		})
	}
	return out
}
