package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Subject of the identity-provider token that created the booking.
	UserID        string `gorm:"size:128;index" json:"user_id"`
	CustomerName  string `gorm:"size:100" json:"customer_name"`
	CustomerEmail string `gorm:"size:255" json:"customer_email"`

	ServiceID *uuid.UUID `gorm:"type:uuid" json:"service_id"`
	Service   *Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	AppointmentDate string `gorm:"size:10;index;not null" json:"appointment_date"` // YYYY-MM-DD
	AppointmentTime string `gorm:"size:8;not null" json:"appointment_time"`        // h:mm AM/PM

	Status        string `gorm:"size:20;default:'pending';index" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'unpaid'" json:"payment_status"`

	AmountCents      int64  `json:"amount_cents"`
	Currency         string `gorm:"size:3" json:"currency"`
	CheckoutProvider string `gorm:"size:20" json:"checkout_provider"`
	CheckoutID       string `gorm:"size:255;index" json:"checkout_id"`
	PaymentReference string `gorm:"size:255" json:"payment_reference"`

	Notes          string     `gorm:"size:500" json:"notes"`
	ReminderSentAt *time.Time `json:"reminder_sent_at"`
	CancelledAt    *time.Time `json:"cancelled_at"`
	CompletedAt    *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceName returns the joined service name, if loaded.
func (b *Booking) ServiceName() string {
	if b.Service != nil {
		return b.Service.Name
	}
	return ""
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
