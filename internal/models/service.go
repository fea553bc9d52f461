package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:1000" json:"description"`

	// Free-form text as entered by admins ("60 min", "2 hours").
	Duration        string `gorm:"size:50" json:"duration"`
	DurationMinutes int    `json:"duration_minutes"`

	PriceCents int64  `json:"price_cents"`
	Currency   string `gorm:"size:3;default:'usd'" json:"currency"`
	ImageURL   string `gorm:"size:500" json:"image_url"`
	Active     bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
