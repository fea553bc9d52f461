package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeOff is an admin-declared blackout. Dates are inclusive; the clock
// bounds are only consulted when IsAllDay is false.
type TimeOff struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	StartDate string `gorm:"size:10;index;not null" json:"start_date"` // YYYY-MM-DD
	EndDate   string `gorm:"size:10;index;not null" json:"end_date"`

	IsAllDay  bool   `gorm:"default:true" json:"is_all_day"`
	StartTime string `gorm:"size:8" json:"start_time"` // HH:MM:SS
	EndTime   string `gorm:"size:8" json:"end_time"`

	Type   string `gorm:"size:20;default:'time_off'" json:"type"`
	Reason string `gorm:"size:255" json:"reason"`

	CreatedBy string    `gorm:"size:128" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TimeOff) TableName() string {
	return "time_off"
}

func (t *TimeOff) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
