package models

import "time"

// User mirrors an identity-provider account. ID is the token subject.
type User struct {
	ID    string `gorm:"size:128;primaryKey" json:"id"`
	Email string `gorm:"size:255;index" json:"email"`
	Name  string `gorm:"size:100" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Role  string `gorm:"size:20;default:'customer'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
