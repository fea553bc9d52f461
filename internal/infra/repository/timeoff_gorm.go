package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-marketplace/internal/domain/timeoff"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

type TimeOffGormRepository struct {
	db *gorm.DB
}

func NewTimeOffGormRepository(db *gorm.DB) *TimeOffGormRepository {
	return &TimeOffGormRepository{db: db}
}

var _ timeoff.Repository = (*TimeOffGormRepository)(nil)

func (r *TimeOffGormRepository) CreateTimeOff(ctx context.Context, p *models.TimeOff) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *TimeOffGormRepository) DeleteTimeOff(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TimeOff{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("time_off_not_found")
	}
	return nil
}

func (r *TimeOffGormRepository) ListTimeOff(ctx context.Context, from string) ([]models.TimeOff, error) {
	q := r.db.WithContext(ctx)
	if from != "" {
		q = q.Where("end_date >= ?", from)
	}

	var out []models.TimeOff
	if err := q.Order("start_date ASC, start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
